package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusCreated, map[string]int{"id": 3})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"id":3}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWrite_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusNoContent, nil)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "Username is required.", map[string]string{"username": "Username is required."})

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Message != "Username is required." {
		t.Errorf("message = %q", body.Message)
	}
	if body.Errors["username"] != "Username is required." {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestError_DefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "", nil)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["message"] != "Not Found" {
		t.Errorf("message = %v", body["message"])
	}
	if _, ok := body["errors"]; ok {
		t.Error("errors should be omitted when empty")
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"status":"active"}`, ""},
		{"empty", ``, "request body is empty"},
		{"syntax", `{"status":`, "malformed JSON"},
		{"wrong type", `{"status":1}`, "wrong type"},
		{"unknown field", `{"state":"x"}`, "unknown field"},
		{"trailing object", `{"status":"a"}{"status":"b"}`, "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PATCH", "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			var p payload
			err := Decode(rec, req, &p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Status != "active" {
					t.Errorf("Status = %q", p.Status)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
