package userapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:8080", "ftp://example.com", "://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

func TestListParams_Values(t *testing.T) {
	tests := []struct {
		name string
		p    ListParams
		want string
	}{
		{
			name: "minimal",
			p:    ListParams{Page: 1, Limit: 10},
			want: "limit=10&page=1&search=",
		},
		{
			name: "everything",
			p:    ListParams{Page: 3, Limit: 25, OrderBy: "username", OrderDir: "desc", Search: "ann", Status: "inactive"},
			want: "limit=25&orderBy=username&orderDir=desc&page=3&search=ann&status=inactive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Values().Encode(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_List(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":1,"username":"ann","status":"active"}],"total":21}`)
	})

	res, err := c.List(context.Background(), ListParams{Page: 1, Limit: 10, Status: "active"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if res.Total != 21 || len(res.Data) != 1 || res.Data[0].Username != "ann" || res.Data[0].ID != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if gotQuery != "limit=10&page=1&search=&status=active" {
		t.Errorf("query: got %q", gotQuery)
	}
}

func TestClient_Mutations(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]string
	}
	var calls []call

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				if err := json.Unmarshal(b, &body); err != nil {
					t.Errorf("bad body %q: %v", b, err)
				}
			}
		}
		calls = append(calls, call{r.Method, r.URL.Path, body})
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		fmt.Fprint(w, `{"id":7,"username":"bob","status":"inactive"}`)
	})
	ctx := context.Background()
	in := UserInput{Username: "bob", Password: "pw", ConfirmPassword: "pw"}

	if _, err := c.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.Update(ctx, 7, in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	u, err := c.SetStatus(ctx, 7, "inactive")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if u.Status != "inactive" {
		t.Errorf("SetStatus result: %+v", u)
	}
	if err := c.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []call{
		{"POST", "/users", map[string]string{"username": "bob", "password": "pw", "confirmPassword": "pw"}},
		{"PUT", "/users/7", map[string]string{"username": "bob", "password": "pw", "confirmPassword": "pw"}},
		{"PATCH", "/users/7", map[string]string{"status": "inactive"}},
		{"DELETE", "/users/7", nil},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i].method != want[i].method || calls[i].path != want[i].path {
			t.Errorf("call %d: got %s %s, want %s %s", i, calls[i].method, calls[i].path, want[i].method, want[i].path)
		}
		for k, v := range want[i].body {
			if calls[i].body[k] != v {
				t.Errorf("call %d body[%s]: got %q, want %q", i, k, calls[i].body[k], v)
			}
		}
	}
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Username is already taken.","errors":{"username":"Username is already taken."}}`)
	})

	_, err := c.Create(context.Background(), UserInput{Username: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("Status: got %d", apiErr.Status)
	}
	if apiErr.FieldErrors["username"] == "" {
		t.Error("expected field errors to be decoded")
	}
	if got := ErrorMessage(err); got != "Username is already taken." {
		t.Errorf("ErrorMessage: got %q", got)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	err := c.Delete(context.Background(), 1)
	if got := ErrorMessage(err); got != "upstream exploded" {
		t.Errorf("ErrorMessage: got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api without message", &APIError{Status: http.StatusNotFound}, "Not Found"},
		{"api unknown status", &APIError{Status: 599}, "Request failed with status 599."},
		{"deadline", fmt.Errorf("GET /users: %w", context.DeadlineExceeded), "The server did not respond in time."},
		{"cancelled", context.Canceled, "The request was cancelled."},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.List(context.Background(), ListParams{Page: 1, Limit: 10})
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	if got := ErrorMessage(err); !strings.Contains(got, "reach the server") {
		t.Errorf("ErrorMessage: got %q", got)
	}
}
