package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/usersadmin/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "alice", "alice"},
		{"ampersand kept", "tom&jerry", "tom&jerry"},
		{"bold removed", "<b>bob</b>", "bob"},
		{"script removed", "carol<script>alert('x')</script>", "carol"},
		{"attribute removed", `<a href="javascript:alert(1)">dave</a>`, "dave"},
		{"trimmed", "  <i>eve</i>  ", "eve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
