package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/panel"
	"github.com/dalemusser/usersadmin/internal/domain/models"
)

func TestFooter(t *testing.T) {
	q := panel.DefaultQueryState()

	tests := []struct {
		name string
		snap panel.Snapshot
		want []string
	}{
		{
			name: "empty",
			snap: panel.Snapshot{Query: q},
			want: []string{"No users", "page 1/1", "no filters"},
		},
		{
			name: "middle page",
			snap: func() panel.Snapshot {
				q := q
				q.Page = 1
				q.SearchText = "al"
				q.StatusFilter = panel.FilterActive
				q.SortField = "username"
				q.SortDirection = panel.SortDesc
				return panel.Snapshot{Query: q, Rows: make([]models.User, 10), Total: 2500}
			}(),
			want: []string{"11-20 of 2,500", "page 2/250", `search "al" · active · username desc`, "prev", "next"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := footer(tt.snap)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("footer %q missing %q", got, w)
				}
			}
		})
	}
}

func TestRenderSnapshot_Table(t *testing.T) {
	var buf bytes.Buffer
	RenderSnapshot(&buf, panel.Snapshot{
		Query: panel.DefaultQueryState(),
		Rows: []models.User{
			{ID: 7, Username: "alice", Status: models.StatusActive, CreatedAt: time.Now().Add(-2 * time.Hour)},
			{ID: 12, Username: "bob", Status: models.StatusInactive},
		},
		Total: 2,
	})
	out := buf.String()
	for _, w := range []string{"ID", "Username", "alice", "inactive", "2 hours ago", "1-2 of 2"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestCreatedLabel_Zero(t *testing.T) {
	if got := createdLabel(time.Time{}); got != "-" {
		t.Errorf("createdLabel(zero) = %q, want -", got)
	}
}

func TestRenderNote(t *testing.T) {
	var buf bytes.Buffer
	RenderNote(&buf, panel.MsgCreated, panel.SeveritySuccess)
	if !strings.Contains(buf.String(), "[success] "+panel.MsgCreated) {
		t.Errorf("note = %q", buf.String())
	}
}
