package panel

import (
	"testing"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
)

func TestDefaultQueryState(t *testing.T) {
	q := DefaultQueryState()
	if q.Page != 0 || q.PageSize != 10 || q.StatusFilter != FilterAll || q.SearchText != "" || q.Sorted() {
		t.Errorf("unexpected default: %+v", q)
	}
}

func TestQueryState_Params(t *testing.T) {
	tests := []struct {
		name string
		q    QueryState
		want userapi.ListParams
	}{
		{
			name: "defaults",
			q:    DefaultQueryState(),
			want: userapi.ListParams{Page: 1, Limit: 10},
		},
		{
			name: "status active passes verbatim",
			q:    QueryState{StatusFilter: FilterActive, Page: 2, PageSize: 25},
			want: userapi.ListParams{Page: 3, Limit: 25, Status: "active"},
		},
		{
			name: "status inactive passes verbatim",
			q:    QueryState{StatusFilter: FilterInactive, PageSize: 5},
			want: userapi.ListParams{Page: 1, Limit: 5, Status: "inactive"},
		},
		{
			name: "search passed as-is",
			q:    QueryState{StatusFilter: FilterAll, PageSize: 10, SearchText: "  Ann "},
			want: userapi.ListParams{Page: 1, Limit: 10, Search: "  Ann "},
		},
		{
			name: "sort",
			q:    QueryState{StatusFilter: FilterAll, PageSize: 10, SortField: "username", SortDirection: SortDesc},
			want: userapi.ListParams{Page: 1, Limit: 10, OrderBy: "username", OrderDir: "desc"},
		},
		{
			name: "sort without direction defaults to asc",
			q:    QueryState{StatusFilter: FilterAll, PageSize: 10, SortField: "id"},
			want: userapi.ListParams{Page: 1, Limit: 10, OrderBy: "id", OrderDir: "asc"},
		},
		{
			name: "direction without field is ignored",
			q:    QueryState{StatusFilter: FilterAll, PageSize: 10, SortDirection: SortDesc},
			want: userapi.ListParams{Page: 1, Limit: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Params(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQueryState_AllNeverSent(t *testing.T) {
	q := DefaultQueryState()
	v := q.Params().Values()
	if _, ok := v["status"]; ok {
		t.Errorf("status must be omitted for the all filter, got %q", v.Get("status"))
	}
	for key, vals := range v {
		for _, val := range vals {
			if val == "all" {
				t.Errorf("parameter %s carries \"all\"", key)
			}
		}
	}
}

func TestParseStatusFilter(t *testing.T) {
	for _, ok := range []string{"all", "active", "inactive"} {
		if _, err := ParseStatusFilter(ok); err != nil {
			t.Errorf("ParseStatusFilter(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "ALL", "deleted"} {
		if _, err := ParseStatusFilter(bad); err == nil {
			t.Errorf("ParseStatusFilter(%q): expected error", bad)
		}
	}
}
