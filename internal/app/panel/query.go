package panel

import (
	"fmt"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/domain/models"
)

// StatusFilter narrows the list by user status.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = StatusFilter(models.StatusActive)
	FilterInactive StatusFilter = StatusFilter(models.StatusInactive)
)

// ParseStatusFilter accepts all, active or inactive.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case FilterAll, FilterActive, FilterInactive:
		return f, nil
	}
	return "", fmt.Errorf("status filter must be all, active or inactive, got %q", s)
}

// SortDirection orders the sort field.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultPageSize is the page size of a fresh QueryState.
const DefaultPageSize = paging.DefaultLimit

// QueryState is everything that determines the next list request.
// Page is 0-based; an empty SortField means no sort.
type QueryState struct {
	SearchText    string
	StatusFilter  StatusFilter
	Page          int
	PageSize      int
	SortField     string
	SortDirection SortDirection
}

// DefaultQueryState is the state of a freshly opened panel.
func DefaultQueryState() QueryState {
	return QueryState{
		StatusFilter: FilterAll,
		PageSize:     DefaultPageSize,
	}
}

// Sorted reports whether a sort is active.
func (q QueryState) Sorted() bool { return q.SortField != "" }

// Params builds the list request for q. The page becomes 1-based, sort
// parameters appear only while a sort is active, and the "all" filter is
// left out so the server applies no status filter.
func (q QueryState) Params() userapi.ListParams {
	p := userapi.ListParams{
		Page:   paging.RequestPage(q.Page),
		Limit:  q.PageSize,
		Search: q.SearchText,
	}
	if q.Sorted() {
		p.OrderBy = q.SortField
		p.OrderDir = string(q.SortDirection)
		if p.OrderDir == "" {
			p.OrderDir = string(SortAsc)
		}
	}
	if q.StatusFilter != FilterAll && q.StatusFilter != "" {
		p.Status = string(q.StatusFilter)
	}
	return p
}
