// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when a request does not ask for one.
const DefaultLimit = 10

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// MaxPage caps the page number a client may request. Pages past the end
// of the data are empty, so clamping changes no result.
const MaxPage = 1_000_000

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid, and at most MaxPage.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
			return MaxPage
		}
		return 1
	}
	if n < 1 {
		return 1
	}
	return min(n, MaxPage)
}

// ParseLimit extracts the "limit" query parameter, falling back to def
// when absent or invalid and clamping to max.
func ParseLimit(r *http.Request, def, max int) int {
	if def < 1 {
		def = DefaultLimit
	}
	if max < 1 {
		max = MaxLimit
	}
	n := def
	if s := query.Get(r, "limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
		}
	}
	if n > max {
		n = max
	}
	return n
}

// Skip returns the number of rows to skip for a 1-based page. The result
// saturates at math.MaxInt64 instead of overflowing.
func Skip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}

// RequestPage converts a 0-based page index (as held by list state) to the
// 1-based page number sent on the wire.
func RequestPage(index int) int {
	if index < 0 {
		return 1
	}
	return index + 1
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start   int // 1-based start index (0 if no results)
	End     int // 1-based end index (0 if no results)
	Pages   int // total number of pages (at least 1)
	HasPrev bool
	HasNext bool
}

// ComputeRange calculates display range values for a 0-based page index,
// page size, number of rows shown and the total row count.
func ComputeRange(index, limit, shown int, total int64) Range {
	if limit < 1 {
		limit = DefaultLimit
	}
	if index < 0 {
		index = 0
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	rg := Range{
		Pages:   pages,
		HasPrev: index > 0,
		HasNext: index+1 < pages,
	}
	if shown == 0 {
		return rg
	}
	rg.Start = index*limit + 1
	rg.End = rg.Start + shown - 1
	return rg
}
