package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Normalize clamps paging values into their allowed range
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// DateRange is an optional inclusive time window
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Validate rejects an inverted range
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return NewValidationError("INVALID_DATE_RANGE", "to", "End date must not be before start date")
	}
	return nil
}

// EndExclusive returns the exclusive upper bound of the range. A To value at
// midnight is read as a whole calendar day.
func (r DateRange) EndExclusive() *time.Time {
	if r.To == nil {
		return nil
	}
	t := *r.To
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		t = t.AddDate(0, 0, 1)
	} else {
		t = t.Add(time.Nanosecond)
	}
	return &t
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// CodeSpec describes a human-readable code series such as PAY0001.
type CodeSpec struct {
	Prefix string
	Width  int
}

// Format renders the n-th code of the series. Numbers wider than Width are not truncated.
func (s CodeSpec) Format(n int64) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Width, n)
}

// CodeSequenceRepository issues per-tenant sequence numbers.
// Next must be atomic with respect to concurrent callers and must join the
// caller's transaction so a rolled-back write also rolls back the counter.
type CodeSequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error)
}

// NextCode draws the next code of the series for the tenant
func NextCode(ctx context.Context, seq CodeSequenceRepository, tenantID uuid.UUID, spec CodeSpec) (string, error) {
	n, err := seq.Next(ctx, tenantID, spec.Prefix)
	if err != nil {
		return "", err
	}
	return spec.Format(n), nil
}
