// Package listing holds the page/filter conventions shared by the paginated
// list endpoints: ?page=&limit= plus one filter_<column> ILIKE per column.
package listing

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
	FilterPrefix = "filter_"
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePage reads page and limit from query values. Missing or invalid values
// fall back to page 1 and DefaultLimit; limit is capped at MaxLimit.
func ParsePage(query map[string]string) Page {
	p := Page{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(query["page"]); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(query["limit"]); err == nil && n > 0 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// Column maps a filterable query name to the SQL expression it filters.
type Column struct {
	Name string
	Expr string
}

// Columns builds Column entries whose expression is qualifier.name.
func Columns(qualifier string, names ...string) []Column {
	out := make([]Column, 0, len(names))
	for _, n := range names {
		expr := `"` + n + `"`
		if qualifier != "" {
			expr = qualifier + "." + expr
		}
		out = append(out, Column{Name: n, Expr: expr})
	}
	return out
}

type Filter struct {
	Expr    string
	Pattern string
}

// Filters extracts the non-empty filter_<name> values for the allowed columns,
// in column order. Unknown filter keys are ignored.
func Filters(query map[string]string, allowed []Column) []Filter {
	var out []Filter
	for _, col := range allowed {
		v := strings.TrimSpace(query[FilterPrefix+col.Name])
		if v == "" {
			continue
		}
		out = append(out, Filter{Expr: col.Expr, Pattern: "%" + escapeLike(v) + "%"})
	}
	return out
}

// Apply adds one case-insensitive substring condition per filter.
func Apply(dbq *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		dbq = dbq.Where(f.Expr+"::text ILIKE ?", f.Pattern)
	}
	return dbq
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
