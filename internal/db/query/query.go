// Package query turns raw query-string parameters into pagination, sort
// order and search predicates shared by all resource controllers.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// MaxLimit is the hard cap on page size.
	MaxLimit = 100

	// OrderAsc and OrderDesc are the two accepted sort directions.
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Defaults carries per-resource listing defaults.
type Defaults struct {
	Limit int
	Sort  string
	Order string
}

// Resource listing defaults. Most resources list newest first; settings
// list by key and images by their sort column, both ascending.
var (
	ResourceDefaults = Defaults{Limit: 10, Sort: "createdAt", Order: OrderDesc}
	SettingDefaults  = Defaults{Limit: 10, Sort: "key", Order: OrderAsc}
	ImageDefaults    = Defaults{Limit: 24, Sort: "sort", Order: OrderAsc}
)

// Params is the parsed pagination and ordering state of a list request.
type Params struct {
	Page  int
	Limit int
	Skip  int
	Sort  string
	Order string
}

// Parse reads page/limit/sort/order from get, clamping page to >= 1 and
// limit to [1, MaxLimit]. Unparsable values fall back to the defaults.
func Parse(get func(key string) string, d Defaults) Params {
	page, err := strconv.Atoi(get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(get("limit"))
	if err != nil {
		limit = d.Limit
	}

	if limit < 1 {
		limit = 1
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	sort := get("sort")
	if sort == "" {
		sort = d.Sort
	}

	order := strings.ToLower(get("order"))
	if order != OrderAsc && order != OrderDesc {
		order = d.Order
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
		Sort:  sort,
		Order: order,
	}
}

// OrderClause builds an ORDER BY clause from the params. columns maps
// exposed field names to database column names; unknown sort fields fall
// back to the resource default instead of being interpolated into SQL.
func (p Params) OrderClause(columns map[string]string, d Defaults) string {
	col, ok := columns[p.Sort]
	if !ok {
		col = columns[d.Sort]
	}

	return col + " " + p.Order
}

// Scope applies offset, limit and order to a gorm query.
func (p Params) Scope(columns map[string]string, d Defaults) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(p.OrderClause(columns, d)).Offset(p.Skip).Limit(p.Limit)
	}
}

// Search builds a case-insensitive substring predicate OR'd across the
// given columns. Returns an empty clause when q is empty.
func Search(q string, columns ...string) (string, []any) {
	if q == "" || len(columns) == 0 {
		return "", nil
	}

	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	needle := "%" + strings.ToLower(q) + "%"

	for i, col := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
		args[i] = needle
	}

	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Pagination is the listing envelope metadata returned with every list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Paginate computes the pagination envelope for a total row count.
// Pages is at least 1 even for an empty result.
func (p Params) Paginate(total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if pages < 1 {
		pages = 1
	}

	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
