package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func getter(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		d      Defaults
		want   Params
	}{
		{
			name:   "empty request uses defaults",
			values: map[string]string{},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "page and limit applied",
			values: map[string]string{"page": "3", "limit": "20"},
			d:      ResourceDefaults,
			want:   Params{Page: 3, Limit: 20, Skip: 40, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "page below one clamps to one",
			values: map[string]string{"page": "0"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "negative page clamps to one",
			values: map[string]string{"page": "-5"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "limit above cap clamps to cap",
			values: map[string]string{"limit": "500"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: MaxLimit, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "limit below one clamps to one",
			values: map[string]string{"limit": "0"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 1, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "unparsable numbers fall back",
			values: map[string]string{"page": "abc", "limit": "xyz"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "sort and order applied",
			values: map[string]string{"sort": "title", "order": "asc"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "title", Order: "asc"},
		},
		{
			name:   "order is case insensitive",
			values: map[string]string{"order": "DESC"},
			d:      SettingDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "key", Order: "desc"},
		},
		{
			name:   "unknown order falls back to default",
			values: map[string]string{"order": "sideways"},
			d:      ResourceDefaults,
			want:   Params{Page: 1, Limit: 10, Skip: 0, Sort: "createdAt", Order: "desc"},
		},
		{
			name:   "image defaults",
			values: map[string]string{},
			d:      ImageDefaults,
			want:   Params{Page: 1, Limit: 24, Skip: 0, Sort: "sort", Order: "asc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(getter(tt.values), tt.d))
		})
	}
}

func TestOrderClause(t *testing.T) {
	columns := map[string]string{
		"title":     "title",
		"createdAt": "created_at",
	}

	p := Parse(getter(map[string]string{"sort": "title", "order": "asc"}), ResourceDefaults)
	assert.Equal(t, "title asc", p.OrderClause(columns, ResourceDefaults))

	// unknown sort field must not reach the SQL string
	p = Parse(getter(map[string]string{"sort": "title; DROP TABLE posts"}), ResourceDefaults)
	assert.Equal(t, "created_at desc", p.OrderClause(columns, ResourceDefaults))
}

func TestSearch(t *testing.T) {
	clause, args := Search("Solar", "title", "content")
	assert.Equal(t, "(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", clause)
	assert.Equal(t, []any{"%solar%", "%solar%"}, args)

	clause, args = Search("", "title")
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, _ = Search("x")
	assert.Empty(t, clause)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		total     int64
		wantPages int
	}{
		{name: "empty result still has one page", limit: 10, total: 0, wantPages: 1},
		{name: "exact fit", limit: 10, total: 20, wantPages: 2},
		{name: "partial last page", limit: 10, total: 21, wantPages: 3},
		{name: "single row", limit: 10, total: 1, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{Page: 1, Limit: tt.limit}
			got := p.Paginate(tt.total)

			assert.Equal(t, tt.wantPages, got.Pages)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.limit, got.Limit)
		})
	}
}
