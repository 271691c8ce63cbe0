package persistence

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSortColumn = "created_at"

// sortColumns maps the sort keys a list endpoint accepts to table columns.
// Unknown keys fall back to created_at, so raw input never reaches ORDER BY.
type sortColumns map[string]string

var (
	productSort = sortColumns{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"category":   "category",
	}
	orderSort = sortColumns{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"total":      "total",
		"status":     "status",
	}
	productRequestSort = sortColumns{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"status":     "status",
		"quantity":   "quantity",
	}
)

func (s sortColumns) column(key string) string {
	if col, ok := s[strings.TrimSpace(key)]; ok {
		return col
	}
	return defaultSortColumn
}

// sortDescending reports whether dir asks for newest-first; anything but "asc" does
func sortDescending(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// orderBy sorts by the requested column, then by id so pages stay stable
// when timestamps collide.
func (s sortColumns) orderBy(filter shared.Filter) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{
			Column: clause.Column{Table: clause.CurrentTable, Name: s.column(filter.OrderBy)},
			Desc:   sortDescending(filter.OrderDir),
		},
		{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}},
	}}
}

func paginate(query *gorm.DB, filter shared.Filter, sorts sortColumns) *gorm.DB {
	query = query.Clauses(sorts.orderBy(filter))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern that works on PostgreSQL and SQLite
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + strings.ToLower(replacer.Replace(strings.TrimSpace(search))) + "%"
}
