package repository

import "strings"

// sortClause resolves a requested sort against an allow-list, falling back to
// the entity default. Sort columns are never taken from user input verbatim.
func sortClause(allowed map[string]string, sortBy, sortOrder, defaultColumn, defaultOrder string) (string, string) {
	column, ok := allowed[sortBy]
	if !ok {
		column = defaultColumn
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = defaultOrder
	}
	return column, order
}

// pageClause normalises pagination inputs into LIMIT/OFFSET values.
func pageClause(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
