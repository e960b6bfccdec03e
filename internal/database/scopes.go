package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/project-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// likeEscaper escapes LIKE wildcards with '!'. A backslash escape would need
// different quoting on MySQL than on SQLite and Postgres.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EscapeLike makes every character of term match literally in a LIKE
// pattern using ESCAPE '!'.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Search matches term as a literal substring of any of the given columns.
// The alternatives are grouped so they combine with other conditions by AND.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(columns) == 0 {
			return db
		}
		pattern := "%" + EscapeLike(term) + "%"
		cond := db.Session(&gorm.Session{NewDB: true}).Where(columns[0]+" LIKE ? ESCAPE '!'", pattern)
		for _, column := range columns[1:] {
			cond = cond.Or(column+" LIKE ? ESCAPE '!'", pattern)
		}
		return db.Where(cond)
	}
}
