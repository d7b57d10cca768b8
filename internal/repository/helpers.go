package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for ILIKE.
// Wildcards typed by the user match literally; an empty query matches everything.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
