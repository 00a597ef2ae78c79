package specification

import (
	"regexp"
	"regexp/syntax"

	"gorm.io/gorm"
)

// Postgres rejects repetition bounds above this (RE_DUP_MAX).
const maxRepeat = 255

// NoteSearchQuery matches notes whose title, content or any single tag matches Query
// as a case-insensitive regular expression. A query that is not a valid expression is
// searched as a literal substring. Literal forces that behavior.
type NoteSearchQuery struct {
	Query   string
	Literal bool
}

func (s NoteSearchQuery) Pattern() string {
	if s.Literal || !validPattern(s.Query) {
		return regexp.QuoteMeta(s.Query)
	}
	return s.Query
}

func (s NoteSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := s.Pattern()
	return db.Where(
		"(title ~* ? OR content ~* ? OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE t.tag ~* ?))",
		pattern, pattern, pattern,
	)
}

// validPattern uses Perl syntax, which shares \d, \w and \s with Postgres AREs.
// Postgres is the final judge; see contract.ErrInvalidPattern.
func validPattern(query string) bool {
	re, err := syntax.Parse(query, syntax.Perl)
	if err != nil {
		return false
	}
	return boundsWithinLimit(re)
}

func boundsWithinLimit(re *syntax.Regexp) bool {
	if re.Op == syntax.OpRepeat && (re.Min > maxRepeat || re.Max > maxRepeat) {
		return false
	}
	for _, sub := range re.Sub {
		if !boundsWithinLimit(sub) {
			return false
		}
	}
	return true
}
