package query

import (
	"strings"
	"unicode"
)

// ToRemoteField converts an internal snake_case column id to the order service's
// camelCase property name.
func ToRemoteField(field string) string {
	var b strings.Builder
	b.Grow(len(field))
	upper := false
	for _, r := range field {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromRemoteField is the inverse of ToRemoteField.
func FromRemoteField(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
