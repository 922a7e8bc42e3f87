// Package parsers provides the CSV row grammar for the transaction
// exchange: quote-aware row tokenization and header-to-field column
// mapping.
//
// The grammar is deliberately more forgiving than encoding/csv: fields are
// trimmed on both sides, unbalanced quotes are consumed best-effort to end
// of line instead of being rejected, and a blank line tokenizes to a single
// empty field so trailing newlines in real-world files never crash an
// import.
package parsers

import "strings"

// TokenizeRow splits one line of CSV text into raw field strings. The comma
// is the delimiter; a double quote toggles quoted-field state, inside which
// commas are literal content. Quote characters themselves are not part of
// the field value. Each field is trimmed of leading and trailing
// whitespace.
//
// An empty line yields a single empty field, never an empty slice.
func TokenizeRow(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}
