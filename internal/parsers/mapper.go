package parsers

import "strings"

// Canonical field names resolved by the column mapper
const (
	FieldDate     = "date"
	FieldTitle    = "title"
	FieldAmount   = "amount"
	FieldKind     = "kind"
	FieldNotes    = "notes"
	FieldAccount  = "account"
	FieldCategory = "category"
)

// synonyms maps accepted header spellings to canonical field names.
// Matching is done on lowercased, trimmed header text.
var synonyms = map[string]string{
	"date":             FieldDate,
	"transaction date": FieldDate,
	"title":            FieldTitle,
	"description":      FieldTitle,
	"transaction":      FieldTitle,
	"name":             FieldTitle,
	"amount":           FieldAmount,
	"value":            FieldAmount,
	"type":             FieldKind,
	"transaction type": FieldKind,
	"notes":            FieldNotes,
	"memo":             FieldNotes,
	"comments":         FieldNotes,
	"account":          FieldAccount,
	"account name":     FieldAccount,
	"category":         FieldCategory,
	"category name":    FieldCategory,
}

// ColumnMapping associates each canonical field with its zero-based column
// index in the source file. A nil index means the field is not present;
// downstream coercion treats missing optional fields as absent and missing
// required fields (date, amount) as a hard per-row failure.
type ColumnMapping struct {
	Date     *int
	Title    *int
	Amount   *int
	Kind     *int
	Notes    *int
	Account  *int
	Category *int
}

// MapColumns matches a header row against the synonym table. Unmatched
// header cells are ignored. When two header cells match the same canonical
// field, the later column index wins; each such field name is reported in
// the duplicates list so callers can surface a warning.
func MapColumns(headerFields []string) (ColumnMapping, []string) {
	var mapping ColumnMapping
	var duplicates []string

	for i, field := range headerFields {
		canonical, ok := synonyms[strings.ToLower(strings.TrimSpace(field))]
		if !ok {
			continue
		}

		index := i
		slot := mapping.slot(canonical)
		if *slot != nil {
			duplicates = append(duplicates, canonical)
		}
		*slot = &index
	}

	return mapping, duplicates
}

// DefaultColumnMapping returns the mapping assumed for headerless files:
// columns in the order date, title, amount.
func DefaultColumnMapping() ColumnMapping {
	date, title, amount := 0, 1, 2
	return ColumnMapping{
		Date:   &date,
		Title:  &title,
		Amount: &amount,
	}
}

func (m *ColumnMapping) slot(canonical string) **int {
	switch canonical {
	case FieldDate:
		return &m.Date
	case FieldTitle:
		return &m.Title
	case FieldAmount:
		return &m.Amount
	case FieldKind:
		return &m.Kind
	case FieldNotes:
		return &m.Notes
	case FieldAccount:
		return &m.Account
	case FieldCategory:
		return &m.Category
	default:
		panic("unknown canonical field: " + canonical)
	}
}

// MissingRequired returns the canonical names of required fields (date,
// amount) that have no column index in this mapping.
func (m ColumnMapping) MissingRequired() []string {
	var missing []string
	if m.Date == nil {
		missing = append(missing, FieldDate)
	}
	if m.Amount == nil {
		missing = append(missing, FieldAmount)
	}
	return missing
}

// MinimumFields returns the minimum number of fields a data row needs for
// the required column indices (date, amount) to be addressable. Optional
// columns past the end of a short row resolve to absent instead of failing
// the row. For the default mapping this is 3.
func (m ColumnMapping) MinimumFields() int {
	min := 0
	for _, idx := range []*int{m.Date, m.Amount} {
		if idx != nil && *idx+1 > min {
			min = *idx + 1
		}
	}
	return min
}

// Field extracts the value at the given mapped index from a tokenized row.
// It returns false when the field is unmapped or the row is too short.
func Field(fields []string, index *int) (string, bool) {
	if index == nil || *index >= len(fields) {
		return "", false
	}
	return fields[*index], true
}

// LooksLikeHeader reports whether a line is treated as a header row by the
// auto-detection heuristic: its lowercased text contains the token "date".
// The heuristic can misclassify a data row whose title mentions a date;
// callers that know better should assert header presence explicitly.
func LooksLikeHeader(line string) bool {
	return strings.Contains(strings.ToLower(line), "date")
}
