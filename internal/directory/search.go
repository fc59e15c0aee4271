package directory

import "strings"

// Filter narrows a record set to those matching a free-text query and a
// selected category. The text predicate is an OR across name and skills with
// case-insensitive substring matching, vacuously true for an empty query.
// The category predicate is an exact, case-sensitive match, vacuously true
// when no category is selected. A record is included iff both hold.
//
// Filtering preserves store order; distance-based reordering is a separate,
// later pass.
type Filter struct {
	Query    string
	Category string
}

// Apply returns the records matching the filter, in input order.
func (f Filter) Apply(records []Record) []Record {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	matched := make([]Record, 0, len(records))
	for _, record := range records {
		if f.matchesQuery(record, query) && f.matchesCategory(record) {
			matched = append(matched, record)
		}
	}
	return matched
}

func (f Filter) matchesQuery(record Record, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(record.Name), query) {
		return true
	}
	for _, skill := range record.Skills {
		if strings.Contains(strings.ToLower(skill), query) {
			return true
		}
	}
	return false
}

func (f Filter) matchesCategory(record Record) bool {
	return f.Category == "" || record.Category == f.Category
}
