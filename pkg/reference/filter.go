package reference

import "strings"

// NormalizeTerm trims and lowercases a raw search string.
func NormalizeTerm(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// Matches reports whether r satisfies the search term and category.
// term must already be normalized with NormalizeTerm. An empty category
// places no constraint; otherwise it must equal r.Category exactly.
func Matches(r Record, term, category string) bool {
	if category != "" && r.Category != category {
		return false
	}
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name()), term) ||
		strings.Contains(strings.ToLower(r.Purpose), term) ||
		strings.Contains(strings.ToLower(r.Example), term) ||
		strings.Contains(strings.ToLower(r.Tips), term)
}

// Filter returns the records matching search and category, preserving input
// order. The search term is trimmed and compared case-insensitively against
// the display name, purpose, example and tips.
func Filter(records []Record, search, category string) []Record {
	term := NormalizeTerm(search)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Matches(r, term, category) {
			out = append(out, r)
		}
	}
	return out
}

// Names returns the display names of records in order.
func Names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name()
	}
	return out
}
