package assessment

import (
	"strings"
	"unicode"
)

// minFuzzyLen is the shortest normalized string allowed on either side of a
// substring match. Shorter keys such as "no" or "id" would otherwise match
// half the alias table.
const minFuzzyLen = 3

// Cell is one header/value pair of a spreadsheet row.
type Cell struct {
	Header string
	Value  string
}

// Row keeps cells in column order so substring ties resolve to the leftmost
// column.
type Row []Cell

// Blank reports whether every cell is empty or whitespace.
func (r Row) Blank() bool {
	for _, c := range r {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

// Headers returns the raw header names in column order.
func (r Row) Headers() []string {
	out := make([]string, 0, len(r))
	for _, c := range r {
		out = append(out, c.Header)
	}
	return out
}

// NormalizeKey lowercases s and drops everything that is not a letter or digit.
// "Height (cm)" becomes "heightcm".
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve returns the value of the first column matching one of aliases.
// Aliases are tried in order. For each alias every column is checked for an
// exact normalized match, then for a header containing the alias, then for the
// alias containing the header.
func Resolve(row Row, aliases []string) (string, bool) {
	keys := make([]string, len(row))
	for i, c := range row {
		keys[i] = NormalizeKey(c.Header)
	}

	for _, alias := range aliases {
		want := NormalizeKey(alias)
		if want == "" {
			continue
		}
		for _, match := range []func(key string) bool{
			func(key string) bool { return key == want },
			func(key string) bool { return len(want) >= minFuzzyLen && strings.Contains(key, want) },
			func(key string) bool { return len(key) >= minFuzzyLen && strings.Contains(want, key) },
		} {
			for i, key := range keys {
				if key != "" && match(key) {
					return row[i].Value, true
				}
			}
		}
	}
	return "", false
}
