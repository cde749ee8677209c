// Package reconcile maps free-text employee names from the payment
// sheet to known user identities. The sheet is hand-maintained, so
// spellings drift: accents come and go, casing is inconsistent, and
// some rows carry only a first name. Matching therefore works on a
// normalized form and accepts substring containment in either
// direction.
package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"nomina/internal/core"
)

// foldTransformer decomposes to NFD, drops combining marks, and
// recomposes, turning "José Pérez" into "Jose Perez".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, collapses whitespace runs
// to a single space, and trims. Both sides of every comparison go
// through this pipeline.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// Resolve maps a raw employee-name string to a user. Candidates are
// scanned in source order and the first one whose normalized full name
// is equal to, contains, or is contained in the normalized raw name
// wins. ok is false when nothing matches; that is an unresolved owner,
// not an error.
//
// When several candidates satisfy the predicate the winner depends on
// candidate order. That behavior is kept for compatibility with the
// source data set; Audit reports such cases separately.
func Resolve(rawName string, candidates []core.User) (core.User, bool) {
	needle := Normalize(rawName)
	if needle == "" {
		return core.User{}, false
	}
	for _, u := range candidates {
		if nameMatches(needle, Normalize(u.FullName)) {
			return u, true
		}
	}
	return core.User{}, false
}

func nameMatches(needle, candidate string) bool {
	if candidate == "" {
		return false
	}
	if candidate == needle {
		return true
	}
	return strings.Contains(candidate, needle) || strings.Contains(needle, candidate)
}

// Warning records a raw name that matched more than one candidate.
// Matched is the name that won under source order.
type Warning struct {
	RawName     string   `json:"raw_name"`
	Matched     string   `json:"matched"`
	AlsoMatched []string `json:"also_matched"`
}

// Audit re-runs the match predicate for each raw name against every
// candidate and reports the names whose resolution was ambiguous. It
// runs outside the matching path; Resolve stays order-dependent.
func Audit(rawNames []string, candidates []core.User) []Warning {
	var warnings []Warning
	seen := make(map[string]bool, len(rawNames))
	for _, raw := range rawNames {
		needle := Normalize(raw)
		if needle == "" || seen[needle] {
			continue
		}
		seen[needle] = true

		var matched []string
		for _, u := range candidates {
			if nameMatches(needle, Normalize(u.FullName)) {
				matched = append(matched, u.FullName)
			}
		}
		if len(matched) > 1 {
			warnings = append(warnings, Warning{
				RawName:     raw,
				Matched:     matched[0],
				AlsoMatched: matched[1:],
			})
		}
	}
	return warnings
}
