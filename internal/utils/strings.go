package utils

import (
	"sort"
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSeatList splits comma/semicolon separated seat strings into cleaned,
// upper-cased codes.
func SplitSeatList(raw string) []string {
	out := []string{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// JoinSeatList renders seat codes the way the booking summary stores them:
// sorted, comma-joined.
func JoinSeatList(seats []string) string {
	cp := make([]string, len(seats))
	copy(cp, seats)
	sort.Strings(cp)
	return strings.Join(cp, ", ")
}

// CleanSeatCodes trims, upper-cases and dedupes seat codes, preserving the
// sorted order used everywhere a seat set is rendered.
func CleanSeatCodes(seats []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
