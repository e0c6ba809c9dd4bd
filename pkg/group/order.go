package group

import (
	"strings"

	"github.com/matzehuels/facetkit/pkg/record"
)

const (
	tierNumeric = iota
	tierString
	tierNone
	tierComposite
)

type sortKey struct {
	tier int
	s    string
}

func keyOf(v any) sortKey {
	switch {
	case record.IsComposite(v):
		return sortKey{tierComposite, record.String(v)}
	case v == nil:
		return sortKey{tierNone, record.NoneString}
	}
	s := record.String(v)
	if isDigits(s) {
		return sortKey{tierNumeric, strings.TrimLeft(s, "0")}
	}
	return sortKey{tierString, s}
}

func less(a, b any) bool {
	ka, kb := keyOf(a), keyOf(b)
	if ka.tier != kb.tier {
		return ka.tier < kb.tier
	}
	if ka.tier == tierNumeric {
		return numericLess(ka.s, kb.s)
	}
	return ka.s < kb.s
}

// numericLess compares digit strings without leading zeros as integers of
// arbitrary size.
func numericLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
