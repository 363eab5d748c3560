// Package version implements Maven version ordering and version ranges.
//
// Versions are split into items at '.', '-' and at every transition between
// digits and letters. Numeric items compare numerically, qualifier items
// compare by their well-known rank (alpha < beta < milestone < rc <
// snapshot < release < sp) and unknown qualifiers sort after sp in lexical
// order. Missing trailing items compare as 0 or as the release qualifier, so
// "1", "1.0" and "1.0.0" are equal and "1.0-SNAPSHOT" sorts before "1.0".
package version

import (
	"strconv"
	"strings"
)

// Version is a parsed Maven version string. The zero value is the empty version.
type Version struct {
	raw   string
	items []item
}

type item struct {
	numeric bool
	pad     bool
	num     uint64
	qual    string
}

// Parse parses a version string. Parsing never fails: any string has an ordering.
func Parse(s string) Version {
	return Version{raw: s, items: split(strings.ToLower(strings.TrimSpace(s)))}
}

// String returns the version as it was written.
func (v Version) String() string { return v.raw }

// Compare returns -1, 0 or +1 as v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	n := max(len(v.items), len(o.items))
	for i := range n {
		a, b := at(v.items, i), at(o.items, i)
		if c := compareItems(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o are equivalent under Maven ordering.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// Compare parses and compares two version strings.
func Compare(a, b string) int { return Parse(a).Compare(Parse(b)) }

// missing items behave like a zero number or the release qualifier.
var padding = item{numeric: true, pad: true}

func at(items []item, i int) item {
	if i < len(items) {
		return items[i]
	}
	return padding
}

func compareItems(a, b item) int {
	switch {
	case a.numeric && b.numeric:
		return cmpUint(a.num, b.num)
	case a.numeric:
		if a.pad {
			return compareQualifiers("", b.qual)
		}
		return 1
	case b.numeric:
		if b.pad {
			return compareQualifiers(a.qual, "")
		}
		return -1
	default:
		return compareQualifiers(a.qual, b.qual)
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var qualifierRank = map[string]int{
	"alpha":     0,
	"beta":      1,
	"milestone": 2,
	"rc":        3,
	"snapshot":  4,
	"":          5,
	"sp":        6,
}

const unknownRank = 7

func compareQualifiers(a, b string) int {
	ra, oka := qualifierRank[a]
	rb, okb := qualifierRank[b]
	if !oka {
		ra = unknownRank
	}
	if !okb {
		rb = unknownRank
	}
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if !oka && !okb {
		return strings.Compare(a, b)
	}
	return 0
}

var aliases = map[string]string{
	"ga":      "",
	"final":   "",
	"release": "",
	"cr":      "rc",
	"a":       "alpha",
	"b":       "beta",
	"m":       "milestone",
}

func split(s string) []item {
	var items []item
	start := 0
	flush := func(end int, followedByDigit bool) {
		if start >= end {
			return
		}
		tok := s[start:end]
		if isDigits(tok) {
			n, err := strconv.ParseUint(tok, 10, 64)
			if err != nil {
				items = append(items, item{qual: tok})
				return
			}
			items = append(items, item{numeric: true, num: n})
			return
		}
		if alias, ok := aliases[tok]; ok && (len(tok) > 1 || followedByDigit) {
			tok = alias
		}
		// "1.0-alpha" and "1-alpha" are the same version.
		items = trim(items)
		items = append(items, item{qual: tok})
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == '-' || c == '_' {
			flush(i, false)
			start = i + 1
			continue
		}
		if i > start && isDigit(c) != isDigit(s[i-1]) {
			flush(i, isDigit(c))
			start = i
		}
	}
	flush(len(s), false)
	return trim(items)
}

// trim drops trailing zeros and release qualifiers so equivalent spellings
// produce identical item lists.
func trim(items []item) []item {
	for len(items) > 0 {
		last := items[len(items)-1]
		if (last.numeric && last.num == 0) || (!last.numeric && last.qual == "") {
			items = items[:len(items)-1]
			continue
		}
		break
	}
	return items
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
