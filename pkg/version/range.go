package version

import (
	"fmt"
	"strings"
)

// Restriction is one interval of a version range. A nil bound is unbounded.
type Restriction struct {
	Lower          *Version
	LowerInclusive bool
	Upper          *Version
	UpperInclusive bool
}

// Contains reports whether v lies inside the interval.
func (r Restriction) Contains(v Version) bool {
	if r.Lower != nil {
		c := v.Compare(*r.Lower)
		if c < 0 || (c == 0 && !r.LowerInclusive) {
			return false
		}
	}
	if r.Upper != nil {
		c := v.Compare(*r.Upper)
		if c > 0 || (c == 0 && !r.UpperInclusive) {
			return false
		}
	}
	return true
}

func (r Restriction) String() string {
	var b strings.Builder
	if r.LowerInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.Lower != nil && r.Upper != nil && r.LowerInclusive && r.UpperInclusive && r.Lower.Equal(*r.Upper) {
		b.WriteString(r.Lower.String())
		b.WriteByte(']')
		return b.String()
	}
	if r.Lower != nil {
		b.WriteString(r.Lower.String())
	}
	b.WriteByte(',')
	if r.Upper != nil {
		b.WriteString(r.Upper.String())
	}
	if r.UpperInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// Range is a parsed version specification: either a soft recommendation
// ("1.0") or a union of restrictions ("[1.0,2.0),[3.0,)").
type Range struct {
	spec         string
	recommended  *Version
	restrictions []Restriction
}

// IsRange reports whether spec is written in range syntax.
func IsRange(spec string) bool {
	s := strings.TrimSpace(spec)
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(")
}

// ParseRange parses a version specification.
//
// A plain version yields a Range with a recommended version that contains
// every version. Bracketed specs yield one restriction per interval.
// Unbalanced brackets, an exclusive single version such as "(1.0)",
// reversed bounds and overlapping intervals are errors.
func ParseRange(spec string) (*Range, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, fmt.Errorf("empty version specification")
	}
	if !IsRange(s) {
		v := Parse(s)
		return &Range{spec: spec, recommended: &v}, nil
	}

	r := &Range{spec: spec}
	var upperBound *Version
	for IsRange(s) {
		end := strings.IndexAny(s, "])")
		if end < 0 {
			return nil, fmt.Errorf("unbounded range: %s", spec)
		}
		res, err := parseRestriction(s[:end+1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, spec)
		}
		if upperBound != nil && (res.Lower == nil || res.Lower.Compare(*upperBound) < 0) {
			return nil, fmt.Errorf("ranges overlap: %s", spec)
		}
		r.restrictions = append(r.restrictions, res)
		upperBound = res.Upper

		s = strings.TrimSpace(s[end+1:])
		if strings.HasPrefix(s, ",") {
			s = strings.TrimSpace(s[1:])
			if s == "" {
				return nil, fmt.Errorf("trailing separator: %s", spec)
			}
		} else if s != "" {
			return nil, fmt.Errorf("only fully-qualified sets allowed in multiple set scenario: %s", spec)
		}
	}
	if s != "" {
		return nil, fmt.Errorf("only fully-qualified sets allowed in multiple set scenario: %s", spec)
	}
	return r, nil
}

func parseRestriction(spec string) (Restriction, error) {
	lowerIncl := spec[0] == '['
	upperIncl := spec[len(spec)-1] == ']'
	body := strings.TrimSpace(spec[1 : len(spec)-1])

	comma := strings.Index(body, ",")
	if comma < 0 {
		if !lowerIncl || !upperIncl {
			return Restriction{}, fmt.Errorf("single version must be surrounded by []")
		}
		if body == "" {
			return Restriction{}, fmt.Errorf("empty range")
		}
		v := Parse(body)
		return Restriction{Lower: &v, LowerInclusive: true, Upper: &v, UpperInclusive: true}, nil
	}

	lower := strings.TrimSpace(body[:comma])
	upper := strings.TrimSpace(body[comma+1:])
	if strings.Contains(upper, ",") {
		return Restriction{}, fmt.Errorf("invalid range")
	}
	res := Restriction{LowerInclusive: lowerIncl, UpperInclusive: upperIncl}
	if lower != "" {
		v := Parse(lower)
		res.Lower = &v
	}
	if upper != "" {
		v := Parse(upper)
		res.Upper = &v
	}
	if res.Lower != nil && res.Upper != nil {
		c := res.Upper.Compare(*res.Lower)
		if c < 0 {
			return Restriction{}, fmt.Errorf("range defies version ordering")
		}
		if c == 0 && (!lowerIncl || !upperIncl) {
			return Restriction{}, fmt.Errorf("range defies version ordering")
		}
	}
	return res, nil
}

// String returns the specification the range was parsed from.
func (r *Range) String() string { return r.spec }

// Recommended returns the soft version of a plain specification.
func (r *Range) Recommended() (Version, bool) {
	if r.recommended == nil {
		return Version{}, false
	}
	return *r.recommended, true
}

// Restrictions returns the intervals of a bracketed specification.
func (r *Range) Restrictions() []Restriction { return r.restrictions }

// Contains reports whether v satisfies the range. A plain specification
// contains every version.
func (r *Range) Contains(v Version) bool {
	if len(r.restrictions) == 0 {
		return true
	}
	for _, res := range r.restrictions {
		if res.Contains(v) {
			return true
		}
	}
	return false
}

// ContainsString parses v and reports whether it satisfies the range.
func (r *Range) ContainsString(v string) bool { return r.Contains(Parse(v)) }

// Select picks the highest of the available versions inside the range.
// A plain specification selects its recommended version without consulting
// available. When available is empty it falls back to the lowest inclusive
// bound.
func (r *Range) Select(available []string) (string, bool) {
	if r.recommended != nil {
		return r.recommended.String(), true
	}
	var best *Version
	for _, s := range available {
		v := Parse(s)
		if !r.Contains(v) {
			continue
		}
		if best == nil || best.Less(v) {
			best = &v
		}
	}
	if best != nil {
		return best.String(), true
	}
	if len(available) > 0 {
		return "", false
	}
	for _, res := range r.restrictions {
		if res.Lower != nil && res.LowerInclusive {
			return res.Lower.String(), true
		}
	}
	return "", false
}
