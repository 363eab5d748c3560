// Package pattern matches colon-separated artifact patterns against
// artifact coordinate tokens.
//
// A pattern such as "org.apache.*:commons-*::1.0" is split at ':' into
// segments, and each segment is matched against the token at the same
// position. Segment rules, tried in order:
//
//   - an empty segment or "*" matches any token
//   - "*x*" matches tokens containing x
//   - "*x" matches tokens ending with x
//   - "x*" matches tokens starting with x
//   - a segment with an interior '*' matches when its '*'-separated parts
//     appear in order within the token
//   - a segment starting with '[' or '(' is a version range; the token
//     matches when it is a version inside the range
//   - anything else must equal the token exactly
package pattern

import (
	"strings"

	"github.com/matzehuels/mvntree/pkg/version"
)

// Wildcard matches any token.
const Wildcard = "*"

// Split splits a pattern at ':' and drops trailing empty segments, so
// "g:a::" has the two segments "g" and "a". An empty pattern yields a
// single empty segment.
func Split(p string) []string {
	segs := strings.Split(p, ":")
	for len(segs) > 1 && segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}
	return segs
}

// Match reports whether token satisfies the pattern segment.
func Match(token, segment string) bool {
	if segment == "" || segment == Wildcard {
		return true
	}
	n := len(segment)
	lead := segment[0] == '*'
	trail := segment[n-1] == '*'
	switch {
	case lead && trail && n > 1:
		return strings.Contains(token, segment[1:n-1])
	case lead:
		return strings.HasSuffix(token, segment[1:])
	case trail:
		return strings.HasPrefix(token, segment[:n-1])
	case strings.Contains(segment, Wildcard):
		return matchParts(token, segment)
	case segment[0] == '[' || segment[0] == '(':
		return matchRange(token, segment)
	default:
		return token == segment
	}
}

// matchParts checks that each non-empty '*'-separated part occurs in token,
// searching from where the previous part ended.
func matchParts(token, segment string) bool {
	pos := 0
	for _, part := range strings.Split(segment, Wildcard) {
		if part == "" {
			continue
		}
		i := strings.Index(token[pos:], part)
		if i < 0 {
			return false
		}
		pos += i + len(part)
	}
	return true
}

func matchRange(token, segment string) bool {
	r, err := version.ParseRange(segment)
	if err != nil {
		return false
	}
	return r.ContainsString(token)
}

// MatchTokens matches pattern segments left-aligned against tokens. The
// pattern must not have more segments than there are tokens.
func MatchTokens(tokens, segments []string) bool {
	if len(segments) > len(tokens) {
		return false
	}
	for i, seg := range segments {
		if !Match(tokens[i], seg) {
			return false
		}
	}
	return true
}

// MatchTokensRight matches pattern segments right-aligned against the last
// tokens. It is used for patterns that start with a wildcard and therefore
// leave the leading coordinates unconstrained.
func MatchTokensRight(tokens, segments []string) bool {
	if len(segments) > len(tokens) {
		return false
	}
	return MatchTokens(tokens[len(tokens)-len(segments):], segments)
}
