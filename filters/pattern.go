package filters

import (
	"regexp"
	"strings"
)

// Regular expression fragments used by the pattern compiler.
const (
	// regexSeparator matches one separator byte or the end of the string.
	// Separators are all ASCII bytes except letters, digits and "_-.%".
	regexSeparator = `(?:[\x00-\x24\x26-\x2C\x2F\x3A-\x40\x5B-\x5E\x60\x7B-\x7F]|$)`

	// regexExtendedAnchor matches the scheme with an optional subdomain part,
	// i.e. the position where a "||" pattern may start matching.
	regexExtendedAnchor = `^[a-zA-Z0-9_\-]+:/+(?:[^/]+\.)?`
)

var reRepeatedWildcard = regexp.MustCompile(`\*+`)

// Pattern is the URL-matching part of a filter: either a literal test over
// the pattern text or a compiled regular expression.
type Pattern struct {
	// Text is the original pattern text.
	Text string

	// MatchCase is true when the pattern must match case-sensitively.
	MatchCase bool

	// lower is the case-folded pattern used by the literal matcher.  Equal to
	// Text for case-sensitive patterns.
	lower string

	// regex is non-nil only when the pattern requires a regular expression
	// and the expression compiled successfully.
	regex *regexp.Regexp
}

// NewPattern compiles the pattern text, already stripped of the "@@" prefix
// and the options clause.  A pattern that fails to compile falls back to
// literal matching on the original text, this is never an error.
func NewPattern(text string, matchCase bool) (p *Pattern) {
	p = &Pattern{
		Text:      text,
		MatchCase: matchCase,
		lower:     text,
	}

	if !isLiteralPattern(text) {
		p.regex, _ = compilePattern(text, matchCase)
	}

	if p.regex == nil && !matchCase {
		p.lower = strings.ToLower(text)
	}

	return p
}

// IsLiteral reports whether the pattern is matched literally, either because
// it contains no unescaped metacharacters beyond the allowed anchors or
// because regular expression compilation failed.
func (p *Pattern) IsLiteral() bool {
	return p.regex == nil
}

// isLiteralPattern reports whether the pattern text needs no regular
// expression: a leading "|" or "||" anchor and a single trailing "|" or "^"
// are allowed, anything else among "*^|" forces the regex path.
func isLiteralPattern(text string) bool {
	s := text
	if strings.HasPrefix(s, "||") {
		s = s[2:]
	} else if strings.HasPrefix(s, "|") {
		s = s[1:]
	}

	if n := len(s); n > 0 && (s[n-1] == '|' || s[n-1] == '^') {
		s = s[:n-1]
	}

	return !strings.ContainsAny(s, "*^|")
}

// compilePattern translates the pattern text into a regular expression.  ok
// is false when compilation failed and the caller must fall back to literal
// matching.
func compilePattern(text string, matchCase bool) (re *regexp.Regexp, ok bool) {
	expr := patternToRegexp(text)
	if !matchCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}

	return re, true
}

// patternToRegexp translates the pattern metacharacters: "*" becomes "any
// sequence", "^" one separator byte or end of string, "||" the extended
// scheme-and-subdomain anchor, and edge "|" the string boundaries.
// Everything else is matched verbatim.
func patternToRegexp(text string) (expr string) {
	// Collapse wildcard runs and drop the edge wildcards, they do not change
	// what the expression matches.
	text = reRepeatedWildcard.ReplaceAllString(text, "*")
	text = strings.TrimPrefix(text, "*")
	text = strings.TrimSuffix(text, "*")

	// An end anchor right after a separator placeholder is redundant.
	if strings.HasSuffix(text, "^|") {
		text = text[:len(text)-1]
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '*':
			sb.WriteString(".*")
		case c == '^':
			sb.WriteString(regexSeparator)
		case c == '|' && i == 0:
			if strings.HasPrefix(text, "||") {
				sb.WriteString(regexExtendedAnchor)
				i++
			} else {
				sb.WriteString("^")
			}
		case c == '|' && i == len(text)-1:
			sb.WriteString("$")
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-':
			sb.WriteByte(c)
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	return sb.String()
}

// MatchesLocation reports whether the pattern matches the request location.
func (p *Pattern) MatchesLocation(r *Request) bool {
	if p.regex != nil {
		// URLs contain no newlines, so ^ and $ match the string boundaries
		// only.
		return p.regex.MatchString(r.URL)
	}

	location := r.URL
	if !p.MatchCase {
		location = r.URLLowerCase
	}

	return matchLiteral(p.lower, location)
}

// matchLiteral matches a literal pattern against the location by its anchor
// shape.  Both strings are already case-folded if needed.
func matchLiteral(pattern, location string) bool {
	if pattern == "" {
		return true
	}

	doubleAnchor := strings.HasPrefix(pattern, "||")
	startAnchor := !doubleAnchor && strings.HasPrefix(pattern, "|")

	body := pattern
	if doubleAnchor {
		body = body[2:]
	} else if startAnchor {
		body = body[1:]
	}

	endAnchor := false
	endSeparator := false
	if n := len(body); n > 0 {
		switch body[n-1] {
		case '|':
			endAnchor = true
			body = body[:n-1]
		case '^':
			endSeparator = true
			body = body[:n-1]
		}
	}

	var index int
	switch {
	case doubleAnchor:
		// A bare "||" matches everything, same as its regex translation.
		if body == "" {
			return true
		}

		// The body must occur at a domain boundary: right after "scheme://"
		// or after a ".".  The leftmost occurrence decides.
		index = strings.Index(location, body)
		if index < 1 {
			return false
		}

		atBoundary := location[index-1] == '.' ||
			(index >= 3 && location[index-3:index] == "://")
		if !atBoundary {
			return false
		}
	case startAnchor:
		if !strings.HasPrefix(location, body) {
			return false
		}

		index = 0
	case endAnchor:
		return strings.HasSuffix(location, body)
	case endSeparator:
		index = strings.Index(location, body)
		if index == -1 {
			return false
		}
	default:
		return strings.Contains(location, body)
	}

	end := index + len(body)
	if endAnchor {
		return end == len(location)
	}

	if endSeparator {
		return end == len(location) || isSeparator(location[end])
	}

	return true
}

// isSeparator reports whether c is one of the fixed separator bytes matched
// by the "^" placeholder.
func isSeparator(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z',
		c >= 'A' && c <= 'Z',
		c >= '0' && c <= '9',
		c == '_', c == '-', c == '.', c == '%':
		return false
	}

	return c < 0x80
}

// isKeywordChar reports whether c may be part of an index keyword.
func isKeywordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '%'
}

// Keywords returns the candidate index keywords of the pattern: runs of two
// or more lowercase alphanumeric or "%" bytes with a non-keyword, non-"*"
// byte on both sides.  Every location the pattern can match contains each
// returned keyword, which makes them safe for index pruning.
func (p *Pattern) Keywords() (keywords []string) {
	text := strings.ToLower(p.Text)

	i := 0
	for i < len(text) {
		if !isKeywordChar(text[i]) {
			i++

			continue
		}

		start := i
		for i < len(text) && isKeywordChar(text[i]) {
			i++
		}

		switch {
		case i-start < 2,
			start == 0,
			text[start-1] == '*',
			i == len(text),
			text[i] == '*':
			// Not a keyword: too short, or the run touches a wildcard or a
			// string boundary where the pattern may continue with anything.
		default:
			keywords = append(keywords, text[start:i])
		}
	}

	return keywords
}
