package filters

import (
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

// Parse error kinds.  All of them are deterministic rejections of malformed
// filter text, a given text always produces the same kind.
const (
	// ErrFilterEmpty is returned for empty filter text.
	ErrFilterEmpty errors.Error = "filter_empty"

	// ErrInvalidFilter is returned for filters that are recognized but
	// cannot be constructed, e.g. unrestricted generic snippets.
	ErrInvalidFilter errors.Error = "filter_invalid"

	// ErrInvalidCSP is returned for $csp filters with a missing value or a
	// denylisted directive.
	ErrInvalidCSP errors.Error = "filter_invalid_csp"

	// ErrInvalidHeader is returned for blocking $header filters without a
	// value.
	ErrInvalidHeader errors.Error = "filter_invalid_header"

	// ErrUnknownOption is returned for known options lacking their required
	// value.
	ErrUnknownOption errors.Error = "filter_unknown_option"

	// ErrInvalidRewrite is returned for $rewrite filters with a wrong value
	// or a pattern shape that could cover unrelated origins.
	ErrInvalidRewrite errors.Error = "filter_invalid_rewrite"

	// ErrNotSpecificEnough is returned for domain-and-sitekey restricted
	// filters whose pattern is too short.
	ErrNotSpecificEnough errors.Error = "filter_url_not_specific_enough"

	// ErrInvalidDomain is returned for malformed domain restriction lists.
	ErrInvalidDomain errors.Error = "filter_invalid_domain"
)

// Filter is the base interface of all parsed filter descriptors.
// Descriptors are immutable once created: parsing the same text always
// yields an identical descriptor or an identical error.
type Filter interface {
	// Text returns the original filter text.
	Text() string
}

// Comment is a filter line that has no effect and is kept only for list
// round-tripping.
type Comment struct {
	// FilterText is the original comment text, including the "!".
	FilterText string
}

// Text returns the original comment text.
func (f *Comment) Text() string {
	return f.FilterText
}

// contentFilterRegexp splits a content filter into the domain list, the
// separator tag and the body.  The domain list must not contain the
// characters that start URL patterns or comments.
var contentFilterRegexp = regexp.MustCompile(`^([^/|@"!]*)#([@?$])?#(.+)$`)

// ParseFilter parses a single line of filter text into a descriptor.  The
// first validation failure aborts parsing, no partial descriptor is ever
// produced.  Callers ingesting whole lists usually skip erroneous lines and
// continue.
func ParseFilter(text string) (f Filter, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrFilterEmpty
	}

	if text[0] == '!' {
		return &Comment{FilterText: text}, nil
	}

	if strings.Contains(text, "#") {
		if m := contentFilterRegexp.FindStringSubmatch(text); m != nil {
			return parseContentFilter(text, m[1], m[2], m[3])
		}
	}

	return parseURLFilter(text)
}
