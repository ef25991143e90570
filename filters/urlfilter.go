package filters

import (
	"regexp"
	"strings"
)

const (
	// maskAllowing is the prefix of the filters that unblock requests.
	maskAllowing = "@@"

	// rewriteResourcePrefix is the required prefix of a $rewrite value.
	rewriteResourcePrefix = "abp-resource:"

	// minSpecificPatternLength is the minimum anchor-adjusted pattern length
	// of a filter restricted by both domains and sitekeys.
	minSpecificPatternLength = 4
)

// optionsClauseRegexp finds the right-anchored "$opt1,opt2=v,..." clause of a
// URL filter.
var optionsClauseRegexp = regexp.MustCompile(
	`\$(~?[\w-]+(?:=[^,]*)?(?:,~?[\w-]+(?:=[^,]*)?)*)$`,
)

// invalidCSPRegexp matches the CSP directives that filters must not inject:
// allowing them would let a filter list break page security reporting or
// navigation.
var invalidCSPRegexp = regexp.MustCompile(
	`(?i)(;|^)\s*(base-uri|referrer|report-to|report-uri|upgrade-insecure-requests)\b`,
)

// URLFilter is the common implementation of blocking and allowing filters:
// a compiled URL pattern plus the option state that gates its application.
type URLFilter struct {
	ActiveFilter

	// Pattern is the compiled URL pattern.
	Pattern *Pattern

	// ContentTypes is the content type mask of the filter.  A filter with no
	// type options gets all resource types.
	ContentTypes ContentType

	// CSP is the value of the $csp option, empty when unset.
	CSP string

	// Header is the value of the $header option, empty when unset.
	Header string

	// Rewrite is the internal resource name of the $rewrite option, without
	// the "abp-resource:" prefix.
	Rewrite string

	// thirdParty is the tri-state $third-party restriction: nil means
	// unrestricted.
	thirdParty *bool
}

// BlockingFilter is a URL filter that blocks matching requests.
type BlockingFilter struct {
	URLFilter
}

// AllowingFilter is a URL filter that overrides blocking filters for
// matching requests.
type AllowingFilter struct {
	URLFilter
}

// ThirdPartyRequired returns the $third-party restriction of the filter.
// required is false when the filter applies to both first- and third-party
// requests.
func (f *URLFilter) ThirdPartyRequired() (required, thirdParty bool) {
	if f.thirdParty == nil {
		return false, false
	}

	return true, *f.thirdParty
}

// Matches reports whether the filter matches the request with the given
// content type mask and document sitekey.  It is pure: hit bookkeeping is
// the caller's responsibility.
func (f *URLFilter) Matches(r *Request, typeMask ContentType, sitekey string) bool {
	switch {
	case
		f.ContentTypes&typeMask == 0,
		!f.IsActiveOnDomain(r.DocumentDomain, sitekey),
		f.thirdParty != nil && *f.thirdParty != r.ThirdParty:
		return false
	}

	return f.Pattern.MatchesLocation(r)
}

// urlFilterOptions accumulates the option state while parsing the "$" clause.
type urlFilterOptions struct {
	types        ContentType
	hasTypes     bool
	matchCase    bool
	thirdParty   *bool
	domainsValue string
	sitekeys     string
	csp          string
	header       string
	rewrite      string
	hasRewrite   bool
}

// parseURLFilter parses the text of a blocking or allowing filter.
func parseURLFilter(text string) (f Filter, err error) {
	pattern := text
	allowing := strings.HasPrefix(pattern, maskAllowing)
	if allowing {
		pattern = pattern[len(maskAllowing):]
	}

	var opts urlFilterOptions
	if strings.Contains(pattern, "$") {
		if m := optionsClauseRegexp.FindStringSubmatchIndex(pattern); m != nil {
			clause := pattern[m[2]:m[3]]
			pattern = pattern[:m[0]]

			err = opts.load(clause, !allowing)
			if err != nil {
				return nil, err
			}
		}
	}

	if !opts.hasTypes {
		opts.types = TypeResource
	}

	// A filter that still looks like a content filter was most likely meant
	// to be one and is mistyped beyond repair.
	if contentFilterRegexp.MatchString(pattern) {
		return nil, ErrInvalidFilter
	}

	err = opts.validate(pattern, !allowing)
	if err != nil {
		return nil, err
	}

	u := URLFilter{
		ActiveFilter: ActiveFilter{FilterText: text},
		Pattern:      NewPattern(pattern, opts.matchCase),
		ContentTypes: opts.types,
		CSP:          opts.csp,
		Header:       opts.header,
		Rewrite:      strings.TrimPrefix(opts.rewrite, rewriteResourcePrefix),
		thirdParty:   opts.thirdParty,
	}

	if opts.domainsValue != "" {
		u.setDomains(opts.domainsValue, '|')
	}
	if opts.sitekeys != "" {
		u.setSitekeys(opts.sitekeys)
	}

	if allowing {
		return &AllowingFilter{URLFilter: u}, nil
	}

	return &BlockingFilter{URLFilter: u}, nil
}

// load parses one comma-separated options clause.  blocking is true for
// filters without the "@@" prefix, some options are restricted on them.
func (o *urlFilterOptions) load(clause string, blocking bool) (err error) {
	for _, option := range strings.Split(clause, ",") {
		value := ""
		hasValue := false
		if i := strings.IndexByte(option, '='); i >= 0 {
			option, value, hasValue = option[:i], option[i+1:], true
		}

		inverse := strings.HasPrefix(option, "~")
		if inverse {
			option = option[1:]
		}

		if t, ok := LookupType(option); ok {
			err = o.loadType(t, inverse, value, blocking)
			if err != nil {
				return err
			}

			continue
		}

		switch strings.ToLower(option) {
		case "match-case":
			o.matchCase = !inverse
		case "third-party":
			v := !inverse
			o.thirdParty = &v
		case "domain":
			if value == "" {
				return ErrUnknownOption
			}

			o.domainsValue = strings.ToLower(value)
		case "sitekey":
			if value == "" {
				return ErrUnknownOption
			}

			o.sitekeys = value
		case "rewrite":
			if !hasValue {
				return ErrUnknownOption
			}

			if !strings.HasPrefix(value, rewriteResourcePrefix) {
				return ErrInvalidRewrite
			}

			o.rewrite = value
			o.hasRewrite = true
		default:
			// Unknown options are ignored so that lists using newer syntax
			// additions keep loading.
		}
	}

	return nil
}

// loadType applies one content type option to the accumulated mask.
func (o *urlFilterOptions) loadType(t ContentType, inverse bool, value string, blocking bool) (err error) {
	if inverse {
		if !o.hasTypes {
			o.types = TypeResource
			o.hasTypes = true
		}

		o.types = o.types.ClearResource(t)

		return nil
	}

	o.types |= t
	o.hasTypes = true

	switch t {
	case TypeCSP:
		if blocking && value == "" {
			return ErrInvalidCSP
		}

		o.csp = value
	case TypeHeader:
		if blocking && value == "" {
			return ErrInvalidHeader
		}

		o.header = value
	}

	return nil
}

// validate runs the checks that depend on the whole option state and the
// pattern text.
func (o *urlFilterOptions) validate(pattern string, blocking bool) (err error) {
	if o.domainsValue != "" && o.sitekeys != "" &&
		!isPatternSpecificEnough(pattern) {
		return ErrNotSpecificEnough
	}

	for i := 0; i < len(o.domainsValue); i++ {
		if o.domainsValue[i] >= 0x80 {
			return ErrInvalidDomain
		}
	}

	if blocking && o.hasRewrite {
		err = validateRewritePattern(pattern, o.domainsValue, o.thirdParty)
		if err != nil {
			return err
		}
	}

	if blocking && o.csp != "" && invalidCSPRegexp.MatchString(o.csp) {
		return ErrInvalidCSP
	}

	return nil
}

// isPatternSpecificEnough reports whether the pattern is long enough to be
// matched efficiently.  Anchors do not count towards the length, a wildcard
// exempts the pattern.
func isPatternSpecificEnough(pattern string) bool {
	if strings.Contains(pattern, "*") {
		return true
	}

	s := pattern
	if strings.HasPrefix(s, "||") {
		s = s[2:]
	} else {
		s = strings.TrimPrefix(s, "|")
	}
	s = strings.TrimSuffix(s, "|")

	return len(s) >= minSpecificPatternLength
}

// validateRewritePattern checks the shape of a blocking $rewrite filter.
// Rewrites are only allowed on patterns that cannot accidentally cover
// unrelated origins: extended-anchor patterns restricted by domains or
// limited to first-party requests, and wildcard patterns restricted by
// domains.
func validateRewritePattern(pattern, domainsValue string, thirdParty *bool) (err error) {
	switch {
	case strings.HasPrefix(pattern, "*"):
		if domainsValue == "" {
			return ErrInvalidRewrite
		}
	case strings.HasPrefix(pattern, "||"):
		if domainsValue == "" && (thirdParty == nil || *thirdParty) {
			return ErrInvalidRewrite
		}
	default:
		return ErrInvalidRewrite
	}

	return nil
}
