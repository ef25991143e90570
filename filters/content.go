package filters

import "strings"

// minGenericBodyLength is the minimum body length of an element hiding
// filter that is not restricted to specific domains.
const minGenericBodyLength = 3

// ContentFilter is the common part of the filters that modify page content.
// The body is kept as opaque text: interpreting selectors and snippet
// scripts is up to the embedding application.
type ContentFilter struct {
	ActiveFilter

	// Body is the selector or snippet part of the filter.
	Body string
}

// ElemHideFilter hides the elements matched by its selector.
type ElemHideFilter struct {
	ContentFilter
}

// ElemHideException cancels element hiding filters with the same selector.
type ElemHideException struct {
	ContentFilter
}

// ElemHideEmulationFilter hides elements using extended selector syntax
// evaluated by script.
type ElemHideEmulationFilter struct {
	ContentFilter
}

// SnippetFilter runs a snippet script on matching pages.
type SnippetFilter struct {
	ContentFilter
}

// parseContentFilter parses a filter already split by the classifier into
// the domain list, the separator tag ("@", "?", "$" or empty) and the body.
func parseContentFilter(text, domainList, tag, body string) (f Filter, err error) {
	restricted := false
	if domainList != "" {
		for _, d := range strings.Split(domainList, ",") {
			if d == "" || d == "~" {
				return nil, ErrInvalidDomain
			}

			restricted = restricted || isRestrictedEntry(d)
		}
	}

	c := ContentFilter{
		ActiveFilter: ActiveFilter{FilterText: text},
		Body:         body,
	}
	if domainList != "" {
		c.setDomains(domainList, ',')
	}

	switch tag {
	case "?":
		// Emulation filters are expensive, unrestricted generic ones are
		// disallowed.
		if !restricted {
			return nil, ErrInvalidFilter
		}

		return &ElemHideEmulationFilter{ContentFilter: c}, nil
	case "$":
		// Snippets run script on pages, unrestricted generic ones are
		// disallowed.
		if !restricted {
			return nil, ErrInvalidFilter
		}

		return &SnippetFilter{ContentFilter: c}, nil
	case "@":
		if !restricted && len(body) < minGenericBodyLength {
			return nil, ErrInvalidFilter
		}

		return &ElemHideException{ContentFilter: c}, nil
	default:
		if !restricted && len(body) < minGenericBodyLength {
			return nil, ErrInvalidFilter
		}

		return &ElemHideFilter{ContentFilter: c}, nil
	}
}

// isRestrictedEntry reports whether the entry restricts the filter to a
// specific domain: a non-excluded entry that is exactly "localhost" or has a
// dot that is neither the first nor the last character.
func isRestrictedEntry(entry string) bool {
	if entry[0] == '~' {
		return false
	}

	if strings.EqualFold(entry, "localhost") {
		return true
	}

	for i := 1; i < len(entry)-1; i++ {
		if entry[i] == '.' {
			return true
		}
	}

	return false
}
