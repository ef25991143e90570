package filters

import (
	"strings"

	"github.com/kkdashu/adblock/filterutil"
	"golang.org/x/exp/slices"
)

// ActiveFilter is the common part of the filters that can be restricted to a
// set of document domains and sitekeys.
type ActiveFilter struct {
	// FilterText is the original filter text.
	FilterText string

	// domains maps a lowercase domain to its include/exclude flag.  nil when
	// the filter text has no domain restriction.
	domains map[string]bool

	// hasInclude is true when domains contains at least one include entry.
	hasInclude bool

	// sitekeys is the sorted list of uppercase sitekeys, nil when the filter
	// has no sitekey restriction.
	sitekeys []string
}

// Text returns the original filter text.
func (f *ActiveFilter) Text() string {
	return f.FilterText
}

// setDomains parses and stores the domain restriction list.
func (f *ActiveFilter) setDomains(list string, sep byte) {
	f.domains, f.hasInclude = filterutil.ParseDomains(list, sep)
}

// setSitekeys parses and stores the "|"-separated sitekey list.  Sitekeys
// are compared case-insensitively, so they are stored in upper case.
func (f *ActiveFilter) setSitekeys(list string) {
	for _, key := range strings.Split(strings.ToUpper(list), "|") {
		if key != "" {
			f.sitekeys = append(f.sitekeys, key)
		}
	}

	slices.Sort(f.sitekeys)
}

// Domains returns a copy of the domain restriction map.  The map is empty
// iff the filter text specified no domain option.
func (f *ActiveFilter) Domains() (domains map[string]bool) {
	domains = make(map[string]bool, len(f.domains))
	for d, include := range f.domains {
		domains[d] = include
	}

	return domains
}

// Sitekeys returns the sitekey restriction list, nil when unrestricted.
func (f *ActiveFilter) Sitekeys() []string {
	return f.sitekeys
}

// IsActiveOnDomain reports whether the filter applies on the given document
// domain.  The domain map is walked most-specific suffix first, so an entry
// for a child domain overrides the entry for its parent.  A domain
// restriction left unmatched falls back to sitekey membership, and finally
// the filter is active only if no include entry restricted it in the first
// place.
func (f *ActiveFilter) IsActiveOnDomain(docDomain, sitekey string) bool {
	if f.domains == nil && f.sitekeys == nil {
		return true
	}

	for _, suffix := range filterutil.DomainSuffixes(strings.ToLower(docDomain)) {
		if include, ok := f.domains[suffix]; ok {
			return include
		}
	}

	if f.sitekeys != nil {
		if sitekey == "" {
			return false
		}

		_, ok := slices.BinarySearch(f.sitekeys, strings.ToUpper(sitekey))

		return ok
	}

	return !f.hasInclude
}
