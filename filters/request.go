package filters

import (
	"strings"

	"github.com/kkdashu/adblock/filterutil"
)

// maxURLLength limits the URL length by 4 KiB.  It appears that there can be
// URLs longer than a megabyte, and it makes no sense to go through the whole
// URL.
const maxURLLength = 4 * 1024

// Request represents a single network request to be checked against filters.
type Request struct {
	// URL is the full request location.
	URL string

	// URLLowerCase is the request location in lower case.
	URLLowerCase string

	// Hostname is the hostname of the request location.
	Hostname string

	// Domain is the effective top-level domain of the request with an
	// additional label.
	Domain string

	// DocumentDomain is the domain of the document that issued the request,
	// empty when there is no document context.
	DocumentDomain string

	// ThirdParty is true when the request domain and the document domain are
	// unrelated.
	ThirdParty bool
}

// NewRequest creates a new Request and populates its derived fields.
// docDomain may be empty, such requests are considered first-party.
func NewRequest(url, docDomain string) (r *Request) {
	if len(url) > maxURLLength {
		url = url[:maxURLLength]
	}

	docDomain = strings.ToLower(docDomain)

	r = &Request{
		URL:            url,
		URLLowerCase:   strings.ToLower(url),
		Hostname:       filterutil.ExtractDomain(url),
		DocumentDomain: docDomain,
	}

	if docDomain != "" {
		r.ThirdParty = filterutil.IsThirdParty(url, docDomain)
	}

	if domain := filterutil.EffectiveTLDPlusOne(r.Hostname); domain != "" {
		r.Domain = domain
	} else {
		r.Domain = r.Hostname
	}

	return r
}
