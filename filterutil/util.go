// Package filterutil contains domain and hostname utilities shared by the
// filtering packages.
package filterutil

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ExtractDomain retrieves the hostname part of a URL-like string.  The result
// is lowercase, with userinfo and port stripped.  It returns "" when the
// input cannot be parsed.
//
// NOTE: ExtractDomain is an optimized, best-effort function.  The result is
// not guaranteed to be correct for some edge cases, which include
// non-hierarchical URLs with unusual authority parts.
func ExtractDomain(url string) (domain string) {
	i := strings.Index(url, "//")
	if i == -1 {
		// This is a non-hierarchical structured URL (e.g. stun: or turn:)
		// https://tools.ietf.org/html/rfc4395#section-2.2
		i = strings.IndexByte(url, ':')
		if i == -1 {
			return ""
		}

		i++
	} else {
		i += 2
	}

	host := url[i:]
	if j := strings.IndexAny(host, "/?#"); j != -1 {
		host = host[:j]
	}

	if at := strings.LastIndexByte(host, '@'); at != -1 {
		host = host[at+1:]
	}

	if len(host) > 0 && host[0] == '[' {
		// IPv6 literal, keep everything inside the brackets.
		j := strings.IndexByte(host, ']')
		if j == -1 {
			return ""
		}

		host = host[1:j]
	} else if j := strings.IndexByte(host, ':'); j != -1 {
		host = host[:j]
	}

	return strings.ToLower(host)
}

// DomainSuffixes returns domain and every parent label-suffix of it, ending
// at the top label:
//
//	DomainSuffixes("a.b.com") = ["a.b.com", "b.com", "com"]
func DomainSuffixes(domain string) (suffixes []string) {
	for domain != "" {
		suffixes = append(suffixes, domain)

		i := strings.IndexByte(domain, '.')
		if i == -1 {
			break
		}

		domain = domain[i+1:]
	}

	return suffixes
}

// IsThirdParty reports whether a request for url is third-party relative to
// the document domain.  Domains equal to each other or related as
// parent/child are first-party.  An unparsable url is considered third-party.
func IsThirdParty(url, docDomain string) (ok bool) {
	domain := ExtractDomain(url)
	if domain == "" {
		return true
	}

	docDomain = strings.ToLower(docDomain)
	if domain == docDomain {
		return false
	}

	if strings.HasSuffix(domain, "."+docDomain) ||
		strings.HasSuffix(docDomain, "."+domain) {
		return false
	}

	return true
}

// ParseDomains parses a domain restriction list into a map of lowercase
// domain to the include/exclude flag.  Entries prefixed with "~" are
// excluded, empty entries are skipped.  hasInclude is true when at least one
// include entry is present.
func ParseDomains(list string, sep byte) (domains map[string]bool, hasInclude bool) {
	domains = map[string]bool{}
	for len(list) > 0 {
		var d string
		if i := strings.IndexByte(list, sep); i != -1 {
			d, list = list[:i], list[i+1:]
		} else {
			d, list = list, ""
		}

		if d == "" {
			continue
		}

		include := true
		if d[0] == '~' {
			include = false
			d = d[1:]
		} else {
			hasInclude = true
		}

		domains[strings.ToLower(d)] = include
	}

	return domains, hasInclude
}

// EffectiveTLDPlusOne is a faster version of publicsuffix.EffectiveTLDPlusOne
// that avoids using fmt.Errorf when the domain is less or equal the suffix.
func EffectiveTLDPlusOne(hostname string) (domain string) {
	hostnameLen := len(hostname)
	if hostnameLen < 1 {
		return ""
	}

	if hostname[0] == '.' || hostname[hostnameLen-1] == '.' {
		return ""
	}

	suffix, _ := publicsuffix.PublicSuffix(hostname)

	i := hostnameLen - len(suffix) - 1
	if i < 0 || hostname[i] != '.' {
		return ""
	}

	return hostname[1+strings.LastIndex(hostname[:i], "."):]
}
