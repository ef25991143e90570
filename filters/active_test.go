package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveFilter_IsActiveOnDomain(t *testing.T) {
	newFilter := func(domains, sitekeys string) (f *ActiveFilter) {
		f = &ActiveFilter{}
		if domains != "" {
			f.setDomains(domains, '|')
		}
		if sitekeys != "" {
			f.setSitekeys(sitekeys)
		}

		return f
	}

	testCases := []struct {
		name      string
		domains   string
		sitekeys  string
		docDomain string
		sitekey   string
		want      bool
	}{{
		name:      "unrestricted",
		docDomain: "anything.test",
		want:      true,
	}, {
		name:      "unrestricted_no_document",
		docDomain: "",
		want:      true,
	}, {
		name:      "include_exact",
		domains:   "example.com",
		docDomain: "example.com",
		want:      true,
	}, {
		name:      "include_subdomain",
		domains:   "example.com",
		docDomain: "www.example.com",
		want:      true,
	}, {
		name:      "include_other",
		domains:   "example.com",
		docDomain: "other.org",
		want:      false,
	}, {
		name:      "include_no_document",
		domains:   "example.com",
		docDomain: "",
		want:      false,
	}, {
		name:      "include_case_folded",
		domains:   "example.com",
		docDomain: "WWW.Example.COM",
		want:      true,
	}, {
		name:      "child_overrides_parent",
		domains:   "example.com|~ads.example.com",
		docDomain: "ads.example.com",
		want:      false,
	}, {
		name:      "child_override_is_specific",
		domains:   "example.com|~ads.example.com",
		docDomain: "www.example.com",
		want:      true,
	}, {
		name:      "grandchild_follows_child",
		domains:   "example.com|~ads.example.com",
		docDomain: "eu.ads.example.com",
		want:      false,
	}, {
		name:      "exclude_only_elsewhere",
		domains:   "~example.com",
		docDomain: "other.org",
		want:      true,
	}, {
		name:      "exclude_only_match",
		domains:   "~example.com",
		docDomain: "example.com",
		want:      false,
	}, {
		name:      "exclude_only_no_document",
		domains:   "~example.com",
		docDomain: "",
		want:      true,
	}, {
		name:     "sitekey_match",
		sitekeys: "foo|bar",
		sitekey:  "BAR",
		want:     true,
	}, {
		name:     "sitekey_mismatch",
		sitekeys: "foo|bar",
		sitekey:  "baz",
		want:     false,
	}, {
		name:     "sitekey_missing",
		sitekeys: "foo|bar",
		sitekey:  "",
		want:     false,
	}, {
		name:      "domain_wins_over_sitekey",
		domains:   "example.com",
		sitekeys:  "foo",
		docDomain: "example.com",
		sitekey:   "",
		want:      true,
	}, {
		name:      "sitekey_fallback",
		domains:   "example.com",
		sitekeys:  "foo",
		docDomain: "other.org",
		sitekey:   "foo",
		want:      true,
	}, {
		name:      "neither_matches",
		domains:   "example.com",
		sitekeys:  "foo",
		docDomain: "other.org",
		sitekey:   "bar",
		want:      false,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFilter(tc.domains, tc.sitekeys)
			assert.Equal(t, tc.want, f.IsActiveOnDomain(tc.docDomain, tc.sitekey))
		})
	}
}

func TestActiveFilter_accessors(t *testing.T) {
	f := &ActiveFilter{FilterText: "||example.com^$domain=a.com|~b.com"}
	f.setDomains("a.com|~b.com", '|')
	f.setSitekeys("zz|aa")

	assert.Equal(t, "||example.com^$domain=a.com|~b.com", f.Text())
	assert.Equal(t, map[string]bool{"a.com": true, "b.com": false}, f.Domains())
	assert.Equal(t, []string{"AA", "ZZ"}, f.Sitekeys())

	// Domains returns a copy.
	f.Domains()["c.com"] = true
	assert.Equal(t, map[string]bool{"a.com": true, "b.com": false}, f.Domains())
}
