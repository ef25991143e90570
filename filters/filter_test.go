package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_classification(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want any
	}{{
		name: "comment",
		text: "! Title: EasyList",
		want: &Comment{},
	}, {
		name: "blocking",
		text: "||example.com^",
		want: &BlockingFilter{},
	}, {
		name: "allowing",
		text: "@@||example.com^",
		want: &AllowingFilter{},
	}, {
		name: "elemhide",
		text: "##.banner",
		want: &ElemHideFilter{},
	}, {
		name: "elemhide_exception",
		text: "example.com#@#.banner",
		want: &ElemHideException{},
	}, {
		name: "elemhide_emulation",
		text: "example.com#?#div:-abp-has(.ad)",
		want: &ElemHideEmulationFilter{},
	}, {
		name: "snippet",
		text: "example.com#$#log hello",
		want: &SnippetFilter{},
	}, {
		name: "hash_in_url_pattern",
		text: "example.com/page#anchor",
		want: &BlockingFilter{},
	}, {
		name: "slash_before_hashes",
		text: "example.com/ads##wrong",
		want: &BlockingFilter{},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFilter(tc.text)
			require.NoError(t, err)

			assert.IsType(t, tc.want, f)
			assert.Equal(t, tc.text, f.Text())
		})
	}
}

func TestParseFilter_errors(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		wantErr error
	}{{
		name:    "empty",
		text:    "",
		wantErr: ErrFilterEmpty,
	}, {
		name:    "whitespace",
		text:    "   \t ",
		wantErr: ErrFilterEmpty,
	}, {
		name:    "generic_snippet",
		text:    "#$#log hello",
		wantErr: ErrInvalidFilter,
	}, {
		name:    "generic_emulation",
		text:    "#?#div:-abp-has(.ad)",
		wantErr: ErrInvalidFilter,
	}, {
		name:    "snippet_excluded_localhost_only",
		text:    "~localhost#$#log hello",
		wantErr: ErrInvalidFilter,
	}, {
		name:    "snippet_localhost_substring",
		text:    "notlocalhostx#$#log hello",
		wantErr: ErrInvalidFilter,
	}, {
		name:    "short_generic_selector",
		text:    "##ab",
		wantErr: ErrInvalidFilter,
	}, {
		name:    "empty_domain_entry",
		text:    "example.com,##.banner",
		wantErr: ErrInvalidDomain,
	}, {
		name:    "lone_tilde_domain",
		text:    "~##.banner",
		wantErr: ErrInvalidDomain,
	}, {
		name:    "csp_without_value",
		text:    "||example.com^$csp",
		wantErr: ErrInvalidCSP,
	}, {
		name:    "csp_denylisted_directive",
		text:    "||example.com^$csp=base-uri 'self'",
		wantErr: ErrInvalidCSP,
	}, {
		name:    "header_without_value",
		text:    "||example.com^$header",
		wantErr: ErrInvalidHeader,
	}, {
		name:    "domain_without_value",
		text:    "||example.com^$domain=",
		wantErr: ErrUnknownOption,
	}, {
		name:    "sitekey_without_value",
		text:    "||example.com^$sitekey=",
		wantErr: ErrUnknownOption,
	}, {
		name:    "rewrite_without_value",
		text:    "||example.com^$rewrite",
		wantErr: ErrUnknownOption,
	}, {
		name:    "rewrite_foreign_resource",
		text:    "||example.com^$rewrite=https://evil.test/x.js,domain=example.com",
		wantErr: ErrInvalidRewrite,
	}, {
		name:    "rewrite_unanchored_pattern",
		text:    "ads.js$rewrite=abp-resource:blank-js,domain=example.com",
		wantErr: ErrInvalidRewrite,
	}, {
		name:    "non_ascii_domain",
		text:    "||example.com^$domain=пример.com",
		wantErr: ErrInvalidDomain,
	}, {
		name:    "short_pattern_with_domain_and_sitekey",
		text:    "abc$domain=example.com,sitekey=SiTeK3y",
		wantErr: ErrNotSpecificEnough,
	}, {
		name:    "content_filter_shape_after_allowing",
		text:    "@@example.com#@#.banner",
		wantErr: ErrInvalidFilter,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFilter(tc.text)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, tc.wantErr)

			// Parsing is deterministic: the same text produces the same error
			// again.
			_, repeated := ParseFilter(tc.text)
			assert.Equal(t, err, repeated)
		})
	}
}

func TestParseFilter_trimsWhitespace(t *testing.T) {
	f, err := ParseFilter("  ||example.com^  ")
	require.NoError(t, err)

	assert.Equal(t, "||example.com^", f.Text())
}

func TestParseFilter_restrictedShortSelector(t *testing.T) {
	// A two-character selector is allowed once the filter is restricted to a
	// real domain, and "localhost" counts as one.
	f, err := ParseFilter("example.com##ab")
	require.NoError(t, err)
	assert.IsType(t, &ElemHideFilter{}, f)

	f, err = ParseFilter("localhost##ab")
	require.NoError(t, err)
	assert.IsType(t, &ElemHideFilter{}, f)

	f, err = ParseFilter("LocalHost#$#log hi")
	require.NoError(t, err)
	assert.IsType(t, &SnippetFilter{}, f)

	// An exclusion alone does not restrict the filter.
	_, err = ParseFilter("~example.com##ab")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = ParseFilter("~localhost##ab")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func FuzzParseFilter(f *testing.F) {
	for _, seed := range []string{
		"",
		" ",
		"\n",
		"!",
		"! comment",
		"#",
		"##",
		"###",
		"##banner",
		"#@#x",
		"#?#",
		"#$#",
		"example.com,~foo.example.com##.ad",
		"||example.org^",
		"@@||example.org^$third-party",
		"||example.org^$csp=script-src 'none'",
		"|https://example.org/ads/*/banner^",
		"$domain=example.com,sitekey=abc",
		"||example.com^$rewrite=abp-resource:blank-js,domain=example.com",
		"пример##.ad",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		assert.NotPanics(t, func() {
			_, _ = ParseFilter(text)
		})
	})
}
