// Package adblock implements a filtering engine that matches network
// requests against whole sets of parsed filters.
package adblock

import (
	"github.com/kkdashu/adblock/filterlist"
	"github.com/kkdashu/adblock/filters"
	"github.com/kkdashu/adblock/filterutil"
)

// minKeywordLength is the minimum length of an index keyword.  Shorter runs
// occur in almost every URL and would not prune anything.
const minKeywordLength = 2

// indexedFilter ties a descriptor to its URL filter core.
type indexedFilter struct {
	filter filters.Filter
	url    *filters.URLFilter
}

// matcher is a keyword-indexed set of URL filters.  Each filter is stored
// under the hash of one of its pattern keywords, chosen to keep the index
// buckets balanced.  Filters without keywords are checked sequentially.
type matcher struct {
	// byKeyword maps a keyword hash to the filters indexed under it.
	byKeyword map[uint32][]indexedFilter

	// histogram counts the filters indexed under each keyword hash, it
	// drives the choice of the least used keyword.
	histogram map[uint32]int

	// rest holds the filters with no usable keyword.
	rest []indexedFilter

	// count is the total number of filters added.
	count int
}

// newMatcher creates an empty matcher.
func newMatcher() (m *matcher) {
	return &matcher{
		byKeyword: map[uint32][]indexedFilter{},
		histogram: map[uint32]int{},
	}
}

// add puts the filter into the index.
func (m *matcher) add(e indexedFilter) {
	m.count++

	keywords := e.url.Pattern.Keywords()
	if len(keywords) == 0 {
		m.rest = append(m.rest, e)

		return
	}

	// Pick the least used keyword so that popular keywords like "ads" do
	// not degenerate into long buckets.
	var keywordHash uint32
	minCount := int(^uint(0) >> 1)
	for _, kw := range keywords {
		hash := filterutil.FastHash(kw)
		if count := m.histogram[hash]; count < minCount {
			minCount = count
			keywordHash = hash
		}
	}

	m.histogram[keywordHash] = minCount + 1
	m.byKeyword[keywordHash] = append(m.byKeyword[keywordHash], e)
}

// match returns the first filter matching the request, or nil.  Candidate
// buckets are selected by hashing the alphanumeric runs of the location:
// every location a filter can match contains the filter's keyword as such a
// run, so no matching filter is missed.
func (m *matcher) match(r *filters.Request, typeMask filters.ContentType, sitekey string) (f filters.Filter) {
	location := r.URLLowerCase

	i := 0
	for i < len(location) {
		if !isCandidateChar(location[i]) {
			i++

			continue
		}

		start := i
		for i < len(location) && isCandidateChar(location[i]) {
			i++
		}

		if i-start < minKeywordLength {
			continue
		}

		hash := filterutil.FastHashBetween(location, start, i)
		for _, e := range m.byKeyword[hash] {
			if e.url.Matches(r, typeMask, sitekey) {
				return e.filter
			}
		}
	}

	for _, e := range m.rest {
		if e.url.Matches(r, typeMask, sitekey) {
			return e.filter
		}
	}

	return nil
}

// isCandidateChar reports whether c may be part of an index keyword.  It
// must accept exactly the bytes the pattern keyword extractor accepts.
func isCandidateChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '%'
}

// Engine decides block/allow for network requests using the loaded URL
// filters.  Content filters are collected for retrieval but play no role in
// request matching.
type Engine struct {
	// blocking indexes the blocking filters.
	blocking *matcher

	// allowing indexes the allowing filters.
	allowing *matcher

	// contentFilters holds the parsed content filters in list order.
	contentFilters []filters.Filter
}

// NewEngine creates an empty engine.
func NewEngine() (e *Engine) {
	return &Engine{
		blocking: newMatcher(),
		allowing: newMatcher(),
	}
}

// AddFilter puts the descriptor into the engine.  ok is false when the
// filter kind, comments included, is not used by the engine.
func (e *Engine) AddFilter(f filters.Filter) (ok bool) {
	switch f := f.(type) {
	case *filters.BlockingFilter:
		e.blocking.add(indexedFilter{filter: f, url: &f.URLFilter})
	case *filters.AllowingFilter:
		e.allowing.add(indexedFilter{filter: f, url: &f.URLFilter})
	case *filters.ElemHideFilter, *filters.ElemHideException,
		*filters.ElemHideEmulationFilter, *filters.SnippetFilter:
		e.contentFilters = append(e.contentFilters, f)
	default:
		return false
	}

	return true
}

// LoadRuleList reads all filters from the list into the engine.  Lines that
// fail to parse are skipped, their count is returned.
func (e *Engine) LoadRuleList(l filterlist.RuleList) (loaded, skipped int) {
	s := l.NewScanner()
	for s.Scan() {
		f, _ := s.Filter()
		if e.AddFilter(f) {
			loaded++
		}
	}

	return loaded, s.Skipped()
}

// RulesCount returns the number of URL filters in the engine.
func (e *Engine) RulesCount() int {
	return e.blocking.count + e.allowing.count
}

// ContentFilters returns the content filters collected while loading.
func (e *Engine) ContentFilters() []filters.Filter {
	return e.contentFilters
}

// Match returns the filter deciding the request.  Allowing filters take
// precedence: when both kinds match, the allowing filter is returned.
// matched is false when no filter matched at all.
func (e *Engine) Match(r *filters.Request, typeMask filters.ContentType, sitekey string) (f filters.Filter, matched bool) {
	b := e.blocking.match(r, typeMask, sitekey)
	if b == nil {
		return nil, false
	}

	if a := e.allowing.match(r, typeMask, sitekey); a != nil {
		return a, true
	}

	return b, true
}
