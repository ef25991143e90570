package filterlist

import (
	"bufio"
	"io"

	"github.com/kkdashu/adblock/filters"
)

// RuleScanner reads a filter list line by line and parses each line into a
// descriptor.  Lines that fail to parse are skipped and counted, which is
// the recommended mode for bulk list ingestion.
type RuleScanner struct {
	// scanner reads the underlying list.
	scanner *bufio.Scanner

	// filter is the most recently parsed descriptor.
	filter filters.Filter

	// listID is the identifier of the list being scanned.
	listID int

	// line is the 1-based number of the line the current filter came from.
	line int

	// skipped counts the lines rejected by the parser.
	skipped int

	// ignoreComments makes Scan pass over comment lines.
	ignoreComments bool
}

// NewRuleScanner creates a scanner over the reader contents.
func NewRuleScanner(r io.Reader, listID int, ignoreComments bool) (s *RuleScanner) {
	return &RuleScanner{
		scanner:        bufio.NewScanner(r),
		listID:         listID,
		ignoreComments: ignoreComments,
	}
}

// Scan advances to the next well-formed filter.  It returns false when the
// list is exhausted.
func (s *RuleScanner) Scan() (ok bool) {
	for s.scanner.Scan() {
		s.line++

		f, err := filters.ParseFilter(s.scanner.Text())
		if err != nil {
			if err != filters.ErrFilterEmpty {
				s.skipped++
			}

			continue
		}

		if s.ignoreComments {
			if _, isComment := f.(*filters.Comment); isComment {
				continue
			}
		}

		s.filter = f

		return true
	}

	return false
}

// Filter returns the current descriptor and the number of the line it was
// parsed from.
func (s *RuleScanner) Filter() (f filters.Filter, line int) {
	return s.filter, s.line
}

// ListID returns the identifier of the list being scanned.
func (s *RuleScanner) ListID() int {
	return s.listID
}

// Skipped returns the number of lines rejected by the parser so far.
func (s *RuleScanner) Skipped() int {
	return s.skipped
}
