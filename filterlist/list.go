// Package filterlist provides reading of filter lists and their parsing
// into descriptors, one rule per line.
package filterlist

import (
	"io"
	"os"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

// RuleList represents a single filter list source.
type RuleList interface {
	// GetID returns the list identifier.
	GetID() int

	// NewScanner creates a scanner that reads the list contents.
	NewScanner() *RuleScanner

	// Closer releases the resources of the underlying source.
	io.Closer
}

// StringRuleList is a rule list kept in memory.
type StringRuleList struct {
	// RulesText is the filter text, one rule per line.
	RulesText string

	// ID is the list identifier.
	ID int

	// IgnoreComments makes the scanner skip comment lines.
	IgnoreComments bool
}

// type check
var _ RuleList = (*StringRuleList)(nil)

// GetID implements the [RuleList] interface for *StringRuleList.
func (l *StringRuleList) GetID() int {
	return l.ID
}

// NewScanner implements the [RuleList] interface for *StringRuleList.
func (l *StringRuleList) NewScanner() *RuleScanner {
	return NewRuleScanner(strings.NewReader(l.RulesText), l.ID, l.IgnoreComments)
}

// Close implements the [RuleList] interface for *StringRuleList.
func (l *StringRuleList) Close() (err error) {
	return nil
}

// FileRuleList is a rule list read from a file.
type FileRuleList struct {
	// file is the underlying file, kept open until Close.
	file *os.File

	// ID is the list identifier.
	ID int

	// IgnoreComments makes the scanner skip comment lines.
	IgnoreComments bool
}

// type check
var _ RuleList = (*FileRuleList)(nil)

// NewFileRuleList opens the filter list file at path.
func NewFileRuleList(id int, path string, ignoreComments bool) (l *FileRuleList, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "opening rule list: %w")
	}

	return &FileRuleList{
		file:           f,
		ID:             id,
		IgnoreComments: ignoreComments,
	}, nil
}

// GetID implements the [RuleList] interface for *FileRuleList.
func (l *FileRuleList) GetID() int {
	return l.ID
}

// NewScanner implements the [RuleList] interface for *FileRuleList.
//
// NOTE: the scanner consumes the file, create at most one per list.
func (l *FileRuleList) NewScanner() *RuleScanner {
	return NewRuleScanner(l.file, l.ID, l.IgnoreComments)
}

// Close implements the [RuleList] interface for *FileRuleList.
func (l *FileRuleList) Close() (err error) {
	return errors.Annotate(l.file.Close(), "closing rule list: %w")
}

// CloseAll closes all the lists and joins their errors.
func CloseAll(lists []RuleList) (err error) {
	var errs []error
	for _, l := range lists {
		err = l.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Annotate(errors.Join(errs...), "closing rule lists: %w")
}
