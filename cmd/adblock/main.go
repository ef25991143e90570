// adblock is a command-line checker: it loads filter lists and reports
// whether a given request would be blocked.
package main

import (
	"os"

	"github.com/AdguardTeam/golibs/log"
	"github.com/kkdashu/adblock"
	"github.com/kkdashu/adblock/filterlist"
	"github.com/kkdashu/adblock/filters"
	"github.com/kkdashu/adblock/filterutil"
	goFlags "github.com/jessevdk/go-flags"
)

// Options -- console arguments
type Options struct {
	// Verbose - should we write debug-level log
	Verbose bool `short:"v" long:"verbose" description:"Verbose output (optional)." optional:"yes" optional-value:"true"`

	// LogOutput - path to the log file
	LogOutput string `short:"o" long:"output" description:"Path to the log file. If not set, it writes to stderr." default:""`

	// FilterLists - paths to the filter lists
	FilterLists []string `short:"f" long:"filter" description:"Path to the filter list. Can be specified multiple times." required:"true"`

	// URL - the request URL to check
	URL string `short:"u" long:"url" description:"URL of the request to check." required:"true"`

	// Document - the URL of the document the request originates from
	Document string `short:"d" long:"document" description:"URL or domain of the originating document (optional)."`

	// Type - the request content type name
	Type string `short:"t" long:"type" description:"Request type (script, image, stylesheet, etc.)." default:"other"`
}

func main() {
	var options Options
	var parser = goFlags.NewParser(&options, goFlags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*goFlags.Error); ok && flagsErr.Type == goFlags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}

	run(options)
}

func run(options Options) {
	if options.Verbose {
		log.SetLevel(log.DEBUG)
	}
	if options.LogOutput != "" {
		// nolint: gosec
		file, err := os.OpenFile(options.LogOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("cannot create a log file: %s", err)
		}
		defer file.Close() //nolint
		log.SetOutput(file)
	}

	typeMask, ok := filters.LookupType(options.Type)
	if !ok {
		log.Fatalf("unknown request type %q", options.Type)
	}

	engine := adblock.NewEngine()
	lists := loadLists(engine, options.FilterLists)
	defer func() {
		err := filterlist.CloseAll(lists)
		if err != nil {
			log.Error("%s", err)
		}
	}()

	log.Printf("loaded %d rules", engine.RulesCount())

	r := filters.NewRequest(options.URL, documentDomain(options.Document))

	f, matched := engine.Match(r, typeMask, "")
	switch {
	case !matched:
		log.Printf("no filter matched, request is allowed")
	case isAllowing(f):
		log.Printf("allowed by %q", f.Text())
	default:
		log.Printf("blocked by %q", f.Text())
	}
}

// loadLists opens each filter list and feeds it into the engine.
func loadLists(engine *adblock.Engine, paths []string) (lists []filterlist.RuleList) {
	for i, path := range paths {
		l, err := filterlist.NewFileRuleList(i+1, path, true)
		if err != nil {
			log.Fatalf("cannot open filter list: %s", err)
		}

		lists = append(lists, l)

		loaded, skipped := engine.LoadRuleList(l)
		log.Debug("list %s: loaded %d filters, skipped %d lines", path, loaded, skipped)
	}

	return lists
}

// documentDomain reduces the document argument to a bare domain.  The flag
// accepts both a URL and an already bare domain.
func documentDomain(doc string) (domain string) {
	if d := filterutil.ExtractDomain(doc); d != "" {
		return d
	}

	return doc
}

// isAllowing reports whether f is an allowing filter.
func isAllowing(f filters.Filter) (ok bool) {
	_, ok = f.(*filters.AllowingFilter)

	return ok
}
