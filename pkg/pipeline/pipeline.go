// Package pipeline drives a conversion run over a whole bower project.
//
// A run lists the installed dependencies through a [bower.Lister], flattens
// the tree into one descriptor per package name, and converts the packages
// one at a time in a stable order. The first failing package stops the run.
//
// # Usage
//
//	runner := pipeline.NewRunner(lister, converter, logger)
//	summary, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary.Count(convert.Shim), "shims written")
package pipeline

import (
	"time"

	"github.com/matzehuels/bowerimport/pkg/convert"
)

// Summary describes a finished or aborted run.
type Summary struct {
	// Results holds one entry per processed package, in processing order.
	Results []*convert.Result

	// Missing lists packages the dependency manager knows about but that are
	// not installed.
	Missing []string

	// Duration is the wall time of the run, listing included.
	Duration time.Duration
}

// Count returns how many packages were handled with strategy s.
func (s *Summary) Count(st convert.Strategy) int {
	n := 0
	for _, r := range s.Results {
		if r.Strategy == st {
			n++
		}
	}
	return n
}

// Munged returns the results whose module id differs from the package name.
func (s *Summary) Munged() []*convert.Result {
	var out []*convert.Result
	for _, r := range s.Results {
		if r.Munged {
			out = append(out, r)
		}
	}
	return out
}

// Strategies maps package names to the strategy chosen for them.
func (s *Summary) Strategies() map[string]convert.Strategy {
	out := make(map[string]convert.Strategy, len(s.Results))
	for _, r := range s.Results {
		out[r.Package] = r.Strategy
	}
	return out
}
