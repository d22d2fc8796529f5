package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/convert"
	"github.com/matzehuels/bowerimport/pkg/observability"
)

// Runner ties a lister to a converter.
//
// The Runner keeps no state between runs; the converter's resolver memo
// is the only thing shared by consecutive runs.
type Runner struct {
	Lister    bower.Lister
	Converter *convert.Converter
	Logger    *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(l bower.Lister, c *convert.Converter, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Lister:    l,
		Converter: c,
		Logger:    logger,
	}
}

// Run lists, flattens and converts every installed dependency.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	_, pkgs, err := r.Packages(ctx)
	if err != nil {
		return &Summary{Duration: time.Since(start)}, err
	}

	summary, err := r.ConvertAll(ctx, pkgs)
	summary.Duration = time.Since(start)
	return summary, err
}

// Packages lists the installed dependencies and returns the project root
// along with the flattened collection, one descriptor per name.
func (r *Runner) Packages(ctx context.Context) (*bower.Package, []*bower.Package, error) {
	name := listerName(r.Lister)
	hooks := observability.Pipeline()

	hooks.OnListStart(ctx, name)
	start := time.Now()
	root, err := r.Lister.List(ctx)
	if err != nil {
		hooks.OnListComplete(ctx, name, 0, time.Since(start), err)
		return nil, nil, fmt.Errorf("list: %w", err)
	}

	pkgs := bower.Flatten(root.Dependencies)
	hooks.OnListComplete(ctx, name, len(pkgs), time.Since(start), nil)

	r.Logger.Debug("listed dependencies",
		"project", root.Name,
		"packages", len(pkgs),
		"duration", time.Since(start))
	return root, pkgs, nil
}

// ConvertAll converts pkgs in order, skipping packages that are not
// installed. It stops at the first error and returns the results gathered
// so far.
func (r *Runner) ConvertAll(ctx context.Context, pkgs []*bower.Package) (*Summary, error) {
	summary := &Summary{}
	hooks := observability.Pipeline()

	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if pkg.Missing || pkg.CanonicalDir == "" {
			r.Logger.Warn("package is not installed, skipping", "package", pkg.Name)
			summary.Missing = append(summary.Missing, pkg.Name)
			continue
		}

		hooks.OnConvertStart(ctx, pkg.Name)
		start := time.Now()
		res, err := r.Converter.Convert(ctx, pkg)
		if err != nil {
			hooks.OnConvertComplete(ctx, pkg.Name, "", time.Since(start), err)
			return summary, fmt.Errorf("%s: %w", pkg.Name, err)
		}
		hooks.OnConvertComplete(ctx, pkg.Name, res.Strategy.String(), time.Since(start), nil)
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

func listerName(l bower.Lister) string {
	switch l.(type) {
	case *bower.ExecLister:
		return "bower"
	case *bower.DirLister:
		return "dir"
	default:
		return fmt.Sprintf("%T", l)
	}
}
