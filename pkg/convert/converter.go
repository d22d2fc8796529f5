package convert

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/cache"
	"github.com/matzehuels/bowerimport/pkg/detect"
	"github.com/matzehuels/bowerimport/pkg/errors"
	"github.com/matzehuels/bowerimport/pkg/mainfile"
	"github.com/matzehuels/bowerimport/pkg/output"
)

// MainResolver finds the entry point of a package.
type MainResolver interface {
	Resolve(ctx context.Context, pkg *bower.Package) (string, error)
}

// Detector classifies a file and proposes the globals it exports.
type Detector interface {
	Module(path string) (detect.Kind, error)
	Globals(path string) (iter.Seq[string], error)
}

// FileDetector is the Detector backed by package detect.
type FileDetector struct{}

func (FileDetector) Module(path string) (detect.Kind, error)       { return detect.Module(path) }
func (FileDetector) Globals(path string) (iter.Seq[string], error) { return detect.Globals(path) }

var (
	_ MainResolver = (*mainfile.Resolver)(nil)
	_ Detector     = FileDetector{}
)

// Config holds the collaborators of a Converter. Resolver is required.
type Config struct {
	Resolver MainResolver
	Detector Detector // nil: FileDetector
	Writer   *output.Writer
	Prompter mainfile.Prompter // asks for globals the source does not reveal
	Answers  *cache.Answers
	Ignore   []string // added to DefaultIgnore
	Logger   *log.Logger
}

// Converter classifies packages and writes their modules.
type Converter struct {
	resolver MainResolver
	detector Detector
	writer   *output.Writer
	prompter mainfile.Prompter
	answers  *cache.Answers
	ignore   map[string]bool
	logger   *log.Logger
}

// Result describes what Convert did for one package.
type Result struct {
	Package     string
	Strategy    Strategy
	Main        string // relative to the package directory
	ModuleID    string
	Munged      bool
	Destination string
	Global      string // Shim only
	Target      string // Adapter only
}

// New creates a Converter.
func New(cfg Config) *Converter {
	c := &Converter{
		resolver: cfg.Resolver,
		detector: cfg.Detector,
		writer:   cfg.Writer,
		prompter: cfg.Prompter,
		answers:  cfg.Answers,
		ignore:   make(map[string]bool),
		logger:   cfg.Logger,
	}
	if c.detector == nil {
		c.detector = FileDetector{}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.writer == nil {
		c.writer = output.NewWriter(output.WithLogger(c.logger))
	}
	if c.answers == nil {
		c.answers = cache.NewAnswers(nil, 0)
	}
	for _, name := range DefaultIgnore {
		c.ignore[name] = true
	}
	for _, name := range cfg.Ignore {
		c.ignore[name] = true
	}
	return c
}

// Ignores reports whether pkg is skipped by name.
func (c *Converter) Ignores(pkg *bower.Package) bool {
	return c.ignore[pkg.Name]
}

// Classify resolves the main file of pkg and chooses a strategy without
// writing anything. The returned main file is relative to the package
// directory and empty for ignored packages.
func (c *Converter) Classify(ctx context.Context, pkg *bower.Package) (Strategy, string, error) {
	if c.Ignores(pkg) {
		return Ignored, "", nil
	}

	main, err := c.resolver.Resolve(ctx, pkg)
	if err != nil {
		return Ignored, "", err
	}

	kind, err := c.detector.Module(mainPath(pkg, main))
	if err != nil {
		return Ignored, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "main file %s of %s", main, pkg.Name)
	}

	switch kind {
	case detect.NotAModule:
		return Shim, main, nil
	case detect.ModuleWithRelativeDeps:
		return Adapter, main, nil
	case detect.ModuleSelfContained:
		return Copy, main, nil
	default:
		return Ignored, "", errors.New(errors.ErrCodeInternal, "unknown module kind %d for %s", kind, pkg.Name)
	}
}

// Convert classifies pkg and writes its module. Ignored packages produce a
// Result with no destination.
func (c *Converter) Convert(ctx context.Context, pkg *bower.Package) (*Result, error) {
	strategy, main, err := c.Classify(ctx, pkg)
	if err != nil {
		return nil, err
	}

	res := &Result{Package: pkg.Name, Strategy: strategy, Main: main}
	if strategy == Ignored {
		c.logger.Debug("ignoring package", "package", pkg.Name)
		return res, nil
	}
	res.ModuleID, res.Munged = c.writer.ModuleID(pkg)

	src := mainPath(pkg, main)
	switch strategy {
	case Shim:
		c.logger.Info("creating shim module", "package", pkg.Name, "main", main)
		err = c.shim(ctx, pkg, src, res)
	case Adapter:
		c.logger.Info("creating adapter module", "package", pkg.Name, "main", main)
		err = c.adapter(ctx, pkg, res)
	case Copy:
		c.logger.Info("copying module", "package", pkg.Name, "main", main)
		res.Destination, err = c.writer.WriteFrom(ctx, pkg, src)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Converter) shim(ctx context.Context, pkg *bower.Package, src string, res *Result) error {
	if c.writer.DryRun() {
		dest, err := c.writer.Destination(pkg)
		res.Destination = dest
		return err
	}

	global, err := c.exportedGlobal(ctx, pkg, src, res.Main)
	if err != nil {
		return err
	}
	res.Global = global

	source, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src)
	}
	content, err := RenderShim(pkg.DependencyNames(), source, global)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render shim for %s", pkg.Name)
	}
	res.Destination, err = c.writer.Write(ctx, pkg, content)
	return err
}

func (c *Converter) adapter(ctx context.Context, pkg *bower.Package, res *Result) error {
	res.Target = AdapterTarget(pkg, res.Main)
	content, err := RenderAdapter(res.Target)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render adapter for %s", pkg.Name)
	}
	res.Destination, err = c.writer.Write(ctx, pkg, content)
	return err
}

// AdapterTarget is the module id of main as seen from the components
// directory: the package directory followed by the extensionless file.
func AdapterTarget(pkg *bower.Package, main string) string {
	dir := filepath.Base(filepath.Clean(pkg.CanonicalDir))
	return path.Join(dir, bower.ModuleID(main))
}

// exportedGlobal picks the global a shimmed file exports. A single
// candidate from the source that matches the package name wins; otherwise
// a remembered answer, otherwise the user is asked.
func (c *Converter) exportedGlobal(ctx context.Context, pkg *bower.Package, src, main string) (string, error) {
	name := bower.TrimScriptExt(pkg.Name)

	candidates, err := c.detector.Globals(src)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src)
	}
	if global, ok := matchGlobal(candidates, name); ok {
		c.logger.Debug("detected exported global", "package", pkg.Name, "global", global)
		return global, nil
	}

	if global, ok := c.answers.Global(ctx, pkg.CanonicalDir, main); ok {
		return global, nil
	}
	if c.prompter == nil {
		return "", errors.New(errors.ErrCodePromptFailed, "cannot determine the global exported by %s", pkg.Name)
	}

	answer, err := c.prompter.Prompt(ctx, fmt.Sprintf("> what global does %s export? (%s): ", pkg.Name, name))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePromptFailed, err, "global for %s", pkg.Name)
	}
	global := strings.TrimSpace(answer)
	if global == "" {
		global = name
	}
	if err := c.answers.SetGlobal(ctx, pkg.CanonicalDir, main, global); err != nil {
		c.logger.Debug("could not remember answer", "package", pkg.Name, "err", err)
	}
	return global, nil
}

// matchGlobal returns the candidate equal to name ignoring case, provided
// exactly one distinct candidate matches.
func matchGlobal(candidates iter.Seq[string], name string) (string, bool) {
	var match string
	seen := make(map[string]bool)
	for cand := range candidates {
		if seen[cand] || !strings.EqualFold(cand, name) {
			continue
		}
		seen[cand] = true
		if match != "" {
			return "", false
		}
		match = cand
	}
	return match, match != ""
}

func mainPath(pkg *bower.Package, main string) string {
	return filepath.Join(pkg.CanonicalDir, filepath.FromSlash(main))
}
