// Package output persists converted modules next to the installed packages.
//
// A package installed at bower_components/jquery is written to
// bower_components/jquery.js, where an AMD loader configured with
// baseUrl bower_components finds it as module "jquery". Package names that
// already end in .js would produce a confusing jquery.js.js, so they are
// munged to a loader-friendly identifier instead (see [Writer.ModuleID]).
package output

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/errors"
)

// DefaultMungeSuffix replaces a trailing .js in a package name.
const DefaultMungeSuffix = "-js"

// Writer computes destinations and writes module files.
type Writer struct {
	suffix string
	dryRun bool
	logger *log.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithMungeSuffix sets the replacement for a trailing .js in package names.
func WithMungeSuffix(s string) Option {
	return func(w *Writer) {
		if s != "" {
			w.suffix = s
		}
	}
}

// WithDryRun makes Write and WriteFrom report destinations without touching
// the filesystem.
func WithDryRun(dry bool) Option {
	return func(w *Writer) { w.dryRun = dry }
}

// WithLogger sets the logger used for munging warnings.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{suffix: DefaultMungeSuffix, logger: log.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DryRun reports whether writes are suppressed.
func (w *Writer) DryRun() bool { return w.dryRun }

// HasReservedName reports whether the package name already ends in the
// script extension and therefore needs a munged module identifier.
func HasReservedName(name string) bool {
	return bower.HasScriptExt(name)
}

// ModuleID returns the identifier downstream code uses to load pkg.
// The second result is true when the identifier differs from the package
// name.
func (w *Writer) ModuleID(pkg *bower.Package) (string, bool) {
	if HasReservedName(pkg.Name) {
		return bower.TrimScriptExt(pkg.Name) + w.suffix, true
	}
	return pkg.Name, false
}

// Destination returns the path the module for pkg is written to.
func (w *Writer) Destination(pkg *bower.Package) (string, error) {
	if err := errors.ValidatePackageName(pkg.Name); err != nil {
		return "", err
	}
	if pkg.CanonicalDir == "" {
		return "", errors.New(errors.ErrCodeInvalidPackage, "package %s has no install directory", pkg.Name)
	}
	id, _ := w.ModuleID(pkg)
	return filepath.Join(filepath.Dir(filepath.Clean(pkg.CanonicalDir)), id+bower.ScriptExt), nil
}

// Write creates or overwrites the module file for pkg with content and
// returns its path.
func (w *Writer) Write(ctx context.Context, pkg *bower.Package, content []byte) (string, error) {
	return w.write(ctx, pkg, func(f io.Writer) error {
		_, err := f.Write(content)
		return err
	})
}

// WriteFrom streams the file at src into the module file for pkg.
func (w *Writer) WriteFrom(ctx context.Context, pkg *bower.Package, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", src)
	}
	defer in.Close()

	return w.write(ctx, pkg, func(f io.Writer) error {
		_, err := io.Copy(f, in)
		return err
	})
}

func (w *Writer) write(ctx context.Context, pkg *bower.Package, fill func(io.Writer) error) (string, error) {
	dest, err := w.Destination(pkg)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if id, munged := w.ModuleID(pkg); munged {
		w.logger.Warn("package name ends in .js; load it by the adjusted module id",
			"package", pkg.Name, "module", id)
	}
	if w.dryRun {
		return dest, nil
	}

	if err := writeAtomic(dest, fill); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", dest)
	}
	return dest, nil
}

// writeAtomic fills a uniquely named sibling file and renames it over dest,
// so an interrupted run never leaves a truncated module behind.
func writeAtomic(dest string, fill func(io.Writer) error) error {
	tmp := dest + "." + uuid.NewString() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
