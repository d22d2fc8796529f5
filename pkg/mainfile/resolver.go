// Package mainfile determines which file of an installed package is its
// entry point.
//
// The [Resolver] tries, in order: the first entry of a list-valued "main",
// a string-valued "main", the "main" of the package's package.json, a file
// named like the package, a previously remembered answer, and finally an
// interactive prompt that repeats until an existing file is named. The
// result always carries the .js extension.
package mainfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/cache"
	"github.com/matzehuels/bowerimport/pkg/errors"
)

// Prompter asks a human for a line of input. It blocks until an answer is
// given; an empty answer is valid.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// Source names the step of the cascade that produced a main file.
type Source string

const (
	SourceMetaList    Source = "bower.json main[0]"
	SourceMeta        Source = "bower.json main"
	SourcePackageJSON Source = "package.json main"
	SourceFileName    Source = "file name"
	SourceAnswer      Source = "remembered answer"
	SourcePrompt      Source = "prompt"
	SourceMemo        Source = "memo"
)

// Resolver resolves main files and remembers them per package name for
// the lifetime of the resolver.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	prompter Prompter
	answers  *cache.Answers
	logger   *log.Logger
	memo     map[string]string
}

// NewResolver creates a resolver. A nil answers store disables persisted
// answers; a nil logger uses log.Default().
func NewResolver(p Prompter, answers *cache.Answers, logger *log.Logger) *Resolver {
	if answers == nil {
		answers = cache.NewAnswers(nil, 0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		prompter: p,
		answers:  answers,
		logger:   logger,
		memo:     make(map[string]string),
	}
}

// Resolve returns the main file of pkg, relative to pkg.CanonicalDir.
func (r *Resolver) Resolve(ctx context.Context, pkg *bower.Package) (string, error) {
	main, _, err := r.ResolveWithSource(ctx, pkg)
	return main, err
}

// ResolveWithSource is Resolve that also reports which step decided.
func (r *Resolver) ResolveWithSource(ctx context.Context, pkg *bower.Package) (string, Source, error) {
	if main, ok := r.memo[pkg.Name]; ok {
		return main, SourceMemo, nil
	}

	main, source, err := r.locate(ctx, pkg)
	if err != nil {
		return "", "", err
	}
	main = bower.WithScriptExt(main)

	r.logger.Debug("resolved main file", "package", pkg.Name, "main", main, "source", source)
	r.memo[pkg.Name] = main
	return main, source, nil
}

func (r *Resolver) locate(ctx context.Context, pkg *bower.Package) (string, Source, error) {
	if m := pkg.Meta.Main; !m.IsZero() && m.Paths[0] != "" {
		if m.List {
			return m.Paths[0], SourceMetaList, nil
		}
		return m.Paths[0], SourceMeta, nil
	}

	if main, ok := r.fromPackageJSON(pkg); ok {
		return main, SourcePackageJSON, nil
	}

	main, ok, err := fromFileName(pkg)
	if err != nil {
		return "", "", err
	}
	if ok {
		return main, SourceFileName, nil
	}

	if main, ok := r.answers.MainFile(ctx, pkg.CanonicalDir); ok && isFile(pkg.CanonicalDir, bower.WithScriptExt(main)) {
		return main, SourceAnswer, nil
	}

	main, err = r.prompt(ctx, pkg)
	if err != nil {
		return "", "", err
	}
	return main, SourcePrompt, nil
}

// fromPackageJSON reads the main of an npm manifest shipped alongside the
// bower one. A missing or malformed manifest is treated as absent.
func (r *Resolver) fromPackageJSON(pkg *bower.Package) (string, bool) {
	path := filepath.Join(pkg.CanonicalDir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var manifest struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		r.logger.Debug("ignoring unreadable package.json", "path", path, "err", err)
		return "", false
	}
	return manifest.Main, manifest.Main != ""
}

// fromFileName looks for a top-level file named after the package,
// comparing case-insensitively. A trailing .js on the package name is
// dropped first, so "jquery.js" matches jquery.js rather than jquery.js.js.
func fromFileName(pkg *bower.Package) (string, bool, error) {
	entries, err := os.ReadDir(pkg.CanonicalDir)
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodePackageNotFound, err, "read package directory of %s", pkg.Name)
	}

	want := bower.TrimScriptExt(pkg.Name) + bower.ScriptExt
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return e.Name(), true, nil
		}
	}
	return "", false, nil
}

// prompt asks until the answer names an existing file in the package.
func (r *Resolver) prompt(ctx context.Context, pkg *bower.Package) (string, error) {
	if r.prompter == nil {
		return "", errors.New(errors.ErrCodePromptFailed, "no main file detected for %s and no prompt available", pkg.Name)
	}

	msg := fmt.Sprintf("no main file detected for %s. Please specify the file to use:", pkg.Name)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		answer, err := r.prompter.Prompt(ctx, msg)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodePromptFailed, err, "main file for %s", pkg.Name)
		}
		answer = filepath.ToSlash(strings.TrimSpace(answer))

		if err := errors.ValidatePath(answer); err != nil {
			r.logger.Warn("invalid main file", "package", pkg.Name, "answer", answer, "reason", errors.UserMessage(err))
			continue
		}
		if !isFile(pkg.CanonicalDir, bower.WithScriptExt(answer)) {
			r.logger.Warn("file does not exist", "package", pkg.Name, "file", answer)
			continue
		}

		if err := r.answers.SetMainFile(ctx, pkg.CanonicalDir, answer); err != nil {
			r.logger.Debug("could not remember answer", "package", pkg.Name, "err", err)
		}
		return answer, nil
	}
}

func isFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	return err == nil && info.Mode().IsRegular()
}
