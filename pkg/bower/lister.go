package bower

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bowerimport/pkg/errors"
)

// Lister queries the dependency manager for the installed dependency tree.
type Lister interface {
	// List returns the project's root package; its Dependencies hold the
	// installed tree.
	List(ctx context.Context) (*Package, error)
}

// ExecLister lists dependencies by running "bower list --json".
type ExecLister struct {
	Bower   string // bower executable (default "bower")
	Dir     string // project directory
	Offline bool   // pass --offline
}

// NewExecLister creates a lister for the project in dir.
func NewExecLister(bower, dir string, offline bool) *ExecLister {
	if bower == "" {
		bower = "bower"
	}
	return &ExecLister{Bower: bower, Dir: dir, Offline: offline}
}

// List runs bower and decodes its JSON tree.
func (l *ExecLister) List(ctx context.Context) (*Package, error) {
	args := []string{"list", "--json"}
	if l.Offline {
		args = append(args, "--offline")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.Bower, args...)
	cmd.Dir = l.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.Join(append([]string{l.Bower}, args...), " ")
		}
		return nil, errors.Wrap(errors.ErrCodeListFailed, err, "%s", msg)
	}

	root, err := ParseTree(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	if root.CanonicalDir == "" && l.Dir != "" {
		if abs, err := filepath.Abs(l.Dir); err == nil {
			root.CanonicalDir = abs
		}
	}
	return root, nil
}

// ParseTree decodes the output of "bower list --json".
func ParseTree(data []byte) (*Package, error) {
	var root Package
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode bower list output")
	}
	return &root, nil
}

var _ Lister = (*ExecLister)(nil)
