package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/convert"
	"github.com/matzehuels/bowerimport/pkg/errors"
	"github.com/matzehuels/bowerimport/pkg/mainfile"
	"github.com/matzehuels/bowerimport/pkg/observability"
	"github.com/matzehuels/bowerimport/pkg/output"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// project lays out a bower project with one package per strategy, the
// loader itself and a dependency that was never installed.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	comp := filepath.Join(dir, "bower_components")

	writeFile(t, filepath.Join(dir, "bower.json"),
		`{"name": "app", "dependencies": {"widget": "~1", "requirejs": "2", "ghost": "*", "lodash": "4"}}`)

	writeFile(t, filepath.Join(comp, "widget", ".bower.json"),
		`{"name": "widget", "main": "src/widget.js", "dependencies": {"jquery": "3"}}`)
	writeFile(t, filepath.Join(comp, "widget", "src", "widget.js"),
		"define(['./core'], function(core) { return core; });\n")

	writeFile(t, filepath.Join(comp, "jquery", "bower.json"), `{"name": "jquery"}`)
	writeFile(t, filepath.Join(comp, "jquery", "jquery.js"), "var jQuery = function() {};\n")

	writeFile(t, filepath.Join(comp, "requirejs", ".bower.json"), `{"name": "requirejs", "main": "require.js"}`)
	writeFile(t, filepath.Join(comp, "requirejs", "require.js"), "var requirejs, require, define;\n")

	writeFile(t, filepath.Join(comp, "lodash", ".bower.json"), `{"name": "lodash", "main": ["lodash.js", "lodash.min.js"]}`)
	writeFile(t, filepath.Join(comp, "lodash", "lodash.js"), "define([], function() { return {}; });\n")
	return dir
}

func newRunner(dir string, logger *log.Logger) *Runner {
	resolver := mainfile.NewResolver(nil, nil, logger)
	conv := convert.New(convert.Config{
		Resolver: resolver,
		Writer:   output.NewWriter(output.WithLogger(logger)),
		Logger:   logger,
	})
	return NewRunner(bower.NewDirLister(dir, ""), conv, logger)
}

func quiet() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

func TestRun(t *testing.T) {
	dir := project(t)
	var logs bytes.Buffer
	summary, err := newRunner(dir, log.New(&logs)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var order []string
	for _, r := range summary.Results {
		order = append(order, r.Package)
	}
	if want := []string{"widget", "jquery", "requirejs", "lodash"}; !slices.Equal(order, want) {
		t.Errorf("processing order = %v, want %v", order, want)
	}

	strategies := summary.Strategies()
	for name, want := range map[string]convert.Strategy{
		"widget":    convert.Adapter,
		"jquery":    convert.Shim,
		"requirejs": convert.Ignored,
		"lodash":    convert.Copy,
	} {
		if strategies[name] != want {
			t.Errorf("strategy[%s] = %s, want %s", name, strategies[name], want)
		}
	}
	if summary.Count(convert.Shim) != 1 || summary.Count(convert.Ignored) != 1 {
		t.Errorf("counts: shim=%d ignored=%d", summary.Count(convert.Shim), summary.Count(convert.Ignored))
	}
	if !slices.Equal(summary.Missing, []string{"ghost"}) {
		t.Errorf("Missing = %v, want [ghost]", summary.Missing)
	}
	if !bytes.Contains(logs.Bytes(), []byte("ghost")) {
		t.Error("missing package was not reported")
	}

	comp := filepath.Join(dir, "bower_components")
	for _, name := range []string{"widget.js", "jquery.js", "lodash.js"} {
		if _, err := os.Stat(filepath.Join(comp, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(comp, "requirejs.js")); !os.IsNotExist(err) {
		t.Error("requirejs must not be converted")
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := project(t)
	comp := filepath.Join(dir, "bower_components")
	outputs := []string{"widget.js", "jquery.js", "lodash.js"}

	snapshot := func() map[string][]byte {
		m := make(map[string][]byte)
		for _, name := range outputs {
			data, err := os.ReadFile(filepath.Join(comp, name))
			if err != nil {
				t.Fatal(err)
			}
			m[name] = data
		}
		return m
	}

	if _, err := newRunner(dir, quiet()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := snapshot()
	if _, err := newRunner(dir, quiet()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := snapshot()

	for _, name := range outputs {
		if !bytes.Equal(first[name], second[name]) {
			t.Errorf("%s changed between runs", name)
		}
	}
}

func TestRunFailFast(t *testing.T) {
	dir := project(t)
	// widget's main file disappears after install.
	if err := os.Remove(filepath.Join(dir, "bower_components", "widget", "src", "widget.js")); err != nil {
		t.Fatal(err)
	}

	summary, err := newRunner(dir, quiet()).Run(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("Run() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
	if len(summary.Results) != 0 {
		t.Errorf("packages after the failure were processed: %d results", len(summary.Results))
	}
	if _, err := os.Stat(filepath.Join(dir, "bower_components", "jquery.js")); !os.IsNotExist(err) {
		t.Error("run continued after the first failure")
	}
}

func TestRunListError(t *testing.T) {
	_, err := newRunner(t.TempDir(), quiet()).Run(context.Background())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Run() error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnListComplete(_ context.Context, lister string, n int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "list:"+lister)
}

func (h *recordingHooks) OnConvertComplete(_ context.Context, pkg, strategy string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, pkg+":"+strategy)
}

func TestRunHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	if _, err := newRunner(project(t), quiet()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"list:dir", "widget:adapter", "jquery:shim", "requirejs:ignored", "lodash:copy"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestSummaryMunged(t *testing.T) {
	s := &Summary{Results: []*convert.Result{
		{Package: "a", Strategy: convert.Shim},
		{Package: "b.js", Strategy: convert.Copy, Munged: true, ModuleID: "b-js"},
	}}
	munged := s.Munged()
	if len(munged) != 1 || munged[0].ModuleID != "b-js" {
		t.Errorf("Munged() = %+v", munged)
	}
}
