package mainfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/cache"
	"github.com/matzehuels/bowerimport/pkg/errors"
)

// scripted answers prompts from a fixed list and fails with io.EOF when it
// runs out.
type scripted struct {
	answers []string
	asked   []string
}

func (s *scripted) Prompt(_ context.Context, message string) (string, error) {
	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func makePackage(t *testing.T, name string, meta bower.Meta, files map[string]string) *bower.Package {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return &bower.Package{Name: name, CanonicalDir: dir, Meta: meta}
}

func TestResolveCascade(t *testing.T) {
	tests := []struct {
		name       string
		pkgName    string
		meta       bower.Meta
		files      map[string]string
		want       string
		wantSource Source
	}{
		{
			name:       "list takes first entry",
			pkgName:    "lib",
			meta:       bower.Meta{Main: bower.ListMain("a.js", "b.js")},
			want:       "a.js",
			wantSource: SourceMetaList,
		},
		{
			name:       "single string",
			pkgName:    "lib",
			meta:       bower.Meta{Main: bower.SingleMain("dist/lib.js")},
			want:       "dist/lib.js",
			wantSource: SourceMeta,
		},
		{
			name:       "missing extension is appended",
			pkgName:    "lib",
			meta:       bower.Meta{Main: bower.SingleMain("index")},
			want:       "index.js",
			wantSource: SourceMeta,
		},
		{
			name:       "package.json main",
			pkgName:    "lib",
			files:      map[string]string{"package.json": `{"main": "./lib/index"}`, "lib.js": ""},
			want:       "./lib/index.js",
			wantSource: SourcePackageJSON,
		},
		{
			name:       "malformed package.json falls through",
			pkgName:    "foo",
			files:      map[string]string{"package.json": `{"main": `, "Foo.JS": ""},
			want:       "Foo.JS",
			wantSource: SourceFileName,
		},
		{
			name:       "case-insensitive file name",
			pkgName:    "foo",
			files:      map[string]string{"Foo.JS": "", "other.js": ""},
			want:       "Foo.JS",
			wantSource: SourceFileName,
		},
		{
			name:       "package name ending in .js",
			pkgName:    "jquery.js",
			files:      map[string]string{"jquery.js": ""},
			want:       "jquery.js",
			wantSource: SourceFileName,
		},
		{
			name:       "empty package.json main is ignored",
			pkgName:    "bar",
			files:      map[string]string{"package.json": `{"main": ""}`, "bar.js": ""},
			want:       "bar.js",
			wantSource: SourceFileName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := makePackage(t, tt.pkgName, tt.meta, tt.files)
			p := &scripted{}
			r := NewResolver(p, nil, quietLogger())

			got, source, err := r.ResolveWithSource(context.Background(), pkg)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
			if len(p.asked) != 0 {
				t.Errorf("prompted %d times, want 0", len(p.asked))
			}
		})
	}
}

func TestResolvePromptLoop(t *testing.T) {
	pkg := makePackage(t, "widget", bower.Meta{}, map[string]string{"src/widget-core.js": ""})
	p := &scripted{answers: []string{"missing.js", "../escape.js", "", "src/widget-core"}}
	r := NewResolver(p, nil, quietLogger())

	got, err := r.Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "src/widget-core.js" {
		t.Errorf("Resolve() = %q, want src/widget-core.js", got)
	}
	if len(p.asked) != 4 {
		t.Errorf("prompted %d times, want 4", len(p.asked))
	}

	// Second lookup is memoized.
	again, source, err := r.ResolveWithSource(context.Background(), pkg)
	if err != nil || again != got || source != SourceMemo {
		t.Errorf("second Resolve() = %q, %q, %v; want memoized %q", again, source, err, got)
	}
	if len(p.asked) != 4 {
		t.Errorf("memoized lookup prompted again (%d prompts)", len(p.asked))
	}
}

func TestResolvePromptAcceptsDotsInFileName(t *testing.T) {
	pkg := makePackage(t, "jquery", bower.Meta{}, map[string]string{"dist/jquery..min.js": ""})
	p := &scripted{answers: []string{"dist/../../jquery.js", "dist/jquery..min.js"}}

	got, err := NewResolver(p, nil, quietLogger()).Resolve(context.Background(), pkg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "dist/jquery..min.js" {
		t.Errorf("Resolve() = %q, want dist/jquery..min.js", got)
	}
	if len(p.asked) != 2 {
		t.Errorf("prompted %d times, want 2", len(p.asked))
	}
}

func TestResolveRemembersAnswers(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	answers := cache.NewAnswers(fc, 0)
	pkg := makePackage(t, "widget", bower.Meta{}, map[string]string{"widget.min.js": ""})

	first := &scripted{answers: []string{"widget.min.js"}}
	if _, err := NewResolver(first, answers, quietLogger()).Resolve(ctx, pkg); err != nil {
		t.Fatal(err)
	}

	second := &scripted{}
	got, source, err := NewResolver(second, answers, quietLogger()).ResolveWithSource(ctx, pkg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "widget.min.js" || source != SourceAnswer {
		t.Errorf("Resolve() = %q from %q, want widget.min.js from %q", got, source, SourceAnswer)
	}
	if len(second.asked) != 0 {
		t.Error("remembered answer should not prompt")
	}
}

func TestResolvePromptClosed(t *testing.T) {
	pkg := makePackage(t, "widget", bower.Meta{}, nil)
	_, err := NewResolver(&scripted{}, nil, quietLogger()).Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodePromptFailed) {
		t.Errorf("Resolve() error = %v, want %s", err, errors.ErrCodePromptFailed)
	}
}

func TestResolveNoPrompter(t *testing.T) {
	pkg := makePackage(t, "widget", bower.Meta{}, nil)
	_, err := NewResolver(nil, nil, quietLogger()).Resolve(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodePromptFailed) {
		t.Errorf("Resolve() error = %v, want %s", err, errors.ErrCodePromptFailed)
	}
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pkg := makePackage(t, "widget", bower.Meta{}, nil)
	p := &scripted{answers: []string{"x.js"}}
	if _, err := NewResolver(p, nil, quietLogger()).Resolve(ctx, pkg); err != context.Canceled {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}
