package bower

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/bowerimport/pkg/errors"
)

const (
	// DefaultComponentsDir is where bower installs packages unless .bowerrc
	// says otherwise.
	DefaultComponentsDir = "bower_components"

	manifestFile  = "bower.json"
	installedFile = ".bower.json"
	rcFile        = ".bowerrc"
)

// DirLister lists dependencies by reading bower.json and the components
// directory, without running bower.
type DirLister struct {
	ProjectDir string // directory holding bower.json
	Components string // components directory; empty means .bowerrc or the default
}

// NewDirLister creates a lister for the project in dir.
func NewDirLister(dir, components string) *DirLister {
	return &DirLister{ProjectDir: dir, Components: components}
}

// List reads the project manifest and resolves every declared dependency
// inside the components directory. Dependencies that are not installed are
// returned with Missing set.
func (l *DirLister) List(ctx context.Context) (*Package, error) {
	projectDir, err := filepath.Abs(l.ProjectDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "project directory %s", l.ProjectDir)
	}

	meta, ok, err := readMeta(projectDir, manifestFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no %s in %s", manifestFile, projectDir)
	}

	components := l.Components
	if components == "" {
		if components, err = ComponentsDir(projectDir); err != nil {
			return nil, err
		}
	}
	if !filepath.IsAbs(components) {
		components = filepath.Join(projectDir, components)
	}

	name := meta.Name
	if name == "" {
		name = filepath.Base(projectDir)
	}
	root := &Package{Name: name, CanonicalDir: projectDir, Meta: meta}

	installed := make(map[string]*Package)
	queue := []*Package{root}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg := queue[0]
		queue = queue[1:]

		for _, dep := range pkg.Meta.Dependencies {
			child, seen := installed[dep]
			if !seen {
				// Dependency names become paths under the components directory.
				if err := errors.ValidateBowerPackageName(dep); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency of %s", pkg.Name)
				}
				if child, err = loadInstalled(components, dep); err != nil {
					return nil, err
				}
				installed[dep] = child
				queue = append(queue, child)
			}
			pkg.Dependencies = append(pkg.Dependencies, child)
		}
	}

	return root, nil
}

// ComponentsDir returns the components directory configured for the
// project in dir: the "directory" key of .bowerrc, or the default.
func ComponentsDir(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, rcFile))
	if os.IsNotExist(err) {
		return DefaultComponentsDir, nil
	}
	if err != nil {
		return "", err
	}

	var rc struct {
		Directory string `json:"directory"`
	}
	if err := json.Unmarshal(data, &rc); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Join(dir, rcFile))
	}
	if rc.Directory == "" {
		return DefaultComponentsDir, nil
	}
	return rc.Directory, nil
}

// LoadPackage reads the installed package in dir. Its dependencies are
// named but not resolved.
func LoadPackage(dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "package directory %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePackageNotFound, err, "package directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "%s is not a directory", dir)
	}

	meta, err := readInstalledMeta(abs)
	if err != nil {
		return nil, err
	}

	name := meta.Name
	if name == "" {
		name = filepath.Base(abs)
	}
	if err := errors.ValidateBowerPackageName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "package directory %s", dir)
	}
	pkg := &Package{Name: name, Endpoint: Endpoint{Name: name}, CanonicalDir: abs, Meta: meta}
	for _, dep := range meta.Dependencies {
		if err := errors.ValidateBowerPackageName(dep); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency of %s", name)
		}
		pkg.Dependencies = append(pkg.Dependencies, &Package{Name: dep})
	}
	return pkg, nil
}

func loadInstalled(components, name string) (*Package, error) {
	dir := filepath.Join(components, name)
	pkg := &Package{Name: name, Endpoint: Endpoint{Name: name}}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		pkg.Missing = true
		return pkg, nil
	}

	meta, err := readInstalledMeta(dir)
	if err != nil {
		return nil, err
	}
	pkg.CanonicalDir = dir
	pkg.Meta = meta
	return pkg, nil
}

// readInstalledMeta prefers the .bower.json bower writes on install over
// the package's own bower.json. A package with neither has empty metadata.
func readInstalledMeta(dir string) (Meta, error) {
	for _, name := range []string{installedFile, manifestFile} {
		meta, ok, err := readMeta(dir, name)
		if err != nil || ok {
			return meta, err
		}
	}
	return Meta{}, nil
}

func readMeta(dir, name string) (Meta, bool, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Meta{}, false, nil
	}
	if err != nil {
		return Meta{}, false, err
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, false, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return meta, true, nil
}

var _ Lister = (*DirLister)(nil)
