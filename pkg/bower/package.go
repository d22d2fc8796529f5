package bower

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Endpoint is the request a package was installed from.
type Endpoint struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Main is the "main" field of a bower.json. It is either absent, a single
// path, or an ordered list of candidate paths.
type Main struct {
	Paths []string // Declared paths in order
	List  bool     // Whether the field was declared as an array
}

// SingleMain returns a Main declared as a single path.
func SingleMain(path string) Main {
	if path == "" {
		return Main{}
	}
	return Main{Paths: []string{path}}
}

// ListMain returns a Main declared as an array of paths.
func ListMain(paths ...string) Main {
	return Main{Paths: paths, List: true}
}

// IsZero reports whether no main file was declared.
func (m Main) IsZero() bool { return len(m.Paths) == 0 }

// UnmarshalJSON accepts a string, an array of strings, or null.
func (m *Main) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Main{}
		return nil
	}
	if data[0] == '[' {
		var paths []string
		if err := json.Unmarshal(data, &paths); err != nil {
			return fmt.Errorf("main: %w", err)
		}
		*m = ListMain(paths...)
		return nil
	}
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		return fmt.Errorf("main: %w", err)
	}
	*m = SingleMain(path)
	return nil
}

// MarshalJSON writes the field back in the shape it was declared in.
func (m Main) MarshalJSON() ([]byte, error) {
	switch {
	case m.List:
		return json.Marshal(m.Paths)
	case len(m.Paths) == 0:
		return []byte("null"), nil
	default:
		return json.Marshal(m.Paths[0])
	}
}

// Meta holds the declared metadata of a package (its bower.json).
type Meta struct {
	Name         string
	Version      string
	Main         Main
	Dependencies []string // Declared dependency names in document order
}

type metaFile struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Main         Main            `json:"main"`
	Dependencies json.RawMessage `json:"dependencies"`
}

// UnmarshalJSON decodes a bower.json, keeping dependency order.
func (m *Meta) UnmarshalJSON(data []byte) error {
	var f metaFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var names []string
	err := eachMember(f.Dependencies, func(key string, _ json.RawMessage) error {
		names = append(names, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("dependencies: %w", err)
	}
	*m = Meta{Name: f.Name, Version: f.Version, Main: f.Main, Dependencies: names}
	return nil
}

// Package is the resolved descriptor of one installed dependency.
type Package struct {
	Name         string     // Name as declared to bower
	Endpoint     Endpoint   // Install request
	CanonicalDir string     // Absolute install directory
	Meta         Meta       // Declared metadata (pkgMeta)
	Dependencies []*Package // Resolved dependencies in declaration order
	Missing      bool       // Declared but not installed
}

type packageNode struct {
	Endpoint     Endpoint        `json:"endpoint"`
	CanonicalDir string          `json:"canonicalDir"`
	Meta         Meta            `json:"pkgMeta"`
	Dependencies json.RawMessage `json:"dependencies"`
	Missing      bool            `json:"missing"`
}

// UnmarshalJSON decodes one node of "bower list --json" output. Nested
// dependencies are named after their key in the parent's dependency map.
func (p *Package) UnmarshalJSON(data []byte) error {
	var n packageNode
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Package{
		Name:         n.Endpoint.Name,
		Endpoint:     n.Endpoint,
		CanonicalDir: n.CanonicalDir,
		Meta:         n.Meta,
		Missing:      n.Missing,
	}
	if p.Name == "" {
		p.Name = n.Meta.Name
	}
	return eachMember(n.Dependencies, func(key string, value json.RawMessage) error {
		var dep Package
		if err := json.Unmarshal(value, &dep); err != nil {
			return fmt.Errorf("dependency %s: %w", key, err)
		}
		dep.Name = key
		p.Dependencies = append(p.Dependencies, &dep)
		return nil
	})
}

// DependencyNames returns the names of the resolved dependencies in order.
// The result is never nil.
func (p *Package) DependencyNames() []string {
	names := make([]string, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		names = append(names, d.Name)
	}
	return names
}

// eachMember calls fn for every member of the JSON object in raw, in
// document order. An empty or null raw value has no members.
func eachMember(raw json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
