package convert

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	shimHeader = "// wrapped by bowerimport\n"
	shimFooter = "// exported by bowerimport\n"
)

// RenderShim wraps source in a define call depending on deps and
// returning global from the window object.
func RenderShim(deps []string, source []byte, global string) ([]byte, error) {
	list, err := idList(deps)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(source) + 128)
	buf.WriteString(shimHeader)
	buf.WriteString("define(" + list + ", function() {\n")
	buf.Write(source)
	buf.WriteString("\n\n")
	buf.WriteString(shimFooter)
	buf.WriteString("return window." + global + " = " + global + ";\n")
	buf.WriteString("})")
	return buf.Bytes(), nil
}

// RenderAdapter returns a module that requires target and re-exports it.
func RenderAdapter(target string) ([]byte, error) {
	list, err := idList([]string{target})
	if err != nil {
		return nil, err
	}
	return []byte("define(" + list + ", function(module) { return module; });"), nil
}

// idList encodes module ids as a JSON array without HTML escaping, so ids
// such as "a&b" are written literally.
func idList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ids); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
