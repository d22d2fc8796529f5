package bower

import (
	"path"
	"strings"
)

// ScriptExt is the extension of JavaScript files.
const ScriptExt = ".js"

// HasScriptExt reports whether name ends in ScriptExt, ignoring case.
func HasScriptExt(name string) bool {
	return len(name) >= len(ScriptExt) && strings.EqualFold(name[len(name)-len(ScriptExt):], ScriptExt)
}

// TrimScriptExt removes one trailing ScriptExt, ignoring case.
func TrimScriptExt(name string) string {
	if HasScriptExt(name) {
		return name[:len(name)-len(ScriptExt)]
	}
	return name
}

// WithScriptExt appends ScriptExt unless name already has it.
func WithScriptExt(name string) string {
	if HasScriptExt(name) {
		return name
	}
	return name + ScriptExt
}

// ModuleID returns the slash-separated module id of a file inside a
// package, without its script extension.
func ModuleID(file string) string {
	id := path.Clean(strings.ReplaceAll(file, "\\", "/"))
	return strings.TrimPrefix(TrimScriptExt(id), "./")
}
