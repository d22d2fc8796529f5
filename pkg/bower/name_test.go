package bower

import "testing"

func TestScriptExt(t *testing.T) {
	tests := []struct {
		in       string
		has      bool
		trimmed  string
		withExt  string
		moduleID string
	}{
		{"index", false, "index", "index.js", "index"},
		{"index.js", true, "index", "index.js", "index"},
		{"Foo.JS", true, "Foo", "Foo.JS", "Foo"},
		{"jquery.js", true, "jquery", "jquery.js", "jquery"},
		{"dist/lib.min.js", true, "dist/lib.min", "dist/lib.min.js", "dist/lib.min"},
		{"./src/app.js", true, "./src/app", "./src/app.js", "src/app"},
		{"style.css", false, "style.css", "style.css.js", "style.css"},
		{"js", false, "js", "js.js", "js"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HasScriptExt(tt.in); got != tt.has {
				t.Errorf("HasScriptExt() = %v, want %v", got, tt.has)
			}
			if got := TrimScriptExt(tt.in); got != tt.trimmed {
				t.Errorf("TrimScriptExt() = %q, want %q", got, tt.trimmed)
			}
			if got := WithScriptExt(tt.in); got != tt.withExt {
				t.Errorf("WithScriptExt() = %q, want %q", got, tt.withExt)
			}
			if got := ModuleID(tt.in); got != tt.moduleID {
				t.Errorf("ModuleID() = %q, want %q", got, tt.moduleID)
			}
		})
	}
}
