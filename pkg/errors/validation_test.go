package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "jquery", false},
		{"valid with dash", "my-package", false},
		{"valid with underscore", "my_package", false},
		{"valid with dot", "jquery.js", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBowerPackageName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"jquery", false},
		{"jquery.js", false},
		{"backbone-relational", false},
		{"Modernizr", false},
		{"-leading-dash", true},
		{".hidden", true},
		{"with space", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateBowerPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBowerPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPackage {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "jquery.js", false},
		{"nested file", "dist/jquery.min.js", false},
		{"double dot in name", "dist/jquery..min.js", false},
		{"dotted directory", "lib/..hidden/index.js", false},
		{"traversal that stays inside", "src/../dist/index.js", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../other/index.js", true},
		{"nested traversal", "a/../../x.js", true},
		{"bare parent", "..", true},
		{"backslash", "dist\\index.js", true},
		{"control char", "index\x07.js", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
