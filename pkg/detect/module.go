package detect

import (
	"os"
	"strings"

	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/parser"
)

// Kind classifies a source file against the AMD module format.
type Kind int

const (
	// NotAModule means the file never calls define.
	NotAModule Kind = iota
	// ModuleWithRelativeDeps means the file calls define and depends on
	// relative ids.
	ModuleWithRelativeDeps
	// ModuleSelfContained means the file calls define with no relative ids.
	ModuleSelfContained
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case NotAModule:
		return "not-a-module"
	case ModuleWithRelativeDeps:
		return "module-with-relative-deps"
	case ModuleSelfContained:
		return "module-self-contained"
	default:
		return "unknown"
	}
}

// IsModule reports whether the file declares an AMD module.
func (k Kind) IsModule() bool { return k != NotAModule }

// Module reads the file at path and classifies it.
func Module(path string) (Kind, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return NotAModule, err
	}
	return ModuleSource(src), nil
}

// ModuleSource classifies JavaScript source text.
func ModuleSource(src []byte) Kind {
	program, err := parse(src)
	if err != nil {
		return lexicalModule(src)
	}

	v := &defineVisitor{}
	ast.Walk(v, program)
	switch {
	case !v.found:
		return NotAModule
	case v.relative:
		return ModuleWithRelativeDeps
	default:
		return ModuleSelfContained
	}
}

func parse(src []byte) (*ast.Program, error) {
	return parser.ParseFile(nil, "", src, parser.IgnoreRegExpErrors)
}

// defineVisitor looks for calls to define and inspects their dependency
// array and, for the sugared form, the require calls in the factory.
type defineVisitor struct {
	found    bool
	relative bool
}

func (v *defineVisitor) Enter(n ast.Node) ast.Visitor {
	call, ok := n.(*ast.CallExpression)
	if !ok || !isIdentifier(call.Callee, "define") {
		return v
	}

	v.found = true
	for _, arg := range call.ArgumentList {
		switch a := arg.(type) {
		case *ast.ArrayLiteral:
			for _, el := range a.Value {
				if s, ok := el.(*ast.StringLiteral); ok && isRelative(s.Value) {
					v.relative = true
				}
			}
		case *ast.FunctionLiteral:
			r := &requireVisitor{}
			ast.Walk(r, a)
			if r.relative {
				v.relative = true
			}
		}
	}
	return v
}

func (v *defineVisitor) Exit(ast.Node) {}

// requireVisitor finds require("./x") calls with relative ids.
type requireVisitor struct {
	relative bool
}

func (r *requireVisitor) Enter(n ast.Node) ast.Visitor {
	if r.relative {
		return nil
	}
	call, ok := n.(*ast.CallExpression)
	if !ok || !isIdentifier(call.Callee, "require") || len(call.ArgumentList) != 1 {
		return r
	}
	if s, ok := call.ArgumentList[0].(*ast.StringLiteral); ok && isRelative(s.Value) {
		r.relative = true
	}
	return r
}

func (r *requireVisitor) Exit(ast.Node) {}

func isIdentifier(e ast.Expression, name string) bool {
	id, ok := e.(*ast.Identifier)
	return ok && id.Name == name
}

// isRelative reports whether a module id is resolved against the
// requiring module's location.
func isRelative(id string) bool {
	return id == "." || id == ".." || strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../")
}
