package detect

import (
	"iter"
	"os"

	"github.com/robertkrimen/otto/ast"
)

// globalObjects are identifiers that name the global object in browser
// code and in UMD wrappers.
var globalObjects = map[string]bool{
	"window":     true,
	"global":     true,
	"globalThis": true,
	"self":       true,
	"root":       true,
}

// Globals reads the file at path and returns the candidate global names it
// appears to export, in source order. Names may repeat.
func Globals(path string) (iter.Seq[string], error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return GlobalsSource(src), nil
}

// GlobalsSource scans source text for candidate global names:
// members of the global object (window.Foo, root["Foo"]), top-level var
// and function declarations, and assignments to bare identifiers.
func GlobalsSource(src []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		program, err := parse(src)
		if err != nil {
			for _, name := range lexicalGlobals(src) {
				if !yield(name) {
					return
				}
			}
			return
		}

		v := &globalVisitor{yield: yield}
		for _, stmt := range program.Body {
			v.topLevel(stmt)
		}
		if !v.stopped {
			ast.Walk(v, program)
		}
	}
}

type globalVisitor struct {
	yield   func(string) bool
	stopped bool
}

func (v *globalVisitor) emit(name string) {
	if v.stopped || name == "" {
		return
	}
	if !v.yield(name) {
		v.stopped = true
	}
}

// topLevel emits declarations made directly in the program scope, which
// become properties of the global object in a classic script.
func (v *globalVisitor) topLevel(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableStatement:
		for _, e := range s.List {
			if ve, ok := e.(*ast.VariableExpression); ok {
				v.emit(ve.Name)
			}
		}
	case *ast.FunctionStatement:
		if s.Function != nil && s.Function.Name != nil {
			v.emit(s.Function.Name.Name)
		}
	}
}

func (v *globalVisitor) Enter(n ast.Node) ast.Visitor {
	if v.stopped {
		return nil
	}
	switch e := n.(type) {
	case *ast.DotExpression:
		if id, ok := e.Left.(*ast.Identifier); ok && globalObjects[id.Name] {
			v.emit(e.Identifier.Name)
		}
	case *ast.BracketExpression:
		if id, ok := e.Left.(*ast.Identifier); ok && globalObjects[id.Name] {
			if s, ok := e.Member.(*ast.StringLiteral); ok {
				v.emit(s.Value)
			}
		}
	case *ast.AssignExpression:
		if id, ok := e.Left.(*ast.Identifier); ok {
			v.emit(id.Name)
		}
	}
	return v
}

func (v *globalVisitor) Exit(ast.Node) {}
