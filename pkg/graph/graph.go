// Package graph renders the flattened dependency set of a project as a
// node-link diagram.
//
// Nodes are packages, coloured by the conversion strategy chosen for them;
// edges point from a package to each of its bower dependencies. The graph
// serializes to JSON or Graphviz DOT, and DOT renders to SVG.
//
//	g := graph.FromPackages(root.Name, root.DependencyNames(), pkgs, summary.Strategies())
//	fmt.Print(graph.ToDOT(g))
package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/convert"
)

// Graph is the node-link form of a project.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one package, or the project itself.
type Node struct {
	ID       string `json:"id"`
	Version  string `json:"version,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
	Project  bool   `json:"project,omitempty"`
}

// Edge is a dependency of From on To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromPackages builds the graph of a project named project whose direct
// dependencies are roots. pkgs is the flattened collection; strategies may
// be nil or partial.
func FromPackages(project string, roots []string, pkgs []*bower.Package, strategies map[string]convert.Strategy) *Graph {
	g := &Graph{}
	g.Nodes = append(g.Nodes, Node{ID: project, Project: true})
	for _, dep := range roots {
		g.Edges = append(g.Edges, Edge{From: project, To: dep})
	}

	for _, pkg := range pkgs {
		n := Node{ID: pkg.Name, Version: pkg.Meta.Version, Missing: pkg.Missing}
		if s, ok := strategies[pkg.Name]; ok {
			n.Strategy = s.String()
		}
		g.Nodes = append(g.Nodes, n)
		for _, dep := range pkg.DependencyNames() {
			g.Edges = append(g.Edges, Edge{From: pkg.Name, To: dep})
		}
	}
	return g
}

// WriteJSON encodes g as indented JSON.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
