// Package bower models the installed bower dependency tree.
//
// # Overview
//
// A [Package] is the resolved descriptor of one installed dependency: its
// declared name, its location on disk, the metadata from its bower.json
// (most importantly the "main" field) and its own resolved dependencies.
//
// Two [Lister] implementations produce the tree:
//
//   - [ExecLister] runs "bower list --json" and decodes the result
//   - [DirLister] reads bower.json and the components directory directly,
//     without needing the bower executable
//
// # Flattening
//
// [Flatten] turns the nested tree into a de-duplicated sequence keyed by
// package name. A name seen twice keeps the descriptor visited last, while
// its position in the sequence is that of its first appearance:
//
//	root, _ := bower.NewDirLister(".", "").List(ctx)
//	for _, pkg := range bower.Flatten(root.Dependencies) {
//	    fmt.Println(pkg.Name, pkg.CanonicalDir)
//	}
//
// Dependency maps are decoded in document order so that generated output is
// reproducible between runs.
package bower
