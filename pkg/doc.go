// Package pkg provides the libraries behind bowerimport, which turns
// installed bower packages into AMD modules.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [bower] - Package descriptors, listing the installed tree, flattening
//  2. [mainfile] - Locating a package's entry point
//  3. [detect] - Classifying JavaScript sources and finding exported globals
//  4. [convert] - Choosing Shim, Adapter or Copy and rendering the module
//  5. [output] - Writing modules next to the installed packages
//  6. [pipeline] - Orchestration (list → flatten → convert)
//
// Supporting packages: [config] (bowerimport.toml), [cache] (remembered
// prompt answers), [graph] (DOT/SVG/JSON views), [observability] (hooks),
// [errors] (error codes) and [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	bower list --json / bower.json
//	         ↓
//	    [bower] package (tree → flattened collection)
//	         ↓
//	    [convert] package (main file + module kind → strategy)
//	         ↓
//	    [output] package (<components>/<name>.js)
//
// # Quick Start
//
//	logger := log.Default()
//	resolver := mainfile.NewResolver(prompter, nil, logger)
//	conv := convert.New(convert.Config{Resolver: resolver, Prompter: prompter, Logger: logger})
//	runner := pipeline.NewRunner(bower.NewDirLister(".", ""), conv, logger)
//	summary, err := runner.Run(ctx)
package pkg
