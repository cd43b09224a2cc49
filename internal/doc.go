// Package internal runs parsed formulas through pipelines of rewrites.
//
// Key components:
//
// Engine: parses each formula of a source or file and applies the
// configured pipeline of transforms to it, recording the output of every
// step. Parse and transform failures become Issues positioned on the
// formula's line.
//
// Transform: a named rewrite from the formula package ("negate",
// "collapse-negations", "remove-implications", "mark-free", "rename",
// "move-quantifiers-left") with a configurable severity.
//
// Cache: stores results per file on disk and drops them when the file,
// or one of the registered dependency files, changes.
//
// Watcher: re-runs an Engine over .fol files as they are written.
//
// SourceCode: the lines of a source file, used to draw issues.
//
// Usage:
//
//	engine, err := internal.NewEngine(logger, internal.Config{})
//	if err != nil {
//	    // handle error
//	}
//
//	results, err := engine.Run("path/to/premises.fol")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, r := range results {
//	    fmt.Printf("%d: %s => %s\n", r.Line, r.Input, r.Output)
//	}
//
// This package is intended for internal use within fol and should not be
// imported by external packages.
package internal
