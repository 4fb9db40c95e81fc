// Package lint evaluates the enabled rules against one file snapshot.
//
// Lint is pure over (snapshot, tree, lexical classification, configuration).
// Correct applies the fixes of correctable rules one rule at a time; every
// rewrite is recorded as a new snapshot in the FileSet so that each rule runs
// against a freshly indexed file.
package lint
