// Package unidiff parses unified-diff text and applies it to file contents.
//
// The package is self-contained so it can be embedded in editors, bots, and
// command line tools: it exposes primitives to parse multi-file patch text,
// apply one file's hunks to that file's original content, and orchestrate a
// whole batch against an injected content resolver while isolating per-file
// failures.
package unidiff
