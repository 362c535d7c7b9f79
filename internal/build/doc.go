// Package build provides the canonical build execution pipeline for sitegraph.
//
// A build runs four stages in order: load the source tree, process it through
// the document pipeline, emit the content tree, and write the manifest. All
// entry points (CLI commands, tests) route through BuildService.
package build
