// Package errors provides classified error primitives for sitegraph.
//
// A ClassifiedError carries a broad category (config, content, git, build...),
// a severity and a small context map next to the usual message and cause.
// Packages build them with the fluent builder and the CLI maps them to exit
// codes through CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "read source file").
//		WithContext("path", rel).
//		Build()
package errors
