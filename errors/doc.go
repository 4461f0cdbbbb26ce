// Package errors provides structured error types for the classreader library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the location inside the class file, the byte offset,
// the offending value and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOversizedField).
//		Path("constant_pool[4]", "utf8").
//		Offset(57).
//		Value(70000).
//		Detail("string length %d exceeds %d", 70000, 65535).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FormatMismatch(magic, 0xCAFEBABE)
//	err := errors.InvalidReference(path, 40, 12)
//
// Error.Is compares Phase and Kind only, so a bare &Error{Phase, Kind}
// works as a target for errors.Is.
package errors
