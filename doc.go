// Package classreader decodes JVM class files.
//
// The library reads a class file in one forward pass and builds an
// in-memory tree of its header, constant pool and methods. Method bodies
// are kept as raw instruction bytes and never interpreted.
//
// # Architecture Overview
//
//	classreader/         Root package (documentation only)
//	├── classfile/       Class file decoder, pool/method/code types, Release
//	│   └── internal/
//	│       └── binary/  Big-endian reader with skip, fixture writer
//	├── config/          YAML decoder limits
//	├── errors/          Structured error types for debugging
//	├── cmd/classinfo/   Command line summary and interactive browser
//	└── examples/basic/  Library usage
//
// # Quick Start
//
//	cf, err := classfile.DecodeFile("Hello.class")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cf.Release()
//
//	for i := range cf.Methods {
//	    name, desc := cf.MethodName(&cf.Methods[i])
//	    fmt.Println(name + desc)
//	}
//
// # Error Handling
//
// Errors are *errors.Error values with a Phase and a Kind:
//
//	if errors.Is(err, classfile.ErrInvalidReference) {
//	    // an attribute named a pool slot past the end of the pool
//	}
package classreader
