// Package classfile decodes JVM class files into an in-memory tree.
//
// The decoder reads the header, the constant pool, and the method table in
// a single forward pass. Interfaces and fields are skipped; of all method
// attributes only Code is decoded, and of Code only the sizing fields and
// the raw instruction bytes are kept. Instructions are never interpreted.
//
// # Decoding
//
//	cf, err := classfile.DecodeFile("Hello.class")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cf.Release()
//
//	fmt.Printf("%s: %d methods\n", cf.Name(), cf.MethodCount)
//
// Decode accepts any io.Reader, DecodeBytes any in-memory slice.
//
// # Constant Pool
//
// The pool is indexed exactly as the file indexes it. Slot 0 is always nil,
// and so is the slot after every Long or Double entry:
//
//	for i, e := range cf.Pool {
//	    switch v := e.(type) {
//	    case *classfile.Utf8:
//	        fmt.Println(i, v.String())
//	    case *classfile.Unknown:
//	        fmt.Println(i, "unrecognized tag", v.RawTag)
//	    }
//	}
//
// Unknown tags are tolerated: they consume no payload and decoding continues
// with the next byte.
//
// # Errors
//
// Every failure is a *errors.Error and aborts the whole decode. Use the
// package sentinels with errors.Is:
//
//	if errors.Is(err, classfile.ErrTruncatedInput) { ... }
//
// An attribute name index outside the pool fails with ErrInvalidReference.
//
// # Options
//
// WithLogger traces every record at debug level. WithLimits overrides the
// pool, string, method and allocation ceilings.
package classfile
