package classfile

// Release drops every buffer owned by the class file: pool strings,
// instruction bytes and both tables. It is safe on nil, on a partially
// decoded value and when called more than once.
func (cf *ClassFile) Release() {
	if cf == nil {
		return
	}
	for i, e := range cf.Pool {
		if u, ok := e.(*Utf8); ok {
			u.Bytes = nil
		}
		cf.Pool[i] = nil
	}
	for i := range cf.Methods {
		if c := cf.Methods[i].Code; c != nil {
			c.Bytecode = nil
			cf.Methods[i].Code = nil
		}
	}
	cf.Pool = nil
	cf.Methods = nil
}

// Released reports whether the owned tables have been dropped.
func (cf *ClassFile) Released() bool {
	return cf == nil || (cf.Pool == nil && cf.Methods == nil)
}
