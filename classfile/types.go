package classfile

import (
	"encoding/binary"
	"math"
)

// ClassFile is one fully decoded class file.
type ClassFile struct {
	Pool           Pool
	Methods        []Method
	Magic          uint32
	MinorVersion   uint16
	MajorVersion   uint16
	PoolCount      uint16
	AccessFlags    AccessFlags
	ThisClass      uint16
	SuperClass     uint16
	InterfaceCount uint16
	FieldCount     uint16
	MethodCount    uint16
}

// Method is one method record. Only the Code attribute is retained.
type Method struct {
	Code            *Code
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	AttributeCount  uint16
}

// Code holds the sizing and raw instructions of a method body.
type Code struct {
	Bytecode   []byte
	CodeLength uint32
	MaxStack   uint16
	MaxLocals  uint16
}

// PoolEntry is one decoded constant pool entry.
type PoolEntry interface {
	Tag() Tag
}

// Pool is indexed the same way the class file indexes it: slot 0 and the
// slot after each Long or Double are always nil.
type Pool []PoolEntry

// ClassRef is a CONSTANT_Class entry.
type ClassRef struct {
	NameIndex uint16
}

func (*ClassRef) Tag() Tag { return TagClass }

// Utf8 is a CONSTANT_Utf8 entry. Bytes carries one extra NUL after the
// Length content bytes.
type Utf8 struct {
	Bytes  []byte
	Length uint16
}

func (*Utf8) Tag() Tag { return TagUtf8 }

// Value returns the content bytes without the terminator.
func (u *Utf8) Value() []byte {
	if len(u.Bytes) < int(u.Length) {
		return nil
	}
	return u.Bytes[:u.Length]
}

func (u *Utf8) String() string { return string(u.Value()) }

// StringRef is a CONSTANT_String entry.
type StringRef struct {
	StringIndex uint16
}

func (*StringRef) Tag() Tag { return TagString }

// Numeric is an Integer, Float, Long or Double entry kept as raw bits.
// Narrow kinds use only the low 32 bits.
type Numeric struct {
	Kind Tag
	Bits uint64
}

func (n *Numeric) Tag() Tag { return n.Kind }

// Raw returns the entry's bytes in file order.
func (n *Numeric) Raw() []byte {
	if n.Kind.Wide() {
		return binary.BigEndian.AppendUint64(nil, n.Bits)
	}
	return binary.BigEndian.AppendUint32(nil, uint32(n.Bits))
}

// Value interprets the bits according to Kind.
func (n *Numeric) Value() any {
	switch n.Kind {
	case TagInteger:
		return int32(uint32(n.Bits))
	case TagFloat:
		return math.Float32frombits(uint32(n.Bits))
	case TagLong:
		return int64(n.Bits)
	case TagDouble:
		return math.Float64frombits(n.Bits)
	}
	return nil
}

// MemberRef is a Fieldref, Methodref or InterfaceMethodref entry.
type MemberRef struct {
	Kind             Tag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (m *MemberRef) Tag() Tag { return m.Kind }

// NameAndType is a CONSTANT_NameAndType entry.
type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (*NameAndType) Tag() Tag { return TagNameAndType }

// Unknown marks a tag the decoder does not understand. No payload bytes
// were consumed for it.
type Unknown struct {
	RawTag uint8
}

func (u *Unknown) Tag() Tag { return Tag(u.RawTag) }

// Entry returns the entry at index, or nil if the slot is empty or out of range.
func (p Pool) Entry(index uint16) PoolEntry {
	if int(index) >= len(p) {
		return nil
	}
	return p[index]
}

// Utf8 returns the text of the Utf8 entry at index.
func (p Pool) Utf8(index uint16) (string, bool) {
	u, ok := p.Entry(index).(*Utf8)
	if !ok {
		return "", false
	}
	return u.String(), true
}

// ClassName resolves a ClassRef index to its name.
func (p Pool) ClassName(index uint16) (string, bool) {
	c, ok := p.Entry(index).(*ClassRef)
	if !ok {
		return "", false
	}
	return p.Utf8(c.NameIndex)
}

// Populated counts non-empty slots.
func (p Pool) Populated() int {
	n := 0
	for _, e := range p {
		if e != nil {
			n++
		}
	}
	return n
}

// Name returns the internal name of this class, or "" if unresolvable.
func (cf *ClassFile) Name() string {
	name, _ := cf.Pool.ClassName(cf.ThisClass)
	return name
}

// SuperName returns the internal name of the parent class, or "" for none.
func (cf *ClassFile) SuperName() string {
	name, _ := cf.Pool.ClassName(cf.SuperClass)
	return name
}

// MethodName resolves a method's name and descriptor through the pool.
func (cf *ClassFile) MethodName(m *Method) (name, descriptor string) {
	name, _ = cf.Pool.Utf8(m.NameIndex)
	descriptor, _ = cf.Pool.Utf8(m.DescriptorIndex)
	return name, descriptor
}

// Summary is the subset of a decoded class printed by command line tools.
type Summary struct {
	Magic        uint32
	MajorVersion uint16
	MinorVersion uint16
	PoolCount    uint16
	MethodCount  uint16
}

// Summary returns the header counts of the class file.
func (cf *ClassFile) Summary() Summary {
	return Summary{
		Magic:        cf.Magic,
		MajorVersion: cf.MajorVersion,
		MinorVersion: cf.MinorVersion,
		PoolCount:    cf.PoolCount,
		MethodCount:  cf.MethodCount,
	}
}
