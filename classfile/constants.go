package classfile

// Magic is the fixed identifier at the start of every class file.
const Magic uint32 = 0xCAFEBABE

// Supported major version interval (JDK 1.1 through 25).
const (
	MinMajorVersion uint16 = 45
	MaxMajorVersion uint16 = 69
)

// Default sanity ceilings.
const (
	DefaultMaxPoolCount    = 32767
	DefaultMaxStringLength = 65535
	DefaultMaxMethods      = 1000
	DefaultMaxAlloc        = 64 << 20
)

// CodeAttribute is the attribute name that selects the Code decoder.
const CodeAttribute = "Code"

// Fixed record widths skipped without decoding.
const (
	interfaceEntrySize      = 2
	exceptionTableEntrySize = 8
)

// Tag identifies the shape of a constant pool entry.
type Tag uint8

// Constant pool tags.
const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
)

var tagNames = map[Tag]string{
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Wide reports whether entries with this tag occupy two pool slots.
func (t Tag) Wide() bool {
	return t == TagLong || t == TagDouble
}

// AccessFlags is the u2 flag word on classes and methods.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // class
	AccSynchronized AccessFlags = 0x0020 // method
	AccBridge       AccessFlags = 0x0040
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }

func (f AccessFlags) IsPublic() bool    { return f.Has(AccPublic) }
func (f AccessFlags) IsAbstract() bool  { return f.Has(AccAbstract) }
func (f AccessFlags) IsNative() bool    { return f.Has(AccNative) }
func (f AccessFlags) IsInterface() bool { return f.Has(AccInterface) }

var methodFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
}

// MethodModifiers renders the flags as method modifiers, in declaration order.
func (f AccessFlags) MethodModifiers() []string {
	var out []string
	for _, fn := range methodFlagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}
