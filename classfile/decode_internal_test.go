package classfile

import (
	"bytes"
	"os"
	"testing"

	"github.com/wippyai/classreader/classfile/internal/binary"
	"github.com/wippyai/classreader/errors"
)

func newTestDecoder(data []byte) *decoder {
	o := buildOptions(nil)
	return &decoder{
		r:      binary.NewReader(bytes.NewReader(data), int64(len(data))),
		cf:     &ClassFile{},
		log:    o.logger,
		limits: o.limits,
		budget: o.limits.MaxAlloc,
	}
}

func TestDecodePoolEntrySlots(t *testing.T) {
	tests := []struct {
		name    string
		tag     Tag
		payload []byte
		slots   int
		want    PoolEntry
	}{
		{"class", TagClass, []byte{0, 7}, 1, &ClassRef{NameIndex: 7}},
		{"string", TagString, []byte{0, 3}, 1, &StringRef{StringIndex: 3}},
		{"integer", TagInteger, []byte{0, 0, 0, 5}, 1, &Numeric{Kind: TagInteger, Bits: 5}},
		{"float", TagFloat, []byte{0x3f, 0x80, 0, 0}, 1, &Numeric{Kind: TagFloat, Bits: 0x3f800000}},
		{"long", TagLong, []byte{0, 0, 0, 1, 0, 0, 0, 2}, 2, &Numeric{Kind: TagLong, Bits: 1<<32 | 2}},
		{"double", TagDouble, []byte{0, 0, 0, 0, 0, 0, 0, 0}, 2, &Numeric{Kind: TagDouble}},
		{"fieldref", TagFieldref, []byte{0, 1, 0, 2}, 1, &MemberRef{Kind: TagFieldref, ClassIndex: 1, NameAndTypeIndex: 2}},
		{"methodref", TagMethodref, []byte{0, 3, 0, 4}, 1, &MemberRef{Kind: TagMethodref, ClassIndex: 3, NameAndTypeIndex: 4}},
		{"imethodref", TagInterfaceMethodref, []byte{0, 5, 0, 6}, 1, &MemberRef{Kind: TagInterfaceMethodref, ClassIndex: 5, NameAndTypeIndex: 6}},
		{"nameandtype", TagNameAndType, []byte{0, 8, 0, 9}, 1, &NameAndType{NameIndex: 8, DescriptorIndex: 9}},
		{"unknown", Tag(42), []byte{0xff}, 1, &Unknown{RawTag: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(tt.payload)
			got, slots, err := d.decodePoolEntry(tt.tag, "constant_pool[1]")
			if err != nil {
				t.Fatalf("decodePoolEntry: %v", err)
			}
			if slots != tt.slots {
				t.Errorf("slots = %d, want %d", slots, tt.slots)
			}
			if got.Tag() != tt.want.Tag() {
				t.Errorf("tag = %v, want %v", got.Tag(), tt.want.Tag())
			}
			switch w := tt.want.(type) {
			case *ClassRef:
				if *got.(*ClassRef) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *StringRef:
				if *got.(*StringRef) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *Numeric:
				if *got.(*Numeric) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *MemberRef:
				if *got.(*MemberRef) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *NameAndType:
				if *got.(*NameAndType) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *Unknown:
				if *got.(*Unknown) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
				if d.r.Position() != 0 {
					t.Errorf("unknown tag consumed %d bytes", d.r.Position())
				}
			}
		})
	}
}

func TestDecodeUtf8BudgetCheckedBeforeRead(t *testing.T) {
	d := newTestDecoder([]byte{0x00, 0x04, 'C', 'o'})
	d.budget = 3

	_, err := d.decodeUtf8("constant_pool[1]")
	if err == nil || !ErrOutOfMemory.Is(err) {
		t.Fatalf("expected out of memory, got %v", err)
	}
	if d.r.Position() != 2 {
		t.Errorf("content read despite budget failure: position %d", d.r.Position())
	}
}

func TestReleasePartialClass(t *testing.T) {
	w := binary.NewWriter()
	w.U4(Magic).U2(0).U2(52).U2(4)
	w.U1(uint8(TagUtf8)).Utf8("Code")
	w.U1(uint8(TagUtf8)).Utf8("run")
	w.U1(uint8(TagUtf8)).U2(10).Raw([]byte("cut"))

	d := newTestDecoder(w.Bytes())
	if err := d.decodeClass(); err == nil {
		t.Fatal("expected failure")
	}

	partial := d.cf
	if len(partial.Pool) != 4 || partial.Pool[1] == nil || partial.Pool[3] != nil {
		t.Fatalf("unexpected partial pool: %v", partial.Pool)
	}
	first := partial.Pool[1].(*Utf8)

	partial.Release()
	partial.Release()
	if !partial.Released() || first.Bytes != nil {
		t.Error("partial class not fully released")
	}
}

func TestReleasePartialMethods(t *testing.T) {
	w := binary.NewWriter()
	w.U4(Magic).U2(0).U2(52).U2(2)
	w.U1(uint8(TagUtf8)).Utf8("Code")
	w.U2(0).U2(0).U2(0).U2(0).U2(0)
	w.U2(2)
	w.U2(0).U2(0).U2(0).U2(1)
	w.Attribute(1, binary.NewWriter().U2(1).U2(1).U4(1).U1(0xb1).U2(0).U2(0).Bytes())
	w.U2(0).U2(0).U2(0).U2(1).U2(1) // second method cut inside its attribute header

	d := newTestDecoder(w.Bytes())
	if err := d.decodeClass(); !ErrTruncatedInput.Is(err) {
		t.Fatalf("expected truncation, got %v", err)
	}

	code := d.cf.Methods[0].Code
	if code == nil || len(code.Bytecode) != 1 {
		t.Fatalf("first method not decoded before failure: %+v", d.cf.Methods[0])
	}
	d.cf.Release()
	if code.Bytecode != nil || d.cf.Methods != nil {
		t.Error("method buffers survive Release")
	}
}

// closeCounter stands in for an opened class file.
type closeCounter struct {
	*bytes.Reader
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func (c *closeCounter) Stat() (os.FileInfo, error) {
	return nil, os.ErrInvalid
}

func TestDecodeFileClosesOnce(t *testing.T) {
	header := func(w *binary.Writer) *binary.Writer {
		return w.U4(Magic).U2(0).U2(52).U2(2).U1(uint8(TagUtf8)).Utf8("Code").
			U2(0).U2(0).U2(0).U2(0).U2(0)
	}

	tests := []struct {
		name string
		data []byte
		want *errors.Error
	}{
		{"success", header(binary.NewWriter()).U2(0).Bytes(), nil},
		{"bad magic", binary.NewWriter().U4(0xDEADBEEF).Bytes(), ErrFormatMismatch},
		{"truncated", header(binary.NewWriter()).U2(1).U2(0).Bytes(), ErrTruncatedInput},
		{"invalid reference", header(binary.NewWriter()).U2(1).
			U2(0).U2(0).U2(0).U2(1).Attribute(9, nil).Bytes(), ErrInvalidReference},
	}

	orig := openFile
	defer func() { openFile = orig }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &closeCounter{Reader: bytes.NewReader(tt.data)}
			openFile = func(string) (inputFile, error) { return f, nil }

			cf, err := DecodeFile("Stub.class")
			if tt.want == nil {
				if err != nil {
					t.Fatalf("DecodeFile: %v", err)
				}
				cf.Release()
			} else {
				if cf != nil {
					t.Error("partial class returned")
				}
				if !tt.want.Is(err) {
					t.Fatalf("expected %s, got %v", tt.want.Kind, err)
				}
			}
			if f.closes != 1 {
				t.Errorf("Close called %d times, want 1", f.closes)
			}
		})
	}
}
