package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for class file encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// U1 writes a single byte.
func (w *Writer) U1(b uint8) *Writer {
	w.buf.WriteByte(b)
	return w
}

// U2 writes a big-endian uint16.
func (w *Writer) U2(v uint16) *Writer {
	w.buf.Write(binary.BigEndian.AppendUint16(nil, v))
	return w
}

// U4 writes a big-endian uint32.
func (w *Writer) U4(v uint32) *Writer {
	w.buf.Write(binary.BigEndian.AppendUint32(nil, v))
	return w
}

// Raw writes a byte slice as is.
func (w *Writer) Raw(data []byte) *Writer {
	w.buf.Write(data)
	return w
}

// Utf8 writes a u2 length-prefixed byte string.
func (w *Writer) Utf8(s string) *Writer {
	w.U2(uint16(len(s)))
	w.buf.WriteString(s)
	return w
}

// Attribute writes an attribute header followed by its payload.
func (w *Writer) Attribute(nameIndex uint16, payload []byte) *Writer {
	w.U2(nameIndex)
	w.U4(uint32(len(payload)))
	w.buf.Write(payload)
	return w
}
