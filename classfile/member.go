package classfile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/classreader/errors"
)

func (d *decoder) decodeMethods() error {
	d.cf.Methods = make([]Method, d.cf.MethodCount)
	for i := range d.cf.Methods {
		if err := d.decodeMethod(i, &d.cf.Methods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeMethod(i int, m *Method) error {
	path := fmt.Sprintf("methods[%d]", i)

	fields := []*uint16{(*uint16)(&m.AccessFlags), &m.NameIndex, &m.DescriptorIndex, &m.AttributeCount}
	for _, f := range fields {
		v, err := d.r.ReadU2()
		if err != nil {
			return d.readErr(err, path)
		}
		*f = v
	}
	d.log.Debug("method",
		zap.Int("index", i),
		zap.String("access_flags", fmt.Sprintf("0x%04X", uint16(m.AccessFlags))),
		zap.Uint16("name_index", m.NameIndex),
		zap.Uint16("descriptor_index", m.DescriptorIndex),
		zap.Uint16("attributes_count", m.AttributeCount))

	for j := 0; j < int(m.AttributeCount); j++ {
		if err := d.decodeMethodAttribute(m, path, fmt.Sprintf("attributes[%d]", j)); err != nil {
			return err
		}
	}
	return nil
}

// decodeMethodAttribute decodes a Code attribute into m and skips anything else.
// A name index outside the pool is fatal, unlike an unknown pool tag.
func (d *decoder) decodeMethodAttribute(m *Method, path ...string) error {
	nameIndex, err := d.r.ReadU2()
	if err != nil {
		return d.readErr(err, path...)
	}
	length, err := d.r.ReadU4()
	if err != nil {
		return d.readErr(err, path...)
	}

	if int(nameIndex) >= len(d.cf.Pool) {
		e := errors.InvalidReference(path, int(nameIndex), len(d.cf.Pool))
		e.Offset = d.r.Position()
		return e
	}

	if name, ok := d.cf.Pool.Utf8(nameIndex); ok && name == CodeAttribute {
		d.log.Debug("found Code attribute", zap.Strings("at", path), zap.Uint32("length", length))
		code, err := d.decodeCode(sub(path, "code"))
		if err != nil {
			return err
		}
		m.Code = code
		return nil
	}

	d.log.Debug("skipping method attribute",
		zap.Strings("at", path),
		zap.Uint16("name_index", nameIndex),
		zap.Uint32("length", length))
	if err := d.r.Skip(int64(length)); err != nil {
		return d.readErr(err, path...)
	}
	return nil
}
