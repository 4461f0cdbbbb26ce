package classfile

import (
	"fmt"

	"go.uber.org/zap"
)

// decodeCode reads a Code attribute payload. Only the sizing fields and the
// instruction bytes are kept; exception table and sub-attributes are skipped.
func (d *decoder) decodeCode(path []string) (*Code, error) {
	c := &Code{}
	var err error

	if c.MaxStack, err = d.r.ReadU2(); err != nil {
		return nil, d.readErr(err, sub(path, "max_stack")...)
	}
	if c.MaxLocals, err = d.r.ReadU2(); err != nil {
		return nil, d.readErr(err, sub(path, "max_locals")...)
	}
	if c.CodeLength, err = d.r.ReadU4(); err != nil {
		return nil, d.readErr(err, sub(path, "code_length")...)
	}

	if err := d.alloc(int64(c.CodeLength), sub(path, "code")...); err != nil {
		return nil, err
	}
	if c.Bytecode, err = d.r.ReadBytes(int64(c.CodeLength), 0); err != nil {
		return nil, d.readErr(err, sub(path, "code")...)
	}

	excCount, err := d.r.ReadU2()
	if err != nil {
		return nil, d.readErr(err, sub(path, "exception_table_length")...)
	}
	if err := d.r.Skip(int64(excCount) * exceptionTableEntrySize); err != nil {
		return nil, d.readErr(err, sub(path, "exception_table")...)
	}

	attrCount, err := d.r.ReadU2()
	if err != nil {
		return nil, d.readErr(err, sub(path, "attributes_count")...)
	}
	for k := 0; k < int(attrCount); k++ {
		if err := d.skipAttribute(sub(path, fmt.Sprintf("attributes[%d]", k))...); err != nil {
			return nil, err
		}
	}

	d.log.Debug("decoded Code",
		zap.Uint16("max_stack", c.MaxStack),
		zap.Uint16("max_locals", c.MaxLocals),
		zap.Uint32("code_length", c.CodeLength),
		zap.Uint16("exception_table_length", excCount),
		zap.Uint16("attributes_count", attrCount))
	return c, nil
}
