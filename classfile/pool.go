package classfile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/classreader/errors"
)

// decodePool fills the pool table from index 1 up to the declared count.
func (d *decoder) decodePool() error {
	cf := d.cf
	cf.Pool = make(Pool, cf.PoolCount)

	for i := 1; i < int(cf.PoolCount); {
		path := fmt.Sprintf("constant_pool[%d]", i)
		tag, err := d.r.ReadU1()
		if err != nil {
			return d.readErr(err, path)
		}
		entry, slots, err := d.decodePoolEntry(Tag(tag), path)
		if err != nil {
			return err
		}
		cf.Pool[i] = entry
		i += slots
	}
	return nil
}

// decodePoolEntry decodes the body of one entry whose tag was already read.
// It returns the number of pool slots the entry occupies.
func (d *decoder) decodePoolEntry(tag Tag, path string) (PoolEntry, int, error) {
	d.log.Debug("constant pool entry", zap.String("at", path), zap.Uint8("tag", uint8(tag)))

	switch tag {
	case TagClass:
		idx, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "name_index")
		}
		return &ClassRef{NameIndex: idx}, 1, nil

	case TagUtf8:
		u, err := d.decodeUtf8(path)
		if err != nil {
			return nil, 0, err
		}
		return u, 1, nil

	case TagInteger, TagFloat:
		v, err := d.r.ReadU4()
		if err != nil {
			return nil, 0, d.readErr(err, path, "bytes")
		}
		return &Numeric{Kind: tag, Bits: uint64(v)}, 1, nil

	case TagString:
		idx, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "string_index")
		}
		return &StringRef{StringIndex: idx}, 1, nil

	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		class, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "class_index")
		}
		nat, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "name_and_type_index")
		}
		return &MemberRef{Kind: tag, ClassIndex: class, NameAndTypeIndex: nat}, 1, nil

	case TagNameAndType:
		name, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "name_index")
		}
		desc, err := d.r.ReadU2()
		if err != nil {
			return nil, 0, d.readErr(err, path, "descriptor_index")
		}
		return &NameAndType{NameIndex: name, DescriptorIndex: desc}, 1, nil

	case TagLong, TagDouble:
		high, err := d.r.ReadU4()
		if err != nil {
			return nil, 0, d.readErr(err, path, "high_bytes")
		}
		low, err := d.r.ReadU4()
		if err != nil {
			return nil, 0, d.readErr(err, path, "low_bytes")
		}
		return &Numeric{Kind: tag, Bits: uint64(high)<<32 | uint64(low)}, 2, nil
	}

	// The format gives no length for tags outside the table, so nothing
	// can be skipped. The next tag is read from the following byte.
	d.log.Debug("unknown constant pool tag", zap.String("at", path), zap.Uint8("tag", uint8(tag)))
	return &Unknown{RawTag: uint8(tag)}, 1, nil
}

func (d *decoder) decodeUtf8(path string) (*Utf8, error) {
	length, err := d.r.ReadU2()
	if err != nil {
		return nil, d.readErr(err, path, "length")
	}
	if int(length) > d.limits.MaxStringLength {
		return nil, errors.New(errors.PhaseDecode, errors.KindOversizedField).
			Path(path, "length").
			Offset(d.r.Position()).
			Value(int(length)).
			Detail("utf8 length %d exceeds %d", length, d.limits.MaxStringLength).
			Build()
	}

	size := int64(length) + 1
	if err := d.alloc(size, path); err != nil {
		return nil, err
	}
	buf, err := d.r.ReadBytes(int64(length), 1)
	if err != nil {
		return nil, d.readErr(err, path, "bytes")
	}
	return &Utf8{Length: length, Bytes: buf}, nil
}
