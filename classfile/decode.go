package classfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/classreader/classfile/internal/binary"
	"github.com/wippyai/classreader/errors"
)

// Targets for errors.Is on values returned by Decode.
var (
	ErrTruncatedInput     = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncatedInput}
	ErrIO                 = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindIO}
	ErrFormatMismatch     = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindFormatMismatch}
	ErrUnsupportedVersion = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindUnsupportedVersion}
	ErrOversizedField     = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOversizedField}
	ErrInvalidReference   = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidReference}
	ErrOutOfMemory        = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfMemory}
	ErrSuspiciouslyLarge  = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindSuspiciouslyLarge}
)

// decoder holds the state of one in-progress decode. It is not reentrant.
type decoder struct {
	r      *binary.Reader
	cf     *ClassFile
	log    *zap.Logger
	limits Limits
	budget int64
}

// inputFile is the part of *os.File that DecodeFile needs.
type inputFile interface {
	io.ReadCloser
	Stat() (os.FileInfo, error)
}

var openFile = func(path string) (inputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeFile opens path, decodes it and closes it again on every path.
func DecodeFile(path string, opts ...Option) (*ClassFile, error) {
	o := buildOptions(opts)
	o.logger.Debug("opening class file", zap.String("path", path))

	f, err := openFile(path)
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("open %s", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			o.logger.Warn("close class file", zap.String("path", path), zap.Error(cerr))
		}
	}()

	size := int64(-1)
	if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
		size = st.Size()
	}
	return decode(binary.NewReader(bufio.NewReader(f), size), o)
}

// DecodeBytes decodes a class file held in memory.
func DecodeBytes(data []byte, opts ...Option) (*ClassFile, error) {
	return decode(binary.NewReader(bytes.NewReader(data), int64(len(data))), buildOptions(opts))
}

// Decode reads one class file from r. The reader is consumed but not closed.
// On failure no partial ClassFile is returned.
func Decode(r io.Reader, opts ...Option) (*ClassFile, error) {
	return decode(binary.NewReader(r, inputSize(r)), buildOptions(opts))
}

func inputSize(r io.Reader) int64 {
	switch v := r.(type) {
	case *bytes.Reader:
		return int64(v.Len())
	case *strings.Reader:
		return int64(v.Len())
	case *os.File:
		st, err := v.Stat()
		if err != nil || !st.Mode().IsRegular() {
			return -1
		}
		cur, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return st.Size() - cur
	}
	return -1
}

func decode(r *binary.Reader, o options) (cf *ClassFile, err error) {
	d := &decoder{
		r:      r,
		cf:     &ClassFile{},
		log:    o.logger,
		limits: o.limits,
		budget: o.limits.MaxAlloc,
	}
	defer func() {
		if err != nil {
			d.log.Debug("decode failed, releasing partial class", zap.Error(err))
			d.cf.Release()
			cf = nil
		}
	}()

	if err := d.decodeClass(); err != nil {
		return nil, err
	}
	return d.cf, nil
}

func (d *decoder) decodeClass() error {
	cf := d.cf
	var err error

	if cf.Magic, err = d.r.ReadU4(); err != nil {
		return d.readErr(err, "magic")
	}
	d.log.Debug("read magic", zap.String("magic", fmt.Sprintf("0x%08X", cf.Magic)))
	if cf.Magic != Magic {
		return errors.FormatMismatch(cf.Magic, Magic)
	}

	if cf.MinorVersion, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "minor_version")
	}
	if cf.MajorVersion, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "major_version")
	}
	if cf.MajorVersion < d.limits.MinMajorVersion || cf.MajorVersion > d.limits.MaxMajorVersion {
		return errors.UnsupportedVersion(cf.MajorVersion, d.limits.MinMajorVersion, d.limits.MaxMajorVersion)
	}

	if cf.PoolCount, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "constant_pool_count")
	}
	d.log.Debug("constant pool count", zap.Uint16("count", cf.PoolCount))
	if int(cf.PoolCount) > d.limits.MaxPoolCount {
		return errors.Oversized([]string{"constant_pool_count"}, int(cf.PoolCount), d.limits.MaxPoolCount)
	}
	if err := d.decodePool(); err != nil {
		return err
	}

	var flags uint16
	if flags, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "access_flags")
	}
	cf.AccessFlags = AccessFlags(flags)
	if cf.ThisClass, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "this_class")
	}
	if cf.SuperClass, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "super_class")
	}

	if cf.InterfaceCount, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "interfaces_count")
	}
	if err := d.r.Skip(int64(cf.InterfaceCount) * interfaceEntrySize); err != nil {
		return d.readErr(err, "interfaces")
	}

	if err := d.skipFields(); err != nil {
		return err
	}

	if cf.MethodCount, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "methods_count")
	}
	d.log.Debug("methods count", zap.Uint16("count", cf.MethodCount))
	if int(cf.MethodCount) > d.limits.MaxMethods {
		return errors.SuspiciouslyLarge([]string{"methods_count"}, int(cf.MethodCount), d.limits.MaxMethods)
	}
	return d.decodeMethods()
}

// skipFields walks every field record and its attributes without keeping any of it.
func (d *decoder) skipFields() error {
	var err error
	if d.cf.FieldCount, err = d.r.ReadU2(); err != nil {
		return d.readErr(err, "fields_count")
	}

	for i := 0; i < int(d.cf.FieldCount); i++ {
		path := fmt.Sprintf("fields[%d]", i)
		var hdr [4]uint16
		for j := range hdr {
			if hdr[j], err = d.r.ReadU2(); err != nil {
				return d.readErr(err, path)
			}
		}
		d.log.Debug("field",
			zap.Int("index", i),
			zap.String("access_flags", fmt.Sprintf("0x%04X", hdr[0])),
			zap.Uint16("name_index", hdr[1]),
			zap.Uint16("descriptor_index", hdr[2]),
			zap.Uint16("attributes_count", hdr[3]))

		for j := 0; j < int(hdr[3]); j++ {
			if err := d.skipAttribute(path, fmt.Sprintf("attributes[%d]", j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipAttribute reads an attribute header and skips its payload.
func (d *decoder) skipAttribute(path ...string) error {
	name, err := d.r.ReadU2()
	if err != nil {
		return d.readErr(err, path...)
	}
	length, err := d.r.ReadU4()
	if err != nil {
		return d.readErr(err, path...)
	}
	d.log.Debug("skipping attribute",
		zap.String("at", strings.Join(path, ".")),
		zap.Uint16("name_index", name),
		zap.Uint32("length", length))
	if err := d.r.Skip(int64(length)); err != nil {
		return d.readErr(err, path...)
	}
	return nil
}

// alloc charges n owned bytes against the per-decode budget.
func (d *decoder) alloc(n int64, path ...string) error {
	if n > d.budget {
		return errors.OutOfMemory(path, n, d.budget)
	}
	d.budget -= n
	return nil
}

// readErr classifies a reader failure as truncation or an I/O error.
func (d *decoder) readErr(err error, path ...string) error {
	if binary.IsTruncated(err) {
		return errors.Truncated(path, d.r.Position(), err)
	}
	return errors.IO(path, d.r.Position(), err)
}

// sub extends path without sharing its backing array.
func sub(path []string, more ...string) []string {
	out := make([]string, 0, len(path)+len(more))
	out = append(out, path...)
	return append(out, more...)
}
