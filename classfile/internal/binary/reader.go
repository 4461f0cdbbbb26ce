package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned when the input ends before a field is complete.
var ErrTruncated = fmt.Errorf("truncated input: %w", io.ErrUnexpectedEOF)

// chunkSize caps a single allocation when the input size is unknown.
const chunkSize = 64 << 10

type discarder interface {
	Discard(n int) (int, error)
}

// Reader wraps an io.Reader with position tracking and big-endian read methods.
type Reader struct {
	r    io.Reader
	pos  int64
	size int64
	buf  [4]byte
}

// NewReader creates a new Reader. size is the total input length, or -1 when
// the source cannot report it.
func NewReader(r io.Reader, size int64) *Reader {
	return &Reader{r: r, size: size}
}

// Position returns the current byte position.
func (r *Reader) Position() int64 {
	return r.pos
}

// Remaining returns the bytes left before the end of input, or -1 if unknown.
func (r *Reader) Remaining() int64 {
	if r.size < 0 {
		return -1
	}
	return r.size - r.pos
}

func (r *Reader) fill(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}
	return nil
}

// ReadU1 reads a single byte.
func (r *Reader) ReadU1() (uint8, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadU2 reads a big-endian uint16.
func (r *Reader) ReadU2() (uint16, error) {
	if err := r.fill(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

// ReadU4 reads a big-endian uint32.
func (r *Reader) ReadU4() (uint32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

// ReadBytes reads exactly n bytes. extra zero bytes are appended to the
// returned slice beyond the n read from the input.
func (r *Reader) ReadBytes(n int64, extra int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	if rem := r.Remaining(); rem >= 0 && n > rem {
		return nil, ErrTruncated
	}
	if r.size >= 0 || n <= chunkSize {
		buf := make([]byte, int(n)+extra)
		if err := r.fill(buf[:n]); err != nil {
			return nil, err
		}
		return buf, nil
	}

	// Unknown size: grow as bytes actually arrive.
	buf := make([]byte, 0, chunkSize)
	for int64(len(buf)) < n {
		step := n - int64(len(buf))
		if step > chunkSize {
			step = chunkSize
		}
		start := len(buf)
		buf = append(buf, make([]byte, step)...)
		if err := r.fill(buf[start:]); err != nil {
			return nil, err
		}
	}
	return append(buf, make([]byte, extra)...), nil
}

// Skip advances the position by n bytes without retaining them.
func (r *Reader) Skip(n int64) error {
	if n == 0 {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("negative skip %d", n)
	}
	if rem := r.Remaining(); rem >= 0 && n > rem {
		r.pos = r.size
		return ErrTruncated
	}

	switch src := r.r.(type) {
	case io.Seeker:
		if r.size >= 0 {
			if _, err := src.Seek(n, io.SeekCurrent); err != nil {
				return err
			}
			r.pos += n
			return nil
		}
	case discarder:
		for n > 0 {
			step := n
			if step > chunkSize {
				step = chunkSize
			}
			d, err := src.Discard(int(step))
			r.pos += int64(d)
			n -= int64(d)
			if err != nil {
				return r.skipErr(err)
			}
		}
		return nil
	}

	copied, err := io.CopyN(io.Discard, r.r, n)
	r.pos += copied
	if err != nil {
		return r.skipErr(err)
	}
	return nil
}

func (r *Reader) skipErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// IsTruncated reports whether err came from running out of input.
func IsTruncated(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF)
}
