package classfile

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// reader is a typed big-endian cursor over a class-file byte stream.
// It never seeks; every read consumes bytes sequentially, matching the
// single-pass structure of the ClassFile format described in
// SPEC_FULL.md's Binary Reader section.
type reader struct {
	r io.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) u1() (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, &TruncatedInputError{Context: "u1", Err: err}
	}
	return b[0], nil
}

func (r *reader) u2() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, &TruncatedInputError{Context: "u2", Err: err}
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *reader) u4() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, &TruncatedInputError{Context: "u4", Err: err}
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (r *reader) u8() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, &TruncatedInputError{Context: "u8", Err: err}
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *reader) bytes(n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, &TruncatedInputError{Context: "byte slice", Err: err}
	}
	return buf, nil
}

// skip discards n bytes without allocating. The loader currently reads
// every attribute payload in full through bytes, so nothing calls it.
func (r *reader) skip(n uint32) error {
	if _, err := io.CopyN(io.Discard, r.r, int64(n)); err != nil {
		return errors.Wrap(&TruncatedInputError{Context: "skip", Err: err}, "skip")
	}
	return nil
}
