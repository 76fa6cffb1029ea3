package lisp

import (
	"encoding/binary"
	"errors"
	"io"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// container header fields. Every multi-byte field is big-endian
// whatever the host byte order is.
const (
	Magic        uint32 = 0xCAFEBABE // 4-byte header
	MinorVersion uint16 = 0x0000     // minor version 0
	MajorVersion uint16 = 0x0034     // major version 52
	HeaderSize          = 8          // magic + minor + major
)

// Container is a decoded artifact: the header versions and the payload.
type Container struct {
	Minor uint16
	Major uint16
	Code  []byte
}

// Serialize writes the container to w: magic, minor version,
// major version, then the opcode payload.
// This is the only writer of the format.
func (e *Emitter) Serialize(w io.Writer) error {
	var header [HeaderSize]byte
	binary.BigEndian.PutUint32(header[0:4], Magic)
	binary.BigEndian.PutUint16(header[4:6], MinorVersion)
	binary.BigEndian.PutUint16(header[6:8], MajorVersion)

	if _, err := w.Write(header[:]); err != nil {
		return lisptype.IOError.Wrap(err, "write container header")
	}
	if len(e.bytecode) == 0 {
		return nil
	}
	if _, err := w.Write(e.bytecode); err != nil {
		return lisptype.IOError.Wrap(err, "write container payload")
	}
	return nil
}

// ReadContainer loads what Serialize wrote. The header must carry the
// magic number and a major version this reader knows, and the payload
// must decode cleanly.
func ReadContainer(r io.Reader) (*Container, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, lisptype.RangeError.New("container shorter than its %d byte header", HeaderSize)
		}
		return nil, lisptype.IOError.Wrap(err, "read container header")
	}

	if magic := binary.BigEndian.Uint32(header[0:4]); magic != Magic {
		return nil, lisptype.RangeError.New("bad magic number 0x%08X", magic).
			WithProperty(lisptype.PropertyValue, magic)
	}
	c := &Container{
		Minor: binary.BigEndian.Uint16(header[4:6]),
		Major: binary.BigEndian.Uint16(header[6:8]),
	}
	if c.Major != MajorVersion {
		return nil, lisptype.RangeError.New("unsupported major version %d", c.Major).
			WithProperty(lisptype.PropertyValue, c.Major)
	}

	code, err := io.ReadAll(r)
	if err != nil {
		return nil, lisptype.IOError.Wrap(err, "read container payload")
	}
	if _, err := Decode(code); err != nil {
		return nil, err
	}
	c.Code = code
	return c, nil
}
