// GBX primitive stream reader.
// All multi-byte values are little-endian.
package gbxfmt

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrUnexpectedEOF = errors.New("stream: unexpected end of data")
)

// Stream reads GBX primitives sequentially from an in-memory buffer.
type Stream struct {
	data []byte
	pos  int
	end  int
}

// NewStream creates a stream over the given data.
func NewStream(data []byte) *Stream {
	return &Stream{data: data, pos: 0, end: len(data)}
}

// Position returns the current read position.
func (s *Stream) Position() int { return s.pos }

// SetPosition moves the read position. Positions past the end fail.
func (s *Stream) SetPosition(pos int) error {
	if pos < 0 || pos > s.end {
		return ErrUnexpectedEOF
	}
	s.pos = pos
	return nil
}

// Remaining returns bytes left to read.
func (s *Stream) Remaining() int { return s.end - s.pos }

// Len returns the total length of the underlying data.
func (s *Stream) Len() int { return s.end }

func (s *Stream) need(n int) bool {
	return n >= 0 && n <= s.end-s.pos
}

// ReadBytes reads n bytes into a new slice. n == 0 yields an empty slice.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if !s.need(n) {
		return nil, ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, s.data[s.pos:s.pos+n])
	s.pos += n
	return out, nil
}

// Skip advances the position by n bytes.
func (s *Stream) Skip(n int) error {
	if !s.need(n) {
		return ErrUnexpectedEOF
	}
	s.pos += n
	return nil
}

// ReadUint8 reads a uint8.
func (s *Stream) ReadUint8() (uint8, error) {
	if s.pos >= s.end {
		return 0, ErrUnexpectedEOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (s *Stream) ReadUint16() (uint16, error) {
	if !s.need(2) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint16(s.data[s.pos:])
	s.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (s *Stream) ReadUint32() (uint32, error) {
	if !s.need(4) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
// GBX only compares these values, so no arithmetic meaning is assumed.
func (s *Stream) ReadUint64() (uint64, error) {
	if !s.need(8) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(s.data[s.pos:])
	s.pos += 8
	return v, nil
}

// ReadFloat32 reads a little-endian IEEE-754 single.
func (s *Stream) ReadFloat32() (float32, error) {
	v, err := s.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBool32 reads a uint32 boolean. Only the value 1 is true; 2 or
// 0xffffffff are false.
func (s *Stream) ReadBool32() (bool, error) {
	v, err := s.ReadUint32()
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// ReadString reads a uint32 byte count followed by that many raw bytes.
// The bytes are not validated or transcoded.
func (s *Stream) ReadString() (string, error) {
	n, err := s.ReadUint32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(s.Remaining()) {
		return "", ErrUnexpectedEOF
	}
	str := string(s.data[s.pos : s.pos+int(n)])
	s.pos += int(n)
	return str, nil
}

// SkipString consumes a length-prefixed string without allocating it.
func (s *Stream) SkipString() error {
	n, err := s.ReadUint32()
	if err != nil {
		return err
	}
	if uint64(n) > uint64(s.Remaining()) {
		return ErrUnexpectedEOF
	}
	s.pos += int(n)
	return nil
}

// SkipLiteral consumes len(lit) bytes. The content is not compared: tags
// such as "<Comments>" are positional markers only.
func (s *Stream) SkipLiteral(lit string) error {
	return s.Skip(len(lit))
}
