package gbxfmt

import (
	"errors"
	"fmt"
)

var ErrCorruptLookback = errors.New("lookback: reference to undefined string")

// Lookback index encoding.
//
//	bits 31..30: 00 = plain index, any other = string-table reference
//	bits 29..0:  1-based index; 0 with a flag bit set defines a new string
const (
	lookbackFlagMask  = 0xc0000000
	lookbackIndexMask = 0x3fffffff
)

// LookbackVersion is the only table version maps are known to use.
const LookbackVersion = 3

// Ident is one resolved lookback string. Valid is false for the reserved
// plain index 0, which carries no string.
type Ident struct {
	Value string `json:"value" yaml:"value"`
	Valid bool   `json:"valid" yaml:"valid"`
}

// String returns the value, or "" when not valid.
func (id Ident) String() string { return id.Value }

// Meta is the identity triple (id, collection, author) read by ReadMeta.
type Meta struct {
	ID         Ident
	Collection Ident
	Author     Ident
}

// Lookback is the per-chunk table of strings defined so far.
type Lookback struct {
	strings []string
	version uint32
	seen    bool
}

// Len returns the number of strings defined so far.
func (l *Lookback) Len() int { return len(l.strings) }

// Version returns the lookback version consumed by the first ReadMeta,
// or 0 if none was read.
func (l *Lookback) Version() uint32 { return l.version }

func (l *Lookback) at(i uint32) (Ident, error) {
	if int64(i) > int64(len(l.strings)) {
		return Ident{}, fmt.Errorf("%w: index %d, %d defined", ErrCorruptLookback, i, len(l.strings))
	}
	return Ident{Value: l.strings[i-1], Valid: true}, nil
}

// Resolve reads one lookback string reference from s.
func (l *Lookback) Resolve(s *Stream) (Ident, error) {
	raw, err := s.ReadUint32()
	if err != nil {
		return Ident{}, err
	}
	idx := raw & lookbackIndexMask
	if raw&lookbackFlagMask == 0 {
		if idx == 0 {
			return Ident{}, nil
		}
		return l.at(idx)
	}
	if idx != 0 {
		return l.at(idx)
	}
	str, err := s.ReadString()
	if err != nil {
		return Ident{}, err
	}
	l.strings = append(l.strings, str)
	return Ident{Value: str, Valid: true}, nil
}

// ReadMeta reads an identity triple. The lookback version precedes the
// first reference only, while the table is still empty.
func (l *Lookback) ReadMeta(s *Stream) (Meta, error) {
	var m Meta
	if len(l.strings) == 0 {
		v, err := s.ReadUint32()
		if err != nil {
			return m, err
		}
		if !l.seen {
			l.version = v
			l.seen = true
		}
	}
	for _, dst := range []*Ident{&m.ID, &m.Collection, &m.Author} {
		id, err := l.Resolve(s)
		if err != nil {
			return m, err
		}
		*dst = id
	}
	return m, nil
}
