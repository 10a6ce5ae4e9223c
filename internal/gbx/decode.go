// Package gbx decodes the header of GBX map files: the magic, the class id
// and the header chunks describing timing, environment, scoring and
// dependencies.
//
// Layout (little-endian):
//
//	"GBX"                  3 bytes
//	version                u16
//	[v>=3] format flags    3 bytes ("BUC")
//	[v>=4] body flag       1 byte ("R" or "E")
//	class id               u32 (0x03043000 for maps)
//	[v>=6] user data size  u32
//	       chunk count     u32
//	       count * {id u32, size u32 | heavy bit}
//	       count * body
//	node count             u32
package gbx

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gbxmeta/internal/gbxfmt"
)

// Magic is the 3-byte file signature.
const Magic = "GBX"

// ClassMap is the class id of map (challenge) files.
const ClassMap uint32 = 0x03043000

var (
	// ErrNotGBX means the input does not start with the GBX magic. It is a
	// non-match signal, not a decoding failure.
	ErrNotGBX = errors.New("gbx: not a GBX file")

	ErrUnexpectedEOF   = gbxfmt.ErrUnexpectedEOF
	ErrCorruptLookback = gbxfmt.ErrCorruptLookback
	ErrCollaborator    = errors.New("gbx: embedded content rejected")
	ErrTooManyChunks   = errors.New("gbx: header chunk count exceeds limit")
)

// Decode decodes a complete GBX file held in data.
//
// It returns ErrNotGBX when the magic does not match. When the class id is
// not ClassMap the returned File has a nil Map and nothing past the class id
// is read. Decode keeps no state between calls and is safe to call from
// several goroutines on distinct inputs.
func Decode(data []byte, opts gbxfmt.Options) (*File, error) {
	s := gbxfmt.NewStream(data)

	magic, err := s.ReadBytes(len(Magic))
	if err != nil || string(magic) != Magic {
		return nil, ErrNotGBX
	}

	f := &File{}
	if f.Version, err = s.ReadUint16(); err != nil {
		return nil, fmt.Errorf("gbx: version: %w", err)
	}

	// Format and compression flags are not needed for the header.
	if f.Version >= 3 {
		if err := s.Skip(3); err != nil {
			return nil, fmt.Errorf("gbx: format flags: %w", err)
		}
	}
	if f.Version >= 4 {
		if err := s.Skip(1); err != nil {
			return nil, fmt.Errorf("gbx: body flag: %w", err)
		}
	}

	if f.ClassID, err = s.ReadUint32(); err != nil {
		return nil, fmt.Errorf("gbx: class id: %w", err)
	}
	if f.ClassID != ClassMap {
		return f, nil
	}

	var diags gbxfmt.Diags
	m := newMap()

	if f.Version >= 6 {
		hdrs, err := readDirectory(s, opts)
		if err != nil {
			return nil, err
		}
		// Bodies follow the directory in the same order.
		for i := range hdrs {
			if err := decodeChunk(s, &hdrs[i], m, opts, &diags); err != nil {
				return nil, err
			}
		}
		f.Chunks = hdrs
	}

	nodes, err := s.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("gbx: node count at 0x%x: %w", s.Position(), err)
	}
	f.NodeCount = &nodes

	if !opts.HeaderOnly {
		f.Map = m
	}
	f.Diags = diags.Items()
	return f, nil
}

// DecodeReader reads r to the end and decodes the result.
func DecodeReader(r io.Reader, opts gbxfmt.Options) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gbx: read: %w", err)
	}
	return Decode(data, opts)
}

// DecodeFile reads the file at path and decodes it.
func DecodeFile(path string, opts gbxfmt.Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gbx: read %s: %w", path, err)
	}
	return Decode(data, opts)
}

// decodeChunk dispatches one body, or skips it when the id is unknown or
// only the directory was requested. After a decoder returns, the stream is
// moved to the declared end of the chunk so a short or long read cannot
// shift the chunks that follow.
func decodeChunk(s *gbxfmt.Stream, h *ChunkHeader, m *Map, opts gbxfmt.Options, diags *gbxfmt.Diags) error {
	h.Offset = s.Position()
	end := h.Offset + int(h.Size)

	dec, ok := chunkDecoders[h.ID]
	if !ok || opts.HeaderOnly {
		if err := s.Skip(int(h.Size)); err != nil {
			return fmt.Errorf("gbx: skip chunk 0x%08x at 0x%x: %w", h.ID, h.Offset, err)
		}
		return nil
	}

	c := &chunkReader{s: s, m: m, opts: opts, diags: diags, hdr: *h}
	if err := dec.decode(c); err != nil {
		return fmt.Errorf("gbx: chunk 0x%08x (%s) at 0x%x: %w", h.ID, dec.name, h.Offset, err)
	}

	if got := s.Position() - h.Offset; got != int(h.Size) {
		diags.Addf(uint64(h.Offset), gbxfmt.DiagChunkSize,
			"chunk 0x%08x (%s) consumed %d of %d bytes", h.ID, dec.name, got, h.Size)
		if err := s.SetPosition(end); err != nil {
			return fmt.Errorf("gbx: chunk 0x%08x (%s) at 0x%x: end: %w", h.ID, dec.name, h.Offset, err)
		}
	}
	return nil
}
