package gbx

import (
	"fmt"

	"gbxmeta/internal/gbxfmt"
)

const (
	chunkHeavyBit  = 0x80000000
	chunkSizeMask  = 0x7fffffff
	dirEntryLength = 8
)

// readDirectory reads the user data size, the chunk count and every
// (id, size) pair. No body bytes are consumed.
func readDirectory(s *gbxfmt.Stream, opts gbxfmt.Options) ([]ChunkHeader, error) {
	if _, err := s.ReadUint32(); err != nil {
		return nil, fmt.Errorf("gbx: user data size: %w", err)
	}
	count, err := s.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("gbx: chunk count: %w", err)
	}
	if uint64(count) > uint64(opts.EffectiveMaxChunks()) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyChunks, count, opts.EffectiveMaxChunks())
	}
	if uint64(count)*dirEntryLength > uint64(s.Remaining()) {
		return nil, fmt.Errorf("gbx: chunk directory of %d entries at 0x%x: %w", count, s.Position(), ErrUnexpectedEOF)
	}

	hdrs := make([]ChunkHeader, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := s.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("gbx: chunk %d id: %w", i, err)
		}
		raw, err := s.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("gbx: chunk %d size: %w", i, err)
		}
		hdrs = append(hdrs, ChunkHeader{
			ID:    id,
			Size:  raw & chunkSizeMask,
			Heavy: raw&chunkHeavyBit != 0,
		})
	}
	return hdrs, nil
}
