package gbx

import (
	"fmt"

	"gbxmeta/internal/gbxfmt"
)

// Header chunk ids of the map class.
const (
	ChunkTmDesc    uint32 = 0x03043002
	ChunkCommon    uint32 = 0x03043003
	ChunkVersion   uint32 = 0x03043004
	ChunkCommunity uint32 = 0x03043005
	ChunkThumbnail uint32 = 0x03043007
	ChunkAuthor    uint32 = 0x03043008
)

type chunkDecoder struct {
	name   string
	decode func(*chunkReader) error
}

// chunkDecoders is the dispatch table. Ids not listed here are skipped by
// their declared size.
var chunkDecoders = map[uint32]chunkDecoder{
	ChunkTmDesc:    {"tmdesc", decodeTmDesc},
	ChunkCommon:    {"common", decodeCommon},
	ChunkCommunity: {"community", decodeCommunity},
	ChunkThumbnail: {"thumbnail", decodeThumbnail},
	ChunkAuthor:    {"author", decodeAuthor},
}

// chunkReader is the state handed to one chunk decoder.
type chunkReader struct {
	s     *gbxfmt.Stream
	m     *Map
	opts  gbxfmt.Options
	diags *gbxfmt.Diags
	hdr   ChunkHeader
}

// collaborator handles a rejection from the XML or image decoder. In strict
// mode it becomes the chunk's error; otherwise it is recorded and the
// decoder carries on without the derived fields.
func (c *chunkReader) collaborator(what string, err error) error {
	err = fmt.Errorf("%w: %s: %v", ErrCollaborator, what, err)
	if c.opts.Mode == gbxfmt.ModeStrict {
		return err
	}
	c.diags.Addf(uint64(c.hdr.Offset), gbxfmt.DiagCollaborator, "chunk 0x%08x: %v", c.hdr.ID, err)
	return nil
}

func (c *chunkReader) readUint32(dst **uint32) error {
	v, err := c.s.ReadUint32()
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func (c *chunkReader) readBool(dst **bool) error {
	v, err := c.s.ReadBool32()
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func (c *chunkReader) readString(dst **string) error {
	v, err := c.s.ReadString()
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func (c *chunkReader) readVec2(dst **Vec2) error {
	x, err := c.s.ReadFloat32()
	if err != nil {
		return err
	}
	y, err := c.s.ReadFloat32()
	if err != nil {
		return err
	}
	*dst = &Vec2{X: x, Y: y}
	return nil
}

func (c *chunkReader) skipBool() error {
	_, err := c.s.ReadBool32()
	return err
}

func identPtr(id gbxfmt.Ident) *string {
	if !id.Valid {
		return nil
	}
	return ptr(id.Value)
}
