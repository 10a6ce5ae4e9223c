package gbx

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
)

// Tags framing the thumbnail and comments. Only their lengths matter.
const (
	tagThumbnailOpen  = "<Thumbnail.jpg>"
	tagThumbnailClose = "</Thumbnail.jpg>"
	tagCommentsOpen   = "<Comments>"
	tagCommentsClose  = "</Comments>"
)

// decodeThumbnail reads chunk 0x03043007: a JPEG stored bottom row first,
// followed by the map comments. Version 0 carries nothing.
func decodeThumbnail(c *chunkReader) error {
	s, m := c.s, c.m

	version, err := s.ReadUint32()
	if err != nil {
		return err
	}
	if version == 0 {
		return nil
	}

	size, err := s.ReadUint32()
	if err != nil {
		return err
	}
	if err := s.SkipLiteral(tagThumbnailOpen); err != nil {
		return err
	}
	raw, err := s.ReadBytes(int(size))
	if err != nil {
		return err
	}
	m.ThumbnailJPEG = raw
	if len(raw) > 0 {
		img, err := decodeJPEGFlipped(raw)
		if err != nil {
			if err := c.collaborator("thumbnail jpeg", err); err != nil {
				return err
			}
		} else {
			m.Thumbnail = img
		}
	}
	if err := s.SkipLiteral(tagThumbnailClose); err != nil {
		return err
	}

	if err := s.SkipLiteral(tagCommentsOpen); err != nil {
		return err
	}
	if err := c.readString(&m.Comments); err != nil {
		return err
	}
	return s.SkipLiteral(tagCommentsClose)
}

func decodeJPEGFlipped(raw []byte) (*image.RGBA, error) {
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return FlipVertical(img), nil
}

// FlipVertical returns a copy of img with its rows in reverse order,
// rebased to the origin.
func FlipVertical(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := image.Rect(0, h-1-y, w, h-y)
		draw.Draw(dst, row, img, image.Pt(b.Min.X, b.Min.Y+y), draw.Src)
	}
	return dst
}
