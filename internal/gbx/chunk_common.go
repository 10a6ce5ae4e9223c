package gbx

import "gbxmeta/internal/gbxfmt"

// decodeCommon reads chunk 0x03043003: identity, name, kind, decoration,
// lightmap and title pack. Its lookback table lives for this chunk only.
func decodeCommon(c *chunkReader) error {
	s, m := c.s, c.m

	version, err := s.ReadUint8()
	if err != nil {
		return err
	}

	var lb gbxfmt.Lookback
	ident, err := lb.ReadMeta(s)
	if err != nil {
		return err
	}
	if v := lb.Version(); v != gbxfmt.LookbackVersion {
		c.diags.Addf(uint64(c.hdr.Offset), gbxfmt.DiagLookbackVersion,
			"chunk 0x%08x: lookback version %d, want %d", c.hdr.ID, v, gbxfmt.LookbackVersion)
	}
	m.UID = identPtr(ident.ID)
	m.Environment = environmentOf(ident.Collection.Value)
	m.Author = identPtr(ident.Author)

	if err := c.readString(&m.Name); err != nil {
		return err
	}
	kind, err := s.ReadUint8()
	if err != nil {
		return err
	}
	m.Mode = modeOf(kind)
	if version < 1 {
		return nil
	}

	if err := c.readBool(&m.PasswordProtected); err != nil {
		return err
	}
	if err := s.SkipString(); err != nil { // password
		return err
	}
	if version < 2 {
		return nil
	}

	deco, err := lb.ReadMeta(s)
	if err != nil {
		return err
	}
	m.Mood = moodOf(deco.ID.Value)
	m.Decoration = decorationOf(deco.Collection.Value)
	m.DecorationAuthor = identPtr(deco.Author)
	if version < 3 {
		return nil
	}

	if err := c.readVec2(&m.MapOrigin); err != nil {
		return err
	}
	if version < 4 {
		return nil
	}

	if err := c.readVec2(&m.MapTarget); err != nil {
		return err
	}
	if version < 5 {
		return nil
	}

	// 128-bit value, unused.
	if err := s.Skip(16); err != nil {
		return err
	}
	if version < 6 {
		return nil
	}

	if err := c.readString(&m.MapKind); err != nil {
		return err
	}
	if err := c.readString(&m.MapStyle); err != nil {
		return err
	}
	if version < 8 {
		return c.skipBool()
	}

	uid, err := s.ReadUint64()
	if err != nil {
		return err
	}
	m.LightmapCacheUID = &uid
	if version < 9 {
		return nil
	}

	lm, err := s.ReadUint8()
	if err != nil {
		return err
	}
	m.LightmapVersion = &lm
	if version < 11 {
		return nil
	}

	title, err := lb.Resolve(s)
	if err != nil {
		return err
	}
	m.TitlePack = identPtr(title)
	return nil
}
