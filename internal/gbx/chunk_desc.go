package gbx

// decodeTmDesc reads chunk 0x03043002: medal times, cost, type and editor
// flags. Every field is unlocked by a higher chunk version than the one
// before it.
func decodeTmDesc(c *chunkReader) error {
	s, m := c.s, c.m

	version, err := s.ReadUint8()
	if err != nil {
		return err
	}
	if err := c.skipBool(); err != nil {
		return err
	}
	if version < 1 {
		return nil
	}

	for _, dst := range []**uint32{&m.BronzeTime, &m.SilverTime, &m.GoldTime, &m.AuthorTime} {
		if err := c.readUint32(dst); err != nil {
			return err
		}
	}
	if version == 2 {
		if err := s.Skip(1); err != nil {
			return err
		}
	}
	if version < 4 {
		return nil
	}

	if err := c.readUint32(&m.DisplayCost); err != nil {
		return err
	}
	if version < 5 {
		return nil
	}

	if err := c.readBool(&m.Multilap); err != nil {
		return err
	}
	if version == 6 {
		if err := c.skipBool(); err != nil {
			return err
		}
	}
	if version < 7 {
		return nil
	}

	kind, err := s.ReadUint32()
	if err != nil {
		return err
	}
	m.MapType = mapTypeOf(kind)
	if version < 9 {
		return nil
	}

	if _, err := s.ReadUint32(); err != nil {
		return err
	}
	if version < 10 {
		return nil
	}

	if err := c.readUint32(&m.AuthorScore); err != nil {
		return err
	}
	if version < 11 {
		return nil
	}

	editor, err := s.ReadUint32()
	if err != nil {
		return err
	}
	m.SimpleEditor = ptr(editor&0x1 != 0)
	m.ContainsGhostBlocks = ptr(editor&0x2 != 0)
	if version < 12 {
		return nil
	}

	if err := c.skipBool(); err != nil {
		return err
	}
	if version < 13 {
		return nil
	}

	if err := c.readUint32(&m.Checkpoints); err != nil {
		return err
	}
	return c.readUint32(&m.Laps)
}
