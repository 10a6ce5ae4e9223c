package gbx

// decodeAuthor reads chunk 0x03043008, the author's display name and zone.
func decodeAuthor(c *chunkReader) error {
	s, m := c.s, c.m

	if _, err := s.ReadUint32(); err != nil { // chunk version
		return err
	}
	if _, err := s.ReadUint32(); err != nil { // author version
		return err
	}
	if err := s.SkipString(); err != nil { // login, already in the common chunk
		return err
	}
	if err := c.readString(&m.AuthorName); err != nil {
		return err
	}
	if err := c.readString(&m.AuthorZone); err != nil {
		return err
	}
	return s.SkipString() // extra info
}
