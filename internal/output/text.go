package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gbxmeta/internal/gbx"
)

// WriteText prints a two-column summary of f.
func WriteText(w io.Writer, f *gbx.File) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(key string, v any) {
		fmt.Fprintf(tw, "%s\t%v\n", key, v)
	}

	row("version", f.Version)
	row("class", fmt.Sprintf("0x%08x", f.ClassID))
	if f.NodeCount != nil {
		row("nodes", *f.NodeCount)
	}
	for _, h := range f.Chunks {
		heavy := ""
		if h.Heavy {
			heavy = " heavy"
		}
		row("chunk", fmt.Sprintf("0x%08x %-9s %6d bytes at 0x%x%s", h.ID, h.Name(), h.Size, h.Offset, heavy))
	}

	if m := f.Map; m != nil {
		str := func(key string, p *string) {
			if p != nil {
				row(key, *p)
			}
		}
		u32 := func(key string, p *uint32) {
			if p != nil {
				row(key, *p)
			}
		}
		flag := func(key string, p *bool) {
			if p != nil {
				row(key, *p)
			}
		}

		str("name", m.Name)
		str("uid", m.UID)
		str("author", m.Author)
		str("author_name", m.AuthorName)
		str("author_zone", m.AuthorZone)
		row("environment", m.Environment)
		row("decoration", m.Decoration)
		row("mood", m.Mood)
		row("mode", m.Mode)
		row("map_type", m.MapType)
		str("map_kind", m.MapKind)
		str("map_style", m.MapStyle)
		str("title_pack", m.TitlePack)
		u32("bronze_time", m.BronzeTime)
		u32("silver_time", m.SilverTime)
		u32("gold_time", m.GoldTime)
		u32("author_time", m.AuthorTime)
		u32("author_score", m.AuthorScore)
		u32("display_cost", m.DisplayCost)
		u32("checkpoints", m.Checkpoints)
		u32("laps", m.Laps)
		flag("multilap", m.Multilap)
		flag("password_protected", m.PasswordProtected)
		flag("simple_editor", m.SimpleEditor)
		flag("contains_ghost_blocks", m.ContainsGhostBlocks)
		str("software_version", m.SoftwareVersion)
		str("software_build", m.SoftwareBuild)
		str("title", m.Title)
		str("mod", m.Mod)
		if m.Thumbnail != nil {
			b := m.Thumbnail.Bounds()
			row("thumbnail", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
		}
		str("comments", m.Comments)
		for _, d := range m.Dependencies {
			if u := d.URL(); u != "" {
				row("dependency", d.File()+" <"+u+">")
			} else {
				row("dependency", d.File())
			}
		}
	}
	for _, d := range f.Diags {
		row("diagnostic", d.String())
	}
	return tw.Flush()
}
