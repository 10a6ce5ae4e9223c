package gbx

import (
	"image"

	"gbxmeta/internal/gbxfmt"
)

// ChunkHeader is one entry of the header chunk directory.
type ChunkHeader struct {
	ID     uint32 `json:"id" yaml:"id" cbor:"id"`
	Size   uint32 `json:"size" yaml:"size" cbor:"size"`    // flag bit masked off
	Heavy  bool   `json:"heavy" yaml:"heavy" cbor:"heavy"` // reserved MSB of the raw size
	Offset int    `json:"offset" yaml:"offset" cbor:"offset"`
}

// Name returns the decoder name for known chunk ids.
func (h ChunkHeader) Name() string {
	if d, ok := chunkDecoders[h.ID]; ok {
		return d.name
	}
	if h.ID == ChunkVersion {
		return "version"
	}
	return "unknown"
}

// Dependency is the attribute set of one <dep> element, usually "file"
// and optionally "url".
type Dependency map[string]string

func (d Dependency) File() string { return d["file"] }
func (d Dependency) URL() string  { return d["url"] }

// Vec2 is a pair of floats from the Common chunk.
type Vec2 struct {
	X float32 `json:"x" yaml:"x" cbor:"x"`
	Y float32 `json:"y" yaml:"y" cbor:"y"`
}

// Map holds everything the header chunks describe. Pointer fields are nil
// when no chunk set them; enumerated fields default to Unknown.
type Map struct {
	// Common chunk.
	UID               *string     `json:"uid,omitempty" yaml:"uid,omitempty" cbor:"uid,omitempty"`
	Environment       Environment `json:"environment" yaml:"environment" cbor:"environment"`
	Author            *string     `json:"author,omitempty" yaml:"author,omitempty" cbor:"author,omitempty"`
	Name              *string     `json:"name,omitempty" yaml:"name,omitempty" cbor:"name,omitempty"`
	Mode              Mode        `json:"mode" yaml:"mode" cbor:"mode"`
	PasswordProtected *bool       `json:"password_protected,omitempty" yaml:"password_protected,omitempty" cbor:"password_protected,omitempty"`
	Mood              Mood        `json:"mood" yaml:"mood" cbor:"mood"`
	Decoration        Decoration  `json:"decoration" yaml:"decoration" cbor:"decoration"`
	DecorationAuthor  *string     `json:"decoration_author,omitempty" yaml:"decoration_author,omitempty" cbor:"decoration_author,omitempty"`
	MapOrigin         *Vec2       `json:"map_origin,omitempty" yaml:"map_origin,omitempty" cbor:"map_origin,omitempty"`
	MapTarget         *Vec2       `json:"map_target,omitempty" yaml:"map_target,omitempty" cbor:"map_target,omitempty"`
	MapKind           *string     `json:"map_kind,omitempty" yaml:"map_kind,omitempty" cbor:"map_kind,omitempty"`
	MapStyle          *string     `json:"map_style,omitempty" yaml:"map_style,omitempty" cbor:"map_style,omitempty"`
	LightmapCacheUID  *uint64     `json:"lightmap_cache_uid,omitempty" yaml:"lightmap_cache_uid,omitempty" cbor:"lightmap_cache_uid,omitempty"`
	LightmapVersion   *uint8      `json:"lightmap_version,omitempty" yaml:"lightmap_version,omitempty" cbor:"lightmap_version,omitempty"`
	TitlePack         *string     `json:"title_pack,omitempty" yaml:"title_pack,omitempty" cbor:"title_pack,omitempty"`

	// TmDesc chunk.
	BronzeTime          *uint32 `json:"bronze_time,omitempty" yaml:"bronze_time,omitempty" cbor:"bronze_time,omitempty"`
	SilverTime          *uint32 `json:"silver_time,omitempty" yaml:"silver_time,omitempty" cbor:"silver_time,omitempty"`
	GoldTime            *uint32 `json:"gold_time,omitempty" yaml:"gold_time,omitempty" cbor:"gold_time,omitempty"`
	AuthorTime          *uint32 `json:"author_time,omitempty" yaml:"author_time,omitempty" cbor:"author_time,omitempty"`
	DisplayCost         *uint32 `json:"display_cost,omitempty" yaml:"display_cost,omitempty" cbor:"display_cost,omitempty"`
	Multilap            *bool   `json:"multilap,omitempty" yaml:"multilap,omitempty" cbor:"multilap,omitempty"`
	MapType             MapType `json:"map_type" yaml:"map_type" cbor:"map_type"`
	AuthorScore         *uint32 `json:"author_score,omitempty" yaml:"author_score,omitempty" cbor:"author_score,omitempty"`
	SimpleEditor        *bool   `json:"simple_editor,omitempty" yaml:"simple_editor,omitempty" cbor:"simple_editor,omitempty"`
	ContainsGhostBlocks *bool   `json:"contains_ghost_blocks,omitempty" yaml:"contains_ghost_blocks,omitempty" cbor:"contains_ghost_blocks,omitempty"`
	Checkpoints         *uint32 `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty" cbor:"checkpoints,omitempty"`
	Laps                *uint32 `json:"laps,omitempty" yaml:"laps,omitempty" cbor:"laps,omitempty"`

	// Community chunk.
	SoftwareVersion *string      `json:"software_version,omitempty" yaml:"software_version,omitempty" cbor:"software_version,omitempty"`
	SoftwareBuild   *string      `json:"software_build,omitempty" yaml:"software_build,omitempty" cbor:"software_build,omitempty"`
	Title           *string      `json:"title,omitempty" yaml:"title,omitempty" cbor:"title,omitempty"`
	Mod             *string      `json:"mod,omitempty" yaml:"mod,omitempty" cbor:"mod,omitempty"`
	Dependencies    []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" cbor:"dependencies,omitempty"`

	// Thumbnail chunk. The image is stored top row first.
	Thumbnail     image.Image `json:"-" yaml:"-" cbor:"-"`
	ThumbnailJPEG []byte      `json:"-" yaml:"-" cbor:"-"`
	Comments      *string     `json:"comments,omitempty" yaml:"comments,omitempty" cbor:"comments,omitempty"`

	// Author chunk.
	AuthorName *string `json:"author_name,omitempty" yaml:"author_name,omitempty" cbor:"author_name,omitempty"`
	AuthorZone *string `json:"author_zone,omitempty" yaml:"author_zone,omitempty" cbor:"author_zone,omitempty"`
}

func newMap() *Map {
	return &Map{
		Environment: EnvironmentUnknown,
		Mode:        ModeUnknown,
		Mood:        MoodUnknown,
		Decoration:  DecorationUnknown,
		MapType:     MapTypeUnknown,
	}
}

// File is the decoded container. Map is nil when the class id is not the
// map class, in which case only Version and ClassID are meaningful, and
// when only the chunk directory was requested.
type File struct {
	Version   uint16        `json:"version" yaml:"version" cbor:"version"`
	ClassID   uint32        `json:"class_id" yaml:"class_id" cbor:"class_id"`
	Chunks    []ChunkHeader `json:"chunks,omitempty" yaml:"chunks,omitempty" cbor:"chunks,omitempty"`
	NodeCount *uint32       `json:"node_count,omitempty" yaml:"node_count,omitempty" cbor:"node_count,omitempty"`
	Map       *Map          `json:"map,omitempty" yaml:"map,omitempty" cbor:"map,omitempty"`
	Diags     []gbxfmt.Diag `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" cbor:"diagnostics,omitempty"`
}

// IsMap reports whether the file carried the map class.
func (f *File) IsMap() bool { return f.ClassID == ClassMap }

func ptr[T any](v T) *T { return &v }
