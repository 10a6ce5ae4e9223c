package gbx

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"strings"
	"testing"
)

// builder assembles little-endian GBX test input.
type builder struct {
	buf []byte
}

func (b *builder) u8(v uint8) *builder   { b.buf = append(b.buf, v); return b }
func (b *builder) u16(v uint16) *builder { b.buf = binary.LittleEndian.AppendUint16(b.buf, v); return b }
func (b *builder) u32(v uint32) *builder { b.buf = binary.LittleEndian.AppendUint32(b.buf, v); return b }
func (b *builder) u64(v uint64) *builder { b.buf = binary.LittleEndian.AppendUint64(b.buf, v); return b }
func (b *builder) f32(v float32) *builder {
	return b.u32(math.Float32bits(v))
}
func (b *builder) bool(v bool) *builder {
	if v {
		return b.u32(1)
	}
	return b.u32(0)
}
func (b *builder) raw(p []byte) *builder { b.buf = append(b.buf, p...); return b }
func (b *builder) lit(s string) *builder { b.buf = append(b.buf, s...); return b }
func (b *builder) str(s string) *builder { return b.u32(uint32(len(s))).lit(s) }

// define writes a lookback reference that introduces a new string.
func (b *builder) define(s string) *builder { return b.u32(0x40000000).str(s) }

// ref writes a lookback back-reference to the 1-based index i.
func (b *builder) ref(i uint32) *builder { return b.u32(0x40000000 | i) }

func (b *builder) bytes() []byte { return b.buf }

type testChunk struct {
	id    uint32
	body  []byte
	heavy bool
	size  int // declared size; -1 = len(body)
}

func chunk(id uint32, body []byte) testChunk {
	return testChunk{id: id, body: body, size: -1}
}

// mapFile builds a complete map-class file with the given header chunks.
func mapFile(version uint16, chunks ...testChunk) []byte {
	b := &builder{}
	b.lit(Magic).u16(version)
	if version >= 3 {
		b.lit("BUC")
	}
	if version >= 4 {
		b.lit("R")
	}
	b.u32(ClassMap)
	if version >= 6 {
		var bodies builder
		for _, c := range chunks {
			bodies.raw(c.body)
		}
		b.u32(uint32(len(bodies.buf) + 4)).u32(uint32(len(chunks)))
		for _, c := range chunks {
			size := uint32(len(c.body))
			if c.size >= 0 {
				size = uint32(c.size)
			}
			if c.heavy {
				size |= 0x80000000
			}
			b.u32(c.id).u32(size)
		}
		b.raw(bodies.buf)
	}
	return b.u32(0).bytes()
}

const (
	refUID        = "gVy2t2Al4zE05XIHu1BEiXRMAYa"
	refTitlePack  = "esl_comp@lt_forever"
	refName       = "$s$fffspmWeekly - $f01Christmas $fffChrisis$f01."
	refAuthorName = "$f00BB$ffferizel"
	refAuthorZone = "World|Europe|Norway"
)

var refLightmapUID uint64 = 0x0DC9B898B9C148D8

func tmDescBody(version uint8) []byte {
	b := &builder{}
	b.u8(version).bool(false)
	if version < 1 {
		return b.bytes()
	}
	b.u32(364000).u32(291000).u32(257000).u32(242166)
	if version == 2 {
		b.u8(0)
	}
	if version < 4 {
		return b.bytes()
	}
	b.u32(9115)
	if version < 5 {
		return b.bytes()
	}
	b.bool(true)
	if version == 6 {
		b.bool(false)
	}
	if version < 7 {
		return b.bytes()
	}
	b.u32(0)
	if version < 9 {
		return b.bytes()
	}
	b.u32(0)
	if version < 10 {
		return b.bytes()
	}
	b.u32(242166)
	if version < 11 {
		return b.bytes()
	}
	b.u32(0x2)
	if version < 12 {
		return b.bytes()
	}
	b.bool(false)
	if version < 13 {
		return b.bytes()
	}
	return b.u32(38).u32(1).bytes()
}

func commonBody(version uint8) []byte {
	b := &builder{}
	b.u8(version).u32(3).define(refUID).define("Stadium").define("erizel")
	b.str(refName).u8(8)
	if version < 1 {
		return b.bytes()
	}
	b.bool(false).str("")
	if version < 2 {
		return b.bytes()
	}
	b.define("48x48Day").ref(2).define("Nadeo")
	if version < 3 {
		return b.bytes()
	}
	b.f32(1.5).f32(-2)
	if version < 4 {
		return b.bytes()
	}
	b.f32(3).f32(4)
	if version < 5 {
		return b.bytes()
	}
	b.u64(0).u64(0)
	if version < 6 {
		return b.bytes()
	}
	b.str(`TrackMania\TM_Race`).str("")
	if version < 8 {
		return b.bool(false).bytes()
	}
	b.u64(refLightmapUID)
	if version < 9 {
		return b.bytes()
	}
	b.u8(6)
	if version < 11 {
		return b.bytes()
	}
	return b.define(refTitlePack).bytes()
}

var refDeps = []Dependency{
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Advert.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Advert.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_U.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_U.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_D.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_D.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_DL.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_DL.png"},
	{"file": `Skins\Stadium\CircuitScreen\WhiteLeft.webm`},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_R.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_R.png"},
	{"file": `Skins\Stadium\CircuitScreen\WhiteRight.webm`},
	{"file": `Skins\Stadium\Inflatable\White.zip`},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_L.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_L.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_DR.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_DR.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_AlternativeRoute.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_AlternativeRoute.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_UL.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_UL.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_UR.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_UR.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_DriveBackwards.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_DriveBackwards.png"},
	{"file": `Skins\Any\Advertisement\U6gek3d.jpg`, "url": "http://i.imgur.com/U6gek3d.jpg"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_UTurn_R.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_UTurn_R.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Loop_L.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Loop_L.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Respawn.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Respawn.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_GPS.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_GPS.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Gift1.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Gift1.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Gift2.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Gift2.png"},
	{"file": `Skins\Any\Advertisement\CS_SpmWeekly_Gift3.png`, "url": "http://maniacdn.net/toffe/spamweekly/CS_SpmWeekly_Gift3.png"},
	{"file": `Skins\Stadium\Mod\MXmas15.zip`, "url": "http://ac.ozontm.de/download/MXmas15.zip"},
	{"file": `Skins\Models\StadiumCar\NOR.zip`},
	{"file": `Skins\Models\StadiumCar\Mastersoftyping Carskin TM2.zip`},
}

func communityXML(deps []Dependency) string {
	var sb strings.Builder
	sb.WriteString(`<header type="map" exever="3.3.0" exebuild="2015-12-10_18_38" title="TMStadium">`)
	sb.WriteString(`<ident uid="` + refUID + `" name="spmWeekly" author="erizel" authorzone="` + refAuthorZone + `"/>`)
	sb.WriteString(`<desc envir="Stadium" mood="Day" type="Race" maptype="TrackMania\TM_Race" mapstyle="" validated="1" nblaps="0" displaycost="9115" mod="MXmas15" hasghostblocks="1"/>`)
	sb.WriteString(`<playermodel id=""/>`)
	sb.WriteString(`<times bronze="364000" silver="291000" gold="257000" authortime="242166" authorscore="242166"/>`)
	sb.WriteString(`<deps>`)
	for _, d := range deps {
		sb.WriteString(`<dep file="` + d.File() + `"`)
		if u := d.URL(); u != "" {
			sb.WriteString(` url="` + u + `"`)
		}
		sb.WriteString(`/>`)
	}
	sb.WriteString(`</deps></header>`)
	return sb.String()
}

func communityBody(xml string) []byte {
	return (&builder{}).str(xml).bytes()
}

// testJPEG encodes a 16x16 image, red on the top half and blue below.
func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		c := color.RGBA{R: 255, A: 255}
		if y >= 8 {
			c = color.RGBA{B: 255, A: 255}
		}
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func thumbnailBody(jpg []byte, comments string) []byte {
	b := &builder{}
	return b.u32(1).u32(uint32(len(jpg))).
		lit(tagThumbnailOpen).raw(jpg).lit(tagThumbnailClose).
		lit(tagCommentsOpen).str(comments).lit(tagCommentsClose).
		bytes()
}

func authorBody() []byte {
	b := &builder{}
	return b.u32(1).u32(0).str("erizel").str(refAuthorName).str(refAuthorZone).str("").bytes()
}

// referenceFile rebuilds the header of the historical acceptance map.
func referenceFile(t *testing.T) []byte {
	t.Helper()
	return mapFile(6,
		chunk(ChunkTmDesc, tmDescBody(13)),
		chunk(ChunkCommon, commonBody(11)),
		chunk(ChunkVersion, (&builder{}).u32(6).bytes()),
		testChunk{id: ChunkCommunity, body: communityBody(communityXML(refDeps)), heavy: true, size: -1},
		testChunk{id: ChunkThumbnail, body: thumbnailBody(testJPEG(t), ""), heavy: true, size: -1},
		chunk(ChunkAuthor, authorBody()),
	)
}
