package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbxmeta/internal/gbx"
)

type le []byte

func (b le) u8(v uint8) le   { return append(b, v) }
func (b le) u16(v uint16) le { return binary.LittleEndian.AppendUint16(b, v) }
func (b le) u32(v uint32) le { return binary.LittleEndian.AppendUint32(b, v) }
func (b le) str(s string) le { return append(b.u32(uint32(len(s))), s...) }
func (b le) def(s string) le { return b.u32(0x40000000).str(s) }

// mapBytes builds a version 6 map file with a Common chunk and, when thumb
// is non-nil, a Thumbnail chunk carrying thumb as its image bytes.
func mapBytes(uid, name string, thumb []byte) []byte {
	common := le{}.u8(0).u32(3).def(uid).def("Canyon").def("tester").str(name).u8(8)
	type chunk struct {
		id   uint32
		body le
	}
	chunks := []chunk{{gbx.ChunkCommon, common}}
	if thumb != nil {
		body := le{}.u32(1).u32(uint32(len(thumb)))
		body = append(body, "<Thumbnail.jpg>"...)
		body = append(body, thumb...)
		body = append(body, "</Thumbnail.jpg><Comments>"...)
		body = append(body.str(""), "</Comments>"...)
		chunks = append(chunks, chunk{gbx.ChunkThumbnail, body})
	}

	b := le("GBX").u16(6)
	b = append(b, "BUCR"...)
	b = b.u32(gbx.ClassMap).u32(0).u32(uint32(len(chunks)))
	for _, c := range chunks {
		b = b.u32(c.id).u32(uint32(len(c.body)))
	}
	for _, c := range chunks {
		b = append(b, c.body...)
	}
	return b.u32(0)
}

func writeTree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

func TestScan(t *testing.T) {
	a := mapBytes("uidA", "Alpha", nil)
	dir := writeTree(t, map[string][]byte{
		"b/Alpha.Map.Gbx":      a,
		"a/Copy.map.gbx":       a,
		"c/Beta.Map.Gbx":       mapBytes("uidB", "Beta", []byte("not a jpeg")),
		"c/Broken.Map.Gbx":     []byte("GBX"),
		"c/NotAMap.Map.Gbx":    le("GBX").u16(2).u32(0x03093000),
		"c/Ignored.Replay.Gbx": a,
	})

	c, err := New(Options{Workers: 2})
	require.NoError(t, err)
	rows, err := c.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var paths []string
	for _, r := range rows {
		rel, _ := filepath.Rel(dir, r.Path)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"a/Copy.map.gbx",
		"b/Alpha.Map.Gbx",
		"c/Beta.Map.Gbx",
		"c/Broken.Map.Gbx",
		"c/NotAMap.Map.Gbx",
	}, paths)

	copyRow, alpha, beta, broken, notMap := rows[0], rows[1], rows[2], rows[3], rows[4]

	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, "uidA", alpha.UID)
	assert.Equal(t, "tester", alpha.Author)
	assert.Equal(t, gbx.EnvironmentCanyon, alpha.Environment)
	assert.Equal(t, gbx.ModeMulti, alpha.Mode)
	assert.True(t, alpha.Map)
	assert.Equal(t, Digest(a), alpha.Digest)
	assert.Equal(t, int64(len(a)), alpha.Size)
	assert.False(t, copyRow.Duplicate, "first path keeps the original")
	assert.True(t, alpha.Duplicate)
	assert.Equal(t, copyRow.Digest, alpha.Digest)

	assert.Equal(t, Digest([]byte("not a jpeg")), beta.ThumbnailDigest)
	assert.Equal(t, 1, beta.Diagnostics)
	assert.Equal(t, 2, beta.Chunks)

	assert.NotEmpty(t, broken.Error)
	assert.Equal(t, gbx.EnvironmentUnknown, broken.Environment)

	assert.False(t, notMap.Map)
	assert.Empty(t, notMap.Error)
	assert.EqualValues(t, 2, notMap.Version)

	s := Summarize(rows)
	assert.Equal(t, 5, s.Files)
	assert.Equal(t, 3, s.Maps)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 1, s.Duplicates)
	assert.Equal(t, map[string]int{"Canyon": 3}, s.Environments)

	var sb strings.Builder
	s.Write(&sb)
	assert.Contains(t, sb.String(), "5 files, 3 maps, 1 errors, 1 duplicates")
	assert.Contains(t, sb.String(), "Canyon")
}

func TestScan_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string][]byte{"x.Map.Gbx": mapBytes("u", "n", nil)})
	c, err := New(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Scan(ctx, dir)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestScan_MissingDir(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	_, err = c.Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_Cached(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"one.Map.Gbx": mapBytes("u", "n", nil),
		"two.Map.Gbx": mapBytes("u", "n", nil),
	})
	c, err := New(Options{CacheSize: 1})
	require.NoError(t, err)

	_, f1 := c.Decode(filepath.Join(dir, "one.Map.Gbx"))
	_, f2 := c.Decode(filepath.Join(dir, "two.Map.Gbx"))
	require.NotNil(t, f1)
	assert.Same(t, f1, f2, "identical content decodes once")

	row, f := c.Decode(filepath.Join(dir, "three.Map.Gbx"))
	assert.Nil(t, f)
	assert.NotEmpty(t, row.Error)
}

func TestMatch(t *testing.T) {
	c, err := New(Options{Ext: ".Challenge.Gbx"})
	require.NoError(t, err)
	assert.True(t, c.Match("a.challenge.gbx"))
	assert.False(t, c.Match("a.Map.Gbx"))
}
