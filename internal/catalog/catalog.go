// Package catalog decodes every GBX map under a directory tree into one
// summary row per file.
//
// Files are decoded by a bounded worker pool. Each file's bytes are hashed
// with BLAKE3 first, and byte-identical copies are decoded only once through
// an LRU keyed by that digest. Rows come back sorted by path.
package catalog

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"gbxmeta/internal/gbx"
	"gbxmeta/internal/gbxfmt"
)

// DefaultExt is the suffix matched when Options.Ext is empty.
const DefaultExt = ".map.gbx"

// DefaultCacheSize bounds the digest cache when Options.CacheSize is zero.
const DefaultCacheSize = 256

// Options controls a scan.
type Options struct {
	Workers   int    // 0 = GOMAXPROCS
	Ext       string // case-insensitive file suffix
	CacheSize int
	Decode    gbxfmt.Options
}

// Row is one line of the catalog JSONL.
type Row struct {
	Path            string          `json:"path"`
	Size            int64           `json:"size"`
	Digest          string          `json:"digest"`
	Version         uint16          `json:"version,omitempty"`
	ClassID         uint32          `json:"class_id,omitempty"`
	Map             bool            `json:"map"`
	Chunks          int             `json:"chunks,omitempty"`
	UID             string          `json:"uid,omitempty"`
	Name            string          `json:"name,omitempty"`
	Author          string          `json:"author,omitempty"`
	Environment     gbx.Environment `json:"environment"`
	Mode            gbx.Mode        `json:"mode"`
	MapType         gbx.MapType     `json:"map_type"`
	AuthorTime      *uint32         `json:"author_time,omitempty"`
	Mod             string          `json:"mod,omitempty"`
	Dependencies    int             `json:"dependencies,omitempty"`
	ThumbnailDigest string          `json:"thumbnail_digest,omitempty"`
	Diagnostics     int             `json:"diagnostics,omitempty"`
	Duplicate       bool            `json:"duplicate,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Catalog decodes files, reusing results for identical content. It is safe
// for concurrent use.
type Catalog struct {
	opts  Options
	cache *lru.Cache[string, *gbx.File]
}

// New returns a Catalog with defaults filled in.
func New(opts Options) (*Catalog, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *gbx.File](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Catalog{opts: opts, cache: cache}, nil
}

// Match reports whether name carries the configured suffix.
func (c *Catalog) Match(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(c.opts.Ext))
}

// Files lists the matching regular files under dir, sorted.
func (c *Catalog) Files(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && c.Match(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Scan decodes every matching file under dir. Per-file failures land in
// Row.Error; only walk failures and cancellation fail the scan.
func (c *Catalog) Scan(ctx context.Context, dir string) ([]Row, error) {
	paths, err := c.Files(dir)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i], _ = c.Decode(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	markDuplicates(rows)
	return rows, nil
}

// Decode reads and decodes one file. On failure the row carries the error
// and whatever was known before it, and the file is nil. The returned file
// may be shared with other callers and must not be modified.
func (c *Catalog) Decode(path string) (Row, *gbx.File) {
	row := Row{
		Path:        path,
		Environment: gbx.EnvironmentUnknown,
		Mode:        gbx.ModeUnknown,
		MapType:     gbx.MapTypeUnknown,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		row.Error = err.Error()
		return row, nil
	}
	row.Size = int64(len(data))
	row.Digest = Digest(data)

	f, ok := c.cache.Get(row.Digest)
	if !ok {
		f, err = gbx.Decode(data, c.opts.Decode)
		if err != nil {
			row.Error = err.Error()
			return row, nil
		}
		c.cache.Add(row.Digest, f)
	}
	fill(&row, f)
	return row, f
}

func fill(row *Row, f *gbx.File) {
	row.Version = f.Version
	row.ClassID = f.ClassID
	row.Map = f.IsMap()
	row.Chunks = len(f.Chunks)
	row.Diagnostics = len(f.Diags)

	m := f.Map
	if m == nil {
		return
	}
	row.UID = deref(m.UID)
	row.Name = deref(m.Name)
	row.Author = deref(m.Author)
	row.Environment = m.Environment
	row.Mode = m.Mode
	row.MapType = m.MapType
	row.AuthorTime = m.AuthorTime
	row.Mod = deref(m.Mod)
	row.Dependencies = len(m.Dependencies)
	if len(m.ThumbnailJPEG) > 0 {
		row.ThumbnailDigest = Digest(m.ThumbnailJPEG)
	}
}

// markDuplicates flags every row whose digest appeared at an earlier path.
func markDuplicates(rows []Row) {
	seen := make(map[string]bool, len(rows))
	for i := range rows {
		d := rows[i].Digest
		if d == "" {
			continue
		}
		if seen[d] {
			rows[i].Duplicate = true
		}
		seen[d] = true
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
