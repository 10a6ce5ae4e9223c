package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"gbxmeta/internal/catalog"
	"gbxmeta/internal/config"
	"gbxmeta/internal/output"
)

func cmdBatch(args []string) error {
	fs, common := newFlagSet("batch")
	dir := fs.String("dir", "", "directory to scan recursively")
	outPath := fs.String("out", "", "output JSONL file (default: stdout)")
	workers := fs.Int("workers", 0, "parallel decoders (default: GOMAXPROCS)")
	ext := fs.String("ext", "", "file suffix to match (default: .map.gbx)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("dir", *dir); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	if fs.Changed("workers") {
		cfg.Workers = *workers
	}
	if fs.Changed("ext") {
		cfg.Ext = *ext
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := newCatalog(cfg)
	if err != nil {
		return err
	}
	log.Debug("scanning", "dir", *dir, "workers", cfg.Workers, "ext", cfg.Ext)
	rows, err := cat.Scan(ctx, *dir)
	if err != nil {
		return err
	}

	var w io.Writer = stdout
	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := output.WriteJSONL(w, rows); err != nil {
		return err
	}

	for _, r := range rows {
		if r.Error != "" {
			log.Warn("decode failed", "path", r.Path, "err", r.Error)
		}
	}
	catalog.Summarize(rows).Write(os.Stderr)
	return nil
}

func newCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	return catalog.New(catalog.Options{
		Workers:   cfg.Workers,
		Ext:       cfg.Ext,
		CacheSize: cfg.CacheSize,
		Decode:    cfg.DecodeOptions(),
	})
}
