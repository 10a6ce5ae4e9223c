package main

import (
	"path/filepath"

	"github.com/zboralski/lattice/render"

	"gbxmeta/internal/catalog"
	"gbxmeta/internal/depgraph"
	"gbxmeta/internal/gbx"
	"gbxmeta/internal/output"
)

func cmdDeps(args []string) error {
	fs, common := newFlagSet("deps")
	mapPaths := fs.StringArray("map", nil, "map file (repeatable)")
	dir := fs.String("dir", "", "also include every map under this directory")
	outPath := fs.String("out", "", "output DOT file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("out", *outPath); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}

	paths := append([]string(nil), *mapPaths...)
	if *dir != "" {
		cat, err := catalog.New(catalog.Options{Ext: cfg.Ext})
		if err != nil {
			return err
		}
		found, err := cat.Files(*dir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return requireFlag("map", "")
	}

	maps := make(map[string]*gbx.Map, len(paths))
	for _, p := range paths {
		f, err := decodeMap(p, cfg.DecodeOptions(), log)
		if err != nil {
			return err
		}
		if f.Map == nil {
			log.Info("skipping non-map", "path", p)
			continue
		}
		maps[depgraph.MapLabel(f.Map, filepath.Base(p))] = f.Map
	}

	g := depgraph.BuildDependencyGraph(maps)
	if err := output.WriteDOT(*outPath, render.DOT(g, "dependencies")); err != nil {
		return err
	}
	log.Info("wrote dependency graph", "path", *outPath, "maps", len(maps), "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

func cmdLayout(args []string) error {
	fs, common := newFlagSet("layout")
	mapPath := fs.String("map", "", "path to a .Gbx file")
	outPath := fs.String("out", "", "output DOT file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("map", *mapPath); err != nil {
		return err
	}
	if err := requireFlag("out", *outPath); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}

	opts := cfg.DecodeOptions()
	opts.HeaderOnly = true
	f, err := decodeMap(*mapPath, opts, log)
	if err != nil {
		return err
	}
	name := filepath.Base(*mapPath)
	cfgGraph := depgraph.BuildLayout(name, f)
	if err := output.WriteDOT(*outPath, render.DOTCFG(cfgGraph, name)); err != nil {
		return err
	}
	log.Info("wrote layout", "path", *outPath, "chunks", len(f.Chunks))
	return nil
}
