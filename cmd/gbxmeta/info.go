package main

import (
	"fmt"

	"gbxmeta/internal/output"
)

func cmdInfo(args []string) error {
	fs, common := newFlagSet("info")
	mapPath := fs.String("map", "", "path to a .Map.Gbx file")
	format := fs.String("format", "", "text, json, yaml or cbor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("map", *mapPath); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	if fs.Changed("format") {
		cfg.Format = *format
	}

	f, err := decodeMap(*mapPath, cfg.DecodeOptions(), log)
	if err != nil {
		return err
	}
	if !f.IsMap() {
		log.Info("not a map", "path", *mapPath, "class", fmt.Sprintf("0x%08x", f.ClassID))
	}
	if cfg.Format == "text" {
		return output.WriteText(stdout, f)
	}
	return output.Encode(stdout, cfg.Format, f)
}

func cmdChunks(args []string) error {
	fs, common := newFlagSet("chunks")
	mapPath := fs.String("map", "", "path to a .Gbx file")
	format := fs.String("format", "", "text, json, yaml or cbor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("map", *mapPath); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}
	if fs.Changed("format") {
		cfg.Format = *format
	}

	opts := cfg.DecodeOptions()
	opts.HeaderOnly = true
	f, err := decodeMap(*mapPath, opts, log)
	if err != nil {
		return err
	}

	if cfg.Format != "text" {
		return output.Encode(stdout, cfg.Format, f.Chunks)
	}
	fmt.Fprintf(stdout, "%-10s  %-9s  %8s  %8s  %s\n", "ID", "NAME", "SIZE", "OFFSET", "HEAVY")
	for _, h := range f.Chunks {
		fmt.Fprintf(stdout, "0x%08x  %-9s  %8d  %#8x  %v\n", h.ID, h.Name(), h.Size, h.Offset, h.Heavy)
	}
	return nil
}
