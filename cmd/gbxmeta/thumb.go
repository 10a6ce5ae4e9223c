package main

import (
	"fmt"

	"gbxmeta/internal/output"
)

func cmdThumb(args []string) error {
	fs, common := newFlagSet("thumb")
	mapPath := fs.String("map", "", "path to a .Map.Gbx file")
	outPath := fs.String("out", "", "output PNG file")
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

	f, err := decodeMap(*mapPath, cfg.DecodeOptions(), log)
	if err != nil {
		return err
	}
	if f.Map == nil || f.Map.Thumbnail == nil {
		return fmt.Errorf("%s: no thumbnail", *mapPath)
	}
	if err := output.WriteThumbnailPNG(*outPath, f.Map.Thumbnail); err != nil {
		return err
	}
	b := f.Map.Thumbnail.Bounds()
	log.Info("wrote thumbnail", "path", *outPath, "width", b.Dx(), "height", b.Dy())
	return nil
}
