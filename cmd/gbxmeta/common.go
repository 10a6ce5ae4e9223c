package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"gbxmeta/internal/config"
	"gbxmeta/internal/gbx"
	"gbxmeta/internal/gbxfmt"
)

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	fs        *pflag.FlagSet
	config    string
	verbose   bool
	strict    bool
	maxChunks int
}

func newFlagSet(name string) (*pflag.FlagSet, *commonFlags) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	c := &commonFlags{fs: fs}
	fs.StringVar(&c.config, "config", "", "YAML config file")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&c.strict, "strict", false, "abort on collaborator failure")
	fs.IntVar(&c.maxChunks, "max-chunks", 0, "header chunk directory cap")
	return fs, c
}

// load reads the config and applies any flags the user set over it.
func (c *commonFlags) load() (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if c.config != "" {
		cfg, err = config.LoadFile(c.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	if c.fs.Changed("verbose") {
		cfg.Verbose = c.verbose
	}
	if c.fs.Changed("strict") {
		cfg.Strict = c.strict
	}
	if c.fs.Changed("max-chunks") {
		cfg.MaxChunks = c.maxChunks
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, log, nil
}

// decodeMap decodes the map at path, or standard input when path is "-".
func decodeMap(path string, opts gbxfmt.Options, log *slog.Logger) (*gbx.File, error) {
	var f *gbx.File
	var err error
	if path == "-" {
		f, err = gbx.DecodeReader(stdin, opts)
	} else {
		f, err = gbx.DecodeFile(path, opts)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("decoded", "path", path, "version", f.Version, "class", fmt.Sprintf("0x%08x", f.ClassID),
		"chunks", len(f.Chunks), "diagnostics", len(f.Diags))
	for _, d := range f.Diags {
		log.Warn("diagnostic", "path", path, "kind", d.Kind, "offset", d.Offset, "msg", d.Msg)
	}
	return f, nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
