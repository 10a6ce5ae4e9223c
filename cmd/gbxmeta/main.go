package main

import (
	"fmt"
	"io"
	"os"
)

// stdin and stdout back "-" paths and command output; tests swap them.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = cmdInfo(os.Args[2:])
	case "chunks":
		err = cmdChunks(os.Args[2:])
	case "thumb":
		err = cmdThumb(os.Args[2:])
	case "deps":
		err = cmdDeps(os.Args[2:])
	case "layout":
		err = cmdLayout(os.Args[2:])
	case "batch":
		err = cmdBatch(os.Args[2:])
	case "watch":
		err = cmdWatch(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `gbxmeta: GBX map header reader

Usage:
  gbxmeta info   --map <path> [--format text|json|yaml|cbor] [--strict]   Decode and print map metadata ("-" reads stdin)
  gbxmeta chunks --map <path> [--format text|json|yaml|cbor]            List the header chunk directory
  gbxmeta thumb  --map <path> --out <file.png>                          Extract the thumbnail
  gbxmeta deps   --map <path> [--map <path>...] [--dir <dir>] --out <file.dot>
                                                                        Dependency graph of one or more maps
  gbxmeta layout --map <path> --out <file.dot>                          Header chunk layout graph
  gbxmeta batch  --dir <dir> [--out <file.jsonl>] [--workers <n>]       Catalog every map under a directory
  gbxmeta watch  --dir <dir>                                            Catalog maps as they are written

Flags:
  --config <file>   YAML defaults (also GBXMETA_CONFIG)
  --verbose         Debug logging on stderr
  --strict          Abort on thumbnail or community XML failures
  --max-chunks <n>  Header chunk directory cap (default 1024)
`)
}
