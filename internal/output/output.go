// Package output writes decoded GBX files: structured encodings, a text
// summary, thumbnails and DOT graphs.
package output

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// encMode is Core Deterministic CBOR with enums written through MarshalText,
// so the same file always encodes to the same bytes.
var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("output: CBOR encoder initialization failed: " + err.Error())
	}
}

// Encode writes v to w as json, yaml or cbor.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("output: encode json: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("output: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("output: encode yaml: %w", err)
		}
	case "cbor":
		if err := encMode.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("output: encode cbor: %w", err)
		}
	default:
		return fmt.Errorf("output: unknown format %q", format)
	}
	return nil
}

// MarshalCBOR encodes v with the deterministic CBOR mode.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, "json", v) })
}

// WriteJSONL writes one compact JSON document per row.
func WriteJSONL[T any](w io.Writer, rows []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("output: encode jsonl: %w", err)
		}
	}
	return nil
}

// WriteThumbnailPNG writes img to path as PNG.
func WriteThumbnailPNG(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("output: %s: no thumbnail", path)
	}
	return writeFile(path, func(w io.Writer) error {
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("output: encode png: %w", err)
		}
		return nil
	})
}

// WriteDOT writes a rendered DOT graph to path.
func WriteDOT(path, dot string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, dot)
		return err
	})
}

func writeFile(path string, emit func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("output: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	if err := emit(f); err != nil {
		f.Close()
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close %s: %w", path, err)
	}
	return nil
}
