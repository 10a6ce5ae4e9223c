// Package gbxfmt provides the GBX primitive stream, lookback strings and
// shared diagnostics.
package gbxfmt

import "fmt"

// DiagKind classifies a diagnostic message.
type DiagKind string

const (
	DiagChunkSize       DiagKind = "chunk_size"
	DiagCollaborator    DiagKind = "collaborator"
	DiagLookbackVersion DiagKind = "lookback_version"
)

// Diag records a non-fatal issue encountered during decoding.
type Diag struct {
	Offset uint64   `json:"offset" yaml:"offset" cbor:"offset"`
	Kind   DiagKind `json:"kind" yaml:"kind" cbor:"kind"`
	Msg    string   `json:"msg" yaml:"msg" cbor:"msg"`
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] 0x%x: %s", d.Kind, d.Offset, d.Msg)
}

// Diags accumulates diagnostics.
type Diags struct {
	items []Diag
}

func (d *Diags) Addf(offset uint64, kind DiagKind, format string, args ...any) {
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag { return d.items }
func (d *Diags) Len() int      { return len(d.items) }

// Mode controls how collaborator failures are handled.
type Mode int

const (
	ModeBestEffort Mode = iota // skip the failing chunk's fields, record a diag
	ModeStrict                 // first collaborator failure aborts the decode
)

// Options controls decoding behavior.
type Options struct {
	Mode       Mode
	HeaderOnly bool // read the chunk directory, skip every body
	MaxChunks  int  // directory cap; 0 = use default
}

// DefaultMaxChunks bounds the header chunk directory.
const DefaultMaxChunks = 1024

func (o Options) EffectiveMaxChunks() int {
	if o.MaxChunks > 0 {
		return o.MaxChunks
	}
	return DefaultMaxChunks
}
