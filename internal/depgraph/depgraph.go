// Package depgraph builds lattice graphs from decoded GBX files: the
// external resources a map depends on, and the layout of its header chunks.
package depgraph

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/zboralski/lattice"
	"gbxmeta/internal/gbx"
)

// MapLabel returns the node name used for a map: its name, its uid, or
// fallback when neither is set.
func MapLabel(m *gbx.Map, fallback string) string {
	switch {
	case m == nil:
		return fallback
	case m.Name != nil && *m.Name != "":
		return *m.Name
	case m.UID != nil && *m.UID != "":
		return *m.UID
	}
	return fallback
}

// BuildDependencyGraph links each map to the files it depends on, and each
// downloadable file to the host serving it. Maps sharing a dependency share
// its node.
func BuildDependencyGraph(maps map[string]*gbx.Map) *lattice.Graph {
	labels := make([]string, 0, len(maps))
	for label := range maps {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g := &lattice.Graph{}
	seen := make(map[string]bool)
	node := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}
	edge := func(from, to string) {
		node(to)
		g.Edges = append(g.Edges, lattice.Edge{Caller: from, Callee: to})
	}

	for _, label := range labels {
		node(label)
		m := maps[label]
		if m == nil {
			continue
		}
		for _, d := range m.Dependencies {
			file := d.File()
			if file == "" {
				continue
			}
			edge(label, file)
			if host := urlHost(d.URL()); host != "" {
				edge(file, host)
			}
		}
		if m.Mod != nil && *m.Mod != "" {
			edge(label, "mod:"+*m.Mod)
		}
	}
	g.Dedup()
	return g
}

func urlHost(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// BuildLayout describes the header chunks of f as a single-function CFG:
// one block per chunk in file order, spanning its body bytes, with the
// decoder that handled it as the block's call.
func BuildLayout(name string, f *gbx.File) *lattice.CFGGraph {
	fn := &lattice.FuncCFG{Name: name}
	for i, h := range f.Chunks {
		b := &lattice.BasicBlock{
			ID:    i,
			Start: h.Offset,
			End:   h.Offset + int(h.Size),
			Term:  i == len(f.Chunks)-1,
		}
		if !b.Term {
			b.Succs = append(b.Succs, lattice.Successor{BlockID: i + 1})
		}
		b.Calls = append(b.Calls, lattice.CallSite{
			Offset: i,
			Callee: fmt.Sprintf("0x%08x %s", h.ID, h.Name()),
		})
		fn.Blocks = append(fn.Blocks, b)
	}
	return &lattice.CFGGraph{Funcs: []*lattice.FuncCFG{fn}}
}
