package gbx

import (
	"fmt"

	"gbxmeta/internal/xmltree"
)

// Positions of the <header> children used here:
//
//	<header exever=".." exebuild=".." title="..">
//	  <ident .../>          0
//	  <desc mod=".." .../>  1
//	  <playermodel .../>    2
//	  <times .../>          3
//	  <deps><dep file=".." url=".."/>...</deps>  4
//	</header>
const (
	communityDescChild = 1
	communityDepsChild = 4
)

// decodeCommunity reads chunk 0x03043005, an XML summary of the map.
// Missing attributes leave their field unset; missing elements reject the
// whole fragment.
func decodeCommunity(c *chunkReader) error {
	frag, err := c.s.ReadString()
	if err != nil {
		return err
	}

	root, err := xmltree.ParseRoot(frag)
	if err != nil {
		return c.collaborator("community xml", err)
	}
	desc := root.Child(communityDescChild)
	deps := root.Child(communityDepsChild)
	if desc == nil || deps == nil {
		return c.collaborator("community xml", fmt.Errorf("<%s> has %d children, want at least %d",
			root.Name, len(root.Children), communityDepsChild+1))
	}

	m := c.m
	m.SoftwareVersion = attrPtr(root, "exever")
	m.SoftwareBuild = attrPtr(root, "exebuild")
	m.Title = attrPtr(root, "title")
	m.Mod = attrPtr(desc, "mod")
	m.Dependencies = make([]Dependency, 0, len(deps.Children))
	for _, d := range deps.Children {
		m.Dependencies = append(m.Dependencies, Dependency(d.AttrMap()))
	}
	return nil
}

func attrPtr(n *xmltree.Node, name string) *string {
	v, ok := n.Attr(name)
	if !ok {
		return nil
	}
	return &v
}
