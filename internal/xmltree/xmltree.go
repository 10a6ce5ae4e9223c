// Package xmltree parses small XML fragments into a generic element tree
// with ordered attributes and indexable children.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMalformed = errors.New("xmltree: malformed fragment")

// Attr is one attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one element. Text holds the concatenated character data directly
// inside the element, trimmed.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr returns the named attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrMap returns the attributes as a map.
func (n *Node) AttrMap() map[string]string {
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Child returns the i-th child element, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child with the given element name.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Parse parses a fragment that may contain several top-level elements.
// An empty fragment yields no elements and no error.
func Parse(fragment string) ([]*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(fragment))
	dec.Strict = true

	var (
		roots []*Node
		stack []*Node
		text  []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: qualified(t.Name)}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				roots = append(roots, n)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed <%s>", ErrMalformed, stack[len(stack)-1].Name)
	}
	return roots, nil
}

// ParseRoot parses a fragment and returns its first top-level element.
func ParseRoot(fragment string) (*Node, error) {
	roots, err := Parse(fragment)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no element", ErrMalformed)
	}
	return roots[0], nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
