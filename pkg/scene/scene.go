// Package scene reads layout trees from JSON documents.
//
// A document is either a bare node or an envelope naming the scene and its
// default proposal:
//
//	{
//	  "name": "card",
//	  "proposal": {"width": 320, "height": null},
//	  "root": {
//	    "type": "vstack",
//	    "spacing": 4,
//	    "children": [
//	      {"type": "text", "id": "title", "text": "Hello, world!"},
//	      {"type": "spacer"},
//	      {"type": "leaf", "id": "button", "width": 80, "height": 24, "priority": 1}
//	    ]
//	  }
//	}
//
// Node types are leaf, text, spacer, hstack, vstack, overlay, padding, frame
// and relative. Errors carry the path of the offending node, such as
// "root.children[2]".
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/layout"
)

// Scene is a decoded document.
type Scene struct {
	// Name is the scene name from the envelope, or the source name.
	Name string

	// Proposal is the envelope's default proposal, if any.
	Proposal *layout.Proposal

	// Root is the layout tree.
	Root layout.Node

	// Nodes is the number of document nodes.
	Nodes int

	// Document is the decoded source form.
	Document *Node
}

// ProposalOr returns the scene's proposal or def.
func (s *Scene) ProposalOr(def layout.Proposal) layout.Proposal {
	if s.Proposal != nil {
		return *s.Proposal
	}
	return def
}

// Insets accepts either a single number or an object with per-edge values.
type Insets layout.Insets

// UnmarshalJSON implements json.Unmarshaler.
func (in *Insets) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*in = Insets(layout.UniformInsets(v))
		return nil
	}
	var edges layout.Insets
	if err := json.Unmarshal(data, &edges); err != nil {
		return fmt.Errorf("insets must be a number or an object with top, left, bottom and right")
	}
	*in = Insets(edges)
	return nil
}

// Fraction is the relative size of a relative node.
type Fraction struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is the JSON form of one layout node.
type Node struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	// leaf and frame
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Policy string   `json:"policy,omitempty"`

	// frame
	MinWidth  *float64 `json:"minWidth,omitempty"`
	MaxWidth  *float64 `json:"maxWidth,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`

	// text
	Text       string  `json:"text,omitempty"`
	CharWidth  float64 `json:"charWidth,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`

	// spacer
	MinLength float64 `json:"minLength,omitempty"`

	// containers
	Spacing    *float64  `json:"spacing,omitempty"`
	Align      string    `json:"align,omitempty"`
	Distribute string    `json:"distribute,omitempty"`
	Insets     *Insets   `json:"insets,omitempty"`
	Fraction   *Fraction `json:"fraction,omitempty"`
	Children   []Node    `json:"children,omitempty"`

	// traits
	Stretch  string   `json:"stretch,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	Priority *int     `json:"priority,omitempty"`
}

type envelope struct {
	Name     string           `json:"name,omitempty"`
	Proposal *layout.Proposal `json:"proposal,omitempty"`
	Root     *Node            `json:"root"`
}

// Decode reads a scene document from r.
func Decode(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E201").Wrap(err)
	}
	return Parse("", data)
}

// Parse decodes a scene document. name is used for error locations and as
// the scene name when the document does not set one.
func Parse(name string, data []byte) (*Scene, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, syntaxError(name, data, err)
	}

	var env envelope
	if _, ok := top["root"]; ok {
		if err := strictUnmarshal(data, &env); err != nil {
			return nil, syntaxError(name, data, err)
		}
		if env.Root == nil {
			return nil, errors.New("E201").WithPath("root").WithDetail("root must be a node object")
		}
	} else {
		env.Root = new(Node)
		if err := strictUnmarshal(data, env.Root); err != nil {
			return nil, syntaxError(name, data, err)
		}
	}

	b := &builder{ids: make(map[string]string)}
	root, err := b.build(env.Root, "root")
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Name:     env.Name,
		Proposal: env.Proposal,
		Root:     root,
		Nodes:    b.count,
		Document: env.Root,
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(name, ".json")
	}
	return s, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func syntaxError(name string, data []byte, err error) error {
	le := errors.New("E201").Wrap(err)
	var offset int64 = -1
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset - 1
	case *json.UnmarshalTypeError:
		offset = e.Offset - 1
		if e.Field != "" {
			le.WithDetailf("field %q expects %s, got JSON %s", e.Field, e.Type, e.Value)
		}
	}
	if name != "" && offset >= 0 {
		le.WithOffset(name, data, offset)
	}
	return le
}
