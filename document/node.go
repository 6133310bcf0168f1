// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package document holds the raw, untyped form of a register map description:
// a tree of mappings, sequences and scalars with the source position of every
// node. Documents are parsed from YAML (which also covers JSON) or TOML.
package document

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	NullNode Kind = iota
	ScalarNode
	MappingNode
	SequenceNode
)

func (k Kind) String() string {
	switch k {
	case NullNode:
		return "null"
	case ScalarNode:
		return "scalar"
	case MappingNode:
		return "mapping"
	case SequenceNode:
		return "sequence"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Position is a location within a source document. Line and Column are
// 1-based; a zero Line means the format did not report one.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	s := p.File
	if p.Line > 0 {
		if s != "" {
			s += ":"
		}
		s += strconv.Itoa(p.Line)
		if p.Column > 0 {
			s += ":" + strconv.Itoa(p.Column)
		}
	}
	return s
}

// IsValid reports whether p names a file or a line.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0
}

// Node is one element of a parsed document.
//
// Scalar values are resolved to int64, uint64 (integers that overflow
// int64), float64, string or bool.
type Node struct {
	Kind  Kind
	Value any
	Pos   Position

	keys   []string
	fields map[string]*Node
	items  []*Node
}

// NewMapping returns an empty mapping node.
func NewMapping(pos Position) *Node {
	return &Node{Kind: MappingNode, Pos: pos, fields: make(map[string]*Node)}
}

// NewSequence returns a sequence node holding items.
func NewSequence(pos Position, items ...*Node) *Node {
	return &Node{Kind: SequenceNode, Pos: pos, items: items}
}

// NewScalar returns a scalar node; a nil value yields a null node.
func NewScalar(pos Position, v any) *Node {
	if v == nil {
		return &Node{Kind: NullNode, Pos: pos}
	}
	return &Node{Kind: ScalarNode, Value: v, Pos: pos}
}

// Set adds key to a mapping node. It fails if the key is already present.
func (n *Node) Set(key string, v *Node) error {
	if n.Kind != MappingNode {
		return fmt.Errorf("%s: cannot set key %q on a %s node", n.Pos, key, n.Kind)
	}
	if _, ok := n.fields[key]; ok {
		return fmt.Errorf("%s: duplicate key %q", v.Pos, key)
	}
	n.keys = append(n.keys, key)
	n.fields[key] = v
	return nil
}

// Append adds an item to a sequence node.
func (n *Node) Append(v *Node) {
	n.items = append(n.items, v)
}

// Get returns the value stored under key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != MappingNode {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Has reports whether a mapping node contains key, even with a null value.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Keys returns the keys of a mapping node in document order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return n.keys
}

// Items returns the elements of a sequence node.
func (n *Node) Items() []*Node {
	if n == nil {
		return nil
	}
	return n.items
}

// Len returns the number of keys or items.
func (n *Node) Len() int {
	switch n.Kind {
	case MappingNode:
		return len(n.keys)
	case SequenceNode:
		return len(n.items)
	}
	return 0
}

// IsNull reports whether n is absent or an explicit null.
func (n *Node) IsNull() bool {
	return n == nil || n.Kind == NullNode
}
