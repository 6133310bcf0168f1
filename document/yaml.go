// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	maxDepth = 256
	maxNodes = 1 << 20
)

// ParseYAML parses every document of a YAML stream. JSON input is accepted
// as well. An empty stream yields no documents.
func ParseYAML(data []byte, file string) ([]*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*Node
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse %s: %w", displayName(file), err)
		}
		c := &yamlConverter{file: file}
		n, err := c.convert(&root, 0)
		if err != nil {
			return nil, err
		}
		docs = append(docs, n)
	}
	return docs, nil
}

type yamlConverter struct {
	file  string
	nodes int
}

func (c *yamlConverter) pos(n *yaml.Node) Position {
	return Position{File: c.file, Line: n.Line, Column: n.Column}
}

func (c *yamlConverter) convert(n *yaml.Node, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%s: document nested deeper than %d levels", c.pos(n), maxDepth)
	}
	c.nodes++
	if c.nodes > maxNodes {
		return nil, fmt.Errorf("%s: document expands to more than %d nodes", c.pos(n), maxNodes)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewScalar(c.pos(n), nil), nil
		}
		return c.convert(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("%s: unresolved alias %q", c.pos(n), n.Value)
		}
		return c.convert(n.Alias, depth+1)
	case yaml.ScalarNode:
		return c.scalar(n)
	case yaml.SequenceNode:
		seq := NewSequence(c.pos(n))
		for _, item := range n.Content {
			v, err := c.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case yaml.MappingNode:
		return c.mapping(n, depth)
	}
	return nil, fmt.Errorf("%s: unsupported YAML node kind %d", c.pos(n), n.Kind)
}

func (c *yamlConverter) scalar(n *yaml.Node) (*Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", c.pos(n), err)
	}
	return NewScalar(c.pos(n), normalize(v)), nil
}

// mapping converts a YAML mapping. Explicit keys take precedence over keys
// pulled in through "<<" merge entries; earlier merge sources win over later
// ones.
func (c *yamlConverter) mapping(n *yaml.Node, depth int) (*Node, error) {
	m := NewMapping(c.pos(n))
	var merges []*Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s: mapping keys must be scalars", c.pos(k))
		}
		val, err := c.convert(v, depth+1)
		if err != nil {
			return nil, err
		}
		if k.ShortTag() == "!!merge" {
			switch val.Kind {
			case MappingNode:
				merges = append(merges, val)
			case SequenceNode:
				for _, src := range val.Items() {
					if src.Kind != MappingNode {
						return nil, fmt.Errorf("%s: merge source must be a mapping", src.Pos)
					}
					merges = append(merges, src)
				}
			default:
				return nil, fmt.Errorf("%s: merge source must be a mapping", val.Pos)
			}
			continue
		}
		if err := m.Set(k.Value, val); err != nil {
			return nil, fmt.Errorf("%s: duplicate key %q", c.pos(k), k.Value)
		}
	}
	for _, src := range merges {
		for _, key := range src.Keys() {
			if m.Has(key) {
				continue
			}
			v, _ := src.Get(key)
			_ = m.Set(key, v)
		}
	}
	return m, nil
}

func displayName(file string) string {
	if file == "" {
		return "document"
	}
	return file
}
