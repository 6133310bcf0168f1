// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MultiTechSystems/regmap-schema/document"
	"github.com/MultiTechSystems/regmap-schema/rdl"
)

// fail builds a DecodeError located at n and scoped to the current path.
func (d *decoder) fail(kind error, n *document.Node, entity, key, detail string) *DecodeError {
	e := &DecodeError{
		Kind:   kind,
		Entity: entity,
		Path:   strings.Join(d.path, "."),
		Key:    key,
		Detail: detail,
	}
	if n != nil {
		e.Pos = n.Pos
	}
	return e
}

func (d *decoder) expectMapping(n *document.Node, entity string) error {
	if n.Kind != document.MappingNode {
		return d.fail(ErrInvalidValue, n, entity, "", fmt.Sprintf("%s must be a mapping, got %s", entity, n.Kind))
	}
	return nil
}

// require returns the value stored under key. An explicit null counts as
// missing.
func (d *decoder) require(n *document.Node, key, entity string) (*document.Node, error) {
	v, ok := n.Get(key)
	if !ok || v.IsNull() {
		detail := fmt.Sprintf("%s is missing '%s'", entity, key)
		return nil, d.fail(ErrMissingField, n, entity, key, detail)
	}
	return v, nil
}

// optional returns the value stored under key, treating null as absent.
func optional(n *document.Node, key string) (*document.Node, bool) {
	v, ok := n.Get(key)
	if !ok || v.IsNull() {
		return nil, false
	}
	return v, true
}

func (d *decoder) requireString(n *document.Node, key, entity string) (string, error) {
	v, err := d.require(n, key, entity)
	if err != nil {
		return "", err
	}
	return d.asString(v, key, entity)
}

func (d *decoder) requireUint(n *document.Node, key, entity string) (uint64, error) {
	v, err := d.require(n, key, entity)
	if err != nil {
		return 0, err
	}
	return d.asUint(v, key, entity)
}

func (d *decoder) asString(v *document.Node, key, entity string) (string, error) {
	s, ok := v.Value.(string)
	if v.Kind != document.ScalarNode || !ok || s == "" {
		return "", d.fail(ErrInvalidValue, v, entity, key, fmt.Sprintf("'%s' must be a non-empty string", key))
	}
	return s, nil
}

// asText renders any scalar as text; it is used for free-form descriptions.
func (d *decoder) asText(v *document.Node, key, entity string) (string, error) {
	if v.Kind != document.ScalarNode {
		return "", d.fail(ErrInvalidValue, v, entity, key, fmt.Sprintf("'%s' must be a scalar", key))
	}
	if s, ok := v.Value.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v.Value), nil
}

// asUint accepts non-negative integers, integral floats, and strings holding
// an integer literal with an optional 0x, 0o or 0b prefix.
func (d *decoder) asUint(v *document.Node, key, entity string) (uint64, error) {
	if u, ok := toUint(v.Value); ok && v.Kind == document.ScalarNode {
		return u, nil
	}
	return 0, d.fail(ErrInvalidValue, v, entity, key, fmt.Sprintf("'%s' must be a non-negative integer, got %v", key, v.Value))
}

func toUint(v any) (uint64, bool) {
	switch val := v.(type) {
	case int64:
		if val >= 0 {
			return uint64(val), true
		}
	case uint64:
		return val, true
	case float64:
		if val >= 0 && val < (1<<64) && val == math.Trunc(val) {
			return uint64(val), true
		}
	case string:
		u, err := strconv.ParseUint(strings.ReplaceAll(val, "_", ""), 0, 64)
		if err == nil {
			return u, true
		}
	}
	return 0, false
}

// optionalSequence returns the items stored under key, or nil when the key
// is absent or null.
func (d *decoder) optionalSequence(n *document.Node, key, entity string) ([]*document.Node, error) {
	v, ok := optional(n, key)
	if !ok {
		return nil, nil
	}
	if v.Kind != document.SequenceNode {
		return nil, d.fail(ErrInvalidValue, v, entity, key, fmt.Sprintf("'%s' must be a list, got %s", key, v.Kind))
	}
	return v.Items(), nil
}

// description returns the desc key, if present and non-null.
func (d *decoder) description(n *document.Node, entity string) (string, bool, error) {
	v, ok := optional(n, "desc")
	if !ok {
		return "", false, nil
	}
	s, err := d.asText(v, "desc", entity)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// arrayShape reads array_dimensions and array_stride. Dimensions may be a
// single integer or a list of integers.
func (d *decoder) arrayShape(n *document.Node, entity string) (*rdl.ArrayShape, error) {
	dims, hasDims := optional(n, "array_dimensions")
	stride, hasStride := optional(n, "array_stride")
	if !hasDims {
		if hasStride {
			return nil, d.fail(ErrInvalidValue, stride, entity, "array_stride", "'array_stride' requires 'array_dimensions'")
		}
		return nil, nil
	}

	shape := &rdl.ArrayShape{}
	items := []*document.Node{dims}
	if dims.Kind == document.SequenceNode {
		items = dims.Items()
		if len(items) == 0 {
			return nil, d.fail(ErrInvalidValue, dims, entity, "array_dimensions", "'array_dimensions' must not be empty")
		}
	}
	for _, item := range items {
		u, err := d.asUint(item, "array_dimensions", entity)
		if err != nil {
			return nil, err
		}
		if u == 0 {
			return nil, d.fail(ErrInvalidValue, item, entity, "array_dimensions", "array dimensions must be positive")
		}
		shape.Dimensions = append(shape.Dimensions, u)
	}
	if hasStride {
		u, err := d.asUint(stride, "array_stride", entity)
		if err != nil {
			return nil, err
		}
		shape.Stride = u
	}
	return shape, nil
}
