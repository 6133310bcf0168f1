// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package importer

import (
	"fmt"

	"github.com/MultiTechSystems/regmap-schema/document"
	"github.com/MultiTechSystems/regmap-schema/rdl"
)

// enumSuffix is appended to a field's instance name to name the enumerated
// type synthesized from its inline values.
const enumSuffix = "_enum_t"

// field decodes a field. Properties are assigned to a fresh anonymous
// definition in the order reset, sw, hw, onread, onwrite, enum; the
// description belongs to the instance.
func (d *decoder) field(n *document.Node) (*rdl.FieldInstance, error) {
	if err := d.expectMapping(n, "field"); err != nil {
		return nil, err
	}
	name, err := d.requireString(n, "inst_name", "field")
	if err != nil {
		return nil, err
	}

	d.push(name)
	defer d.pop()

	bitOffset, err := d.requireUint(n, "bit_offset", "field")
	if err != nil {
		return nil, err
	}
	bitWidth, err := d.requireUint(n, "bit_width", "field")
	if err != nil {
		return nil, err
	}

	def := rdl.NewFieldDef()

	if v, ok := optional(n, "reset"); ok {
		reset, err := d.asUint(v, "reset", "field")
		if err != nil {
			return nil, err
		}
		def.Reset = &reset
	}
	if v, ok := optional(n, "sw"); ok {
		if def.SW, err = keyword(d, v, "sw", rdl.ParseAccessType); err != nil {
			return nil, err
		}
	}
	if v, ok := optional(n, "hw"); ok {
		if def.HW, err = keyword(d, v, "hw", rdl.ParseAccessType); err != nil {
			return nil, err
		}
	}
	if v, ok := optional(n, "onread"); ok {
		if def.OnRead, err = keyword(d, v, "onread", rdl.ParseOnReadType); err != nil {
			return nil, err
		}
	}
	if v, ok := optional(n, "onwrite"); ok {
		if def.OnWrite, err = keyword(d, v, "onwrite", rdl.ParseOnWriteType); err != nil {
			return nil, err
		}
	}
	if v, ok := n.Get("enum"); ok {
		if def.Encode, err = d.enum(v, name+enumSuffix); err != nil {
			return nil, err
		}
	}

	inst, err := rdl.InstantiateField(def, name, bitOffset, bitWidth)
	if err != nil {
		return nil, d.fail(ErrInvalidValue, n, "field", "bit_width", err.Error())
	}
	desc, ok, err := d.description(n, "field")
	if err != nil {
		return nil, err
	}
	if ok {
		inst.Desc = desc
	}
	return inst, nil
}

// keyword resolves a field property against a fixed vocabulary.
func keyword[T any](d *decoder, v *document.Node, key string, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := d.asString(v, key, "field")
	if err != nil {
		return zero, err
	}
	t, err := parse(s)
	if err != nil {
		e := d.fail(ErrUnknownEnumValue, v, "field", key, fmt.Sprintf("'%s' has unknown value '%s'", key, s))
		e.Err = err
		return zero, e
	}
	return t, nil
}

// enum synthesizes a named enumerated type from an inline value list.
// Members keep document order.
func (d *decoder) enum(n *document.Node, typeName string) (*rdl.Enum, error) {
	if n.IsNull() {
		return nil, d.fail(ErrMissingField, n, "enum", "values", "enum is missing 'values'")
	}
	if err := d.expectMapping(n, "enum"); err != nil {
		return nil, err
	}
	values, err := d.require(n, "values", "enum")
	if err != nil {
		return nil, err
	}
	if values.Kind != document.SequenceNode {
		return nil, d.fail(ErrInvalidValue, values, "enum", "values", fmt.Sprintf("'values' must be a list, got %s", values.Kind))
	}

	members := make([]rdl.EnumMember, 0, values.Len())
	for _, vn := range values.Items() {
		m, err := d.enumValue(vn)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if d.opts.StrictEnums {
		if err := d.checkEnumMembers(values, members); err != nil {
			return nil, err
		}
	}
	return rdl.NewEnum(typeName, members), nil
}

func (d *decoder) enumValue(n *document.Node) (rdl.EnumMember, error) {
	if err := d.expectMapping(n, "enum value"); err != nil {
		return rdl.EnumMember{}, err
	}
	name, err := d.requireString(n, "name", "enum value")
	if err != nil {
		return rdl.EnumMember{}, err
	}
	value, err := d.requireUint(n, "value", "enum value")
	if err != nil {
		return rdl.EnumMember{}, err
	}
	desc, _, err := d.description(n, "enum value")
	if err != nil {
		return rdl.EnumMember{}, err
	}
	return rdl.EnumMember{Name: name, Value: value, DisplayName: name, Desc: desc}, nil
}

func (d *decoder) checkEnumMembers(values *document.Node, members []rdl.EnumMember) error {
	names := make(map[string]bool, len(members))
	seen := make(map[uint64]string, len(members))
	items := values.Items()
	for i, m := range members {
		if names[m.Name] {
			return d.fail(ErrDuplicateEnumMember, items[i], "enum value", "name", fmt.Sprintf("enum member '%s' is declared twice", m.Name))
		}
		names[m.Name] = true
		if prev, ok := seen[m.Value]; ok {
			return d.fail(ErrDuplicateEnumMember, items[i], "enum value", "value", fmt.Sprintf("enum member '%s' reuses value %d of '%s'", m.Name, m.Value, prev))
		}
		seen[m.Value] = m.Name
	}
	return nil
}
