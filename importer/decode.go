// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package importer

import (
	"errors"
	"fmt"
	"log"

	"github.com/MultiTechSystems/regmap-schema/document"
	"github.com/MultiTechSystems/regmap-schema/rdl"
	"github.com/MultiTechSystems/regmap-schema/registry"
)

// decoder translates one document into definitions. It is single-use and
// runs depth-first in document order.
type decoder struct {
	types *registry.Registry
	opts  Options
	log   *log.Logger
	path  []string
}

func (d *decoder) push(name string) { d.path = append(d.path, name) }
func (d *decoder) pop()             { d.path = d.path[:len(d.path)-1] }

// topAddrmap decodes the root block of a document. The result is a named
// definition that is not instantiated.
func (d *decoder) topAddrmap(n *document.Node) (*rdl.BlockDef, error) {
	if err := d.expectMapping(n, "addrmap"); err != nil {
		return nil, err
	}
	typeName, err := d.requireString(n, "type_name", "addrmap")
	if err != nil {
		return nil, err
	}

	d.push(typeName)
	defer d.pop()

	def := d.newBlockDef(typeName)
	if err := d.populate(def, n); err != nil {
		return nil, err
	}
	def.Seal()
	return def, nil
}

// addrmap decodes a nested block and instantiates it. When type_name is
// given the definition comes from the registry and the occurrence's own
// children are not decoded.
func (d *decoder) addrmap(n *document.Node) (*rdl.BlockInstance, error) {
	if err := d.expectMapping(n, "addrmap"); err != nil {
		return nil, err
	}
	name, err := d.requireString(n, "inst_name", "addrmap")
	if err != nil {
		return nil, err
	}

	d.push(name)
	defer d.pop()

	offset, err := d.requireUint(n, "addr_offset", "addrmap")
	if err != nil {
		return nil, err
	}
	array, err := d.arrayShape(n, "addrmap")
	if err != nil {
		return nil, err
	}
	desc, hasDesc, err := d.description(n, "addrmap")
	if err != nil {
		return nil, err
	}

	var def *rdl.BlockDef
	reused := false
	if tn, ok := optional(n, "type_name"); ok {
		typeName, err := d.asString(tn, "type_name", "addrmap")
		if err != nil {
			return nil, err
		}
		def, err = d.resolveBlock(tn, typeName)
		if err != nil {
			return nil, err
		}
		reused = true
		if n.Has("registers") || n.Has("addrmaps") {
			d.log.Printf("%s: addrmap %q reuses type %q; its own registers and addrmaps are ignored", n.Pos, name, typeName)
		}
	} else {
		def = d.newBlockDef("")
		if err := d.populate(def, n); err != nil {
			return nil, err
		}
	}

	inst, err := rdl.InstantiateBlock(def, name, offset, array)
	if err != nil {
		return nil, d.fail(ErrInvalidValue, n, "addrmap", "", err.Error())
	}
	// A reused definition is shared and sealed, so the description belongs
	// to this occurrence.
	if reused && hasDesc {
		inst.Desc = desc
	}
	return inst, nil
}

func (d *decoder) resolveBlock(at *document.Node, typeName string) (*rdl.BlockDef, error) {
	found, ok := d.types.Lookup(typeName)
	if !ok {
		return nil, d.fail(ErrUnresolvedType, at, "addrmap", "type_name", fmt.Sprintf("addrmap type '%s' does not exist", typeName))
	}
	def, ok := found.(*rdl.BlockDef)
	if !ok {
		return nil, d.fail(ErrTypeMismatch, at, "addrmap", "type_name", fmt.Sprintf("type '%s' is a %s, not an addrmap", typeName, found.Kind()))
	}
	return def, nil
}

func (d *decoder) newBlockDef(typeName string) *rdl.BlockDef {
	def := rdl.NewBlockDef(typeName)
	def.AddressUnitBits = d.opts.AddressUnitBits
	return def
}

// populate fills a fresh block definition: description first, then every
// register, then every nested block. Registers always precede nested blocks
// in the child list whatever their order in the document.
func (d *decoder) populate(def *rdl.BlockDef, n *document.Node) error {
	desc, ok, err := d.description(n, "addrmap")
	if err != nil {
		return err
	}
	if ok {
		if err := def.SetDescription(desc); err != nil {
			return d.fail(ErrInvalidValue, n, "addrmap", "desc", err.Error())
		}
	}

	regs, err := d.optionalSequence(n, "registers", "addrmap")
	if err != nil {
		return err
	}
	for _, rn := range regs {
		inst, err := d.register(rn)
		if err != nil {
			return err
		}
		if err := d.addChild(def, inst, rn, "reg"); err != nil {
			return err
		}
	}

	subs, err := d.optionalSequence(n, "addrmaps", "addrmap")
	if err != nil {
		return err
	}
	for _, sn := range subs {
		inst, err := d.addrmap(sn)
		if err != nil {
			return err
		}
		if err := d.addChild(def, inst, sn, "addrmap"); err != nil {
			return err
		}
	}
	return nil
}

type parent interface {
	AddChild(rdl.Instance) error
}

func (d *decoder) addChild(p parent, inst rdl.Instance, at *document.Node, entity string) error {
	err := p.AddChild(inst)
	if err == nil {
		return nil
	}
	kind := ErrInvalidValue
	if errors.Is(err, rdl.ErrDuplicateChild) {
		kind = ErrDuplicateName
	}
	return d.fail(kind, at, entity, "inst_name", fmt.Sprintf("%s '%s' is already declared in this scope", entity, inst.InstName()))
}

// register decodes a register and instantiates it.
func (d *decoder) register(n *document.Node) (*rdl.RegisterInstance, error) {
	if err := d.expectMapping(n, "reg"); err != nil {
		return nil, err
	}
	name, err := d.requireString(n, "inst_name", "reg")
	if err != nil {
		return nil, err
	}

	d.push(name)
	defer d.pop()

	offset, err := d.requireUint(n, "addr_offset", "reg")
	if err != nil {
		return nil, err
	}
	fields, err := d.require(n, "fields", "reg")
	if err != nil {
		return nil, err
	}
	if fields.Kind != document.SequenceNode {
		return nil, d.fail(ErrInvalidValue, fields, "reg", "fields", fmt.Sprintf("'fields' must be a list, got %s", fields.Kind))
	}

	def := rdl.NewRegisterDef()
	for _, fn := range fields.Items() {
		inst, err := d.field(fn)
		if err != nil {
			return nil, err
		}
		if err := d.addChild(def, inst, fn, "field"); err != nil {
			return nil, err
		}
	}

	array, err := d.arrayShape(n, "reg")
	if err != nil {
		return nil, err
	}
	inst, err := rdl.InstantiateRegister(def, name, offset, array)
	if err != nil {
		return nil, d.fail(ErrInvalidValue, n, "reg", "", err.Error())
	}
	desc, ok, err := d.description(n, "reg")
	if err != nil {
		return nil, err
	}
	if ok {
		inst.Desc = desc
	}
	return inst, nil
}
