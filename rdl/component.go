// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package rdl is an in-memory register model: address maps (blocks) made of
// registers and nested blocks, registers made of bit-fields, and fields with
// access semantics, reset values and enumerated encodings.
//
// Every component comes in two forms. A definition is an unpositioned,
// reusable template; an instance binds a definition to a name and an offset
// inside its parent. A definition accumulates children while it is being
// built and is sealed when first instantiated or registered, after which its
// child list never changes. One definition may back any number of instances.
package rdl

import (
	"errors"
	"fmt"
)

var (
	// ErrSealed is returned when modifying a sealed definition.
	ErrSealed = errors.New("definition is sealed")
	// ErrDuplicateChild is returned when a sibling already uses an instance name.
	ErrDuplicateChild = errors.New("duplicate instance name")
	// ErrChildKind is returned when a child kind is not allowed in its parent.
	ErrChildKind = errors.New("child kind not allowed")
	// ErrInvalidShape is returned for empty names, zero widths and zero
	// array dimensions.
	ErrInvalidShape = errors.New("invalid instance shape")
)

// Kind identifies a component type.
type Kind int

const (
	KindAddrmap Kind = iota + 1
	KindReg
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindAddrmap:
		return "addrmap"
	case KindReg:
		return "reg"
	case KindField:
		return "field"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Definition is one of *BlockDef, *RegisterDef or *FieldDef.
type Definition interface {
	Kind() Kind
	// TypeName is empty for anonymous definitions.
	TypeName() string
	Description() string
	Sealed() bool
	Seal()

	isDefinition()
}

// Instance is one of *BlockInstance, *RegisterInstance or *FieldInstance.
type Instance interface {
	Kind() Kind
	InstName() string
	Definition() Definition
	Description() string

	isInstance()
}

// definition holds the state shared by all definition kinds.
type definition struct {
	typeName string
	desc     string
	sealed   bool
	children []Instance
	names    map[string]struct{}
}

func (d *definition) TypeName() string    { return d.typeName }
func (d *definition) Description() string { return d.desc }
func (d *definition) Sealed() bool        { return d.sealed }

// Seal freezes the definition. Sealing twice is harmless.
func (d *definition) Seal() { d.sealed = true }

// Children returns the child instances in declaration order. The slice must
// not be modified.
func (d *definition) Children() []Instance { return d.children }

// SetDescription assigns the desc property.
func (d *definition) SetDescription(desc string) error {
	if d.sealed {
		return ErrSealed
	}
	d.desc = desc
	return nil
}

func (d *definition) addChild(inst Instance) error {
	if d.sealed {
		return ErrSealed
	}
	name := inst.InstName()
	if _, ok := d.names[name]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateChild, name)
	}
	if d.names == nil {
		d.names = make(map[string]struct{})
	}
	d.names[name] = struct{}{}
	d.children = append(d.children, inst)
	return nil
}

// BlockDef is an address map definition holding registers and nested blocks.
type BlockDef struct {
	definition

	// AddressUnitBits is the width of one address unit, normally 8.
	AddressUnitBits int
}

// NewBlockDef creates an empty block definition. An empty typeName makes it
// anonymous.
func NewBlockDef(typeName string) *BlockDef {
	return &BlockDef{definition: definition{typeName: typeName}, AddressUnitBits: 8}
}

func (*BlockDef) Kind() Kind    { return KindAddrmap }
func (*BlockDef) isDefinition() {}

// AddChild appends a register or block instance.
func (b *BlockDef) AddChild(inst Instance) error {
	switch inst.(type) {
	case *RegisterInstance, *BlockInstance:
		return b.addChild(inst)
	}
	return fmt.Errorf("%w: %s in addrmap", ErrChildKind, inst.Kind())
}

// Registers returns the register children in order.
func (b *BlockDef) Registers() []*RegisterInstance {
	var regs []*RegisterInstance
	for _, c := range b.children {
		if r, ok := c.(*RegisterInstance); ok {
			regs = append(regs, r)
		}
	}
	return regs
}

// Blocks returns the nested block children in order.
func (b *BlockDef) Blocks() []*BlockInstance {
	var blocks []*BlockInstance
	for _, c := range b.children {
		if bi, ok := c.(*BlockInstance); ok {
			blocks = append(blocks, bi)
		}
	}
	return blocks
}

// RegisterDef is a register definition holding fields.
type RegisterDef struct {
	definition
}

// NewRegisterDef creates an empty, anonymous register definition.
func NewRegisterDef() *RegisterDef {
	return &RegisterDef{}
}

func (*RegisterDef) Kind() Kind    { return KindReg }
func (*RegisterDef) isDefinition() {}

// AddChild appends a field instance.
func (r *RegisterDef) AddChild(inst Instance) error {
	if _, ok := inst.(*FieldInstance); !ok {
		return fmt.Errorf("%w: %s in reg", ErrChildKind, inst.Kind())
	}
	return r.addChild(inst)
}

// Fields returns the field children in order.
func (r *RegisterDef) Fields() []*FieldInstance {
	fields := make([]*FieldInstance, 0, len(r.children))
	for _, c := range r.children {
		fields = append(fields, c.(*FieldInstance))
	}
	return fields
}

// FieldDef is a field definition. Fields have no children; their properties
// are assigned before the first instantiation.
type FieldDef struct {
	definition

	// Reset is nil when no reset value was given.
	Reset   *uint64
	SW      AccessType
	HW      AccessType
	OnRead  OnReadType
	OnWrite OnWriteType
	// Encode is the enumerated value encoding, if any.
	Encode *Enum
}

// NewFieldDef creates an anonymous field definition.
func NewFieldDef() *FieldDef {
	return &FieldDef{}
}

func (*FieldDef) Kind() Kind    { return KindField }
func (*FieldDef) isDefinition() {}

// Software returns the software access, defaulting to read-write.
func (f *FieldDef) Software() AccessType {
	if f.SW == AccessUnset {
		return AccessRW
	}
	return f.SW
}

// Hardware returns the hardware access, defaulting to read-write.
func (f *FieldDef) Hardware() AccessType {
	if f.HW == AccessUnset {
		return AccessRW
	}
	return f.HW
}

// ArrayShape describes the replication of an instance. Stride is in address
// units; zero means the elements are packed back to back.
type ArrayShape struct {
	Dimensions []uint64
	Stride     uint64
}

// Len returns the total number of elements.
func (a *ArrayShape) Len() uint64 {
	if a == nil {
		return 1
	}
	n := uint64(1)
	for _, d := range a.Dimensions {
		n *= d
	}
	return n
}

func (a *ArrayShape) validate() error {
	if a == nil {
		return nil
	}
	if len(a.Dimensions) == 0 {
		return fmt.Errorf("%w: array without dimensions", ErrInvalidShape)
	}
	for _, d := range a.Dimensions {
		if d == 0 {
			return fmt.Errorf("%w: zero array dimension", ErrInvalidShape)
		}
	}
	return nil
}

func (a *ArrayShape) String() string {
	if a == nil {
		return ""
	}
	s := ""
	for _, d := range a.Dimensions {
		s += fmt.Sprintf("[%d]", d)
	}
	if a.Stride != 0 {
		s += fmt.Sprintf(" += 0x%x", a.Stride)
	}
	return s
}

// BlockInstance places a block definition inside a parent block.
type BlockInstance struct {
	Def        *BlockDef
	Name       string
	AddrOffset uint64
	Array      *ArrayShape
	Desc       string
}

func (*BlockInstance) Kind() Kind               { return KindAddrmap }
func (i *BlockInstance) InstName() string       { return i.Name }
func (i *BlockInstance) Definition() Definition { return i.Def }
func (i *BlockInstance) Description() string    { return i.Desc }
func (*BlockInstance) isInstance()              {}

// RegisterInstance places a register definition inside a block.
type RegisterInstance struct {
	Def        *RegisterDef
	Name       string
	AddrOffset uint64
	Array      *ArrayShape
	Desc       string
}

func (*RegisterInstance) Kind() Kind               { return KindReg }
func (i *RegisterInstance) InstName() string       { return i.Name }
func (i *RegisterInstance) Definition() Definition { return i.Def }
func (i *RegisterInstance) Description() string    { return i.Desc }
func (*RegisterInstance) isInstance()              {}

// FieldInstance places a field definition at a bit position in a register.
type FieldInstance struct {
	Def       *FieldDef
	Name      string
	BitOffset uint64
	BitWidth  uint64
	Desc      string
}

func (*FieldInstance) Kind() Kind               { return KindField }
func (i *FieldInstance) InstName() string       { return i.Name }
func (i *FieldInstance) Definition() Definition { return i.Def }
func (i *FieldInstance) Description() string    { return i.Desc }
func (*FieldInstance) isInstance()              {}

// MSB returns the most significant bit occupied by the field.
func (i *FieldInstance) MSB() uint64 {
	return i.BitOffset + i.BitWidth - 1
}

// InstantiateBlock seals def and binds it to name at offset.
func InstantiateBlock(def *BlockDef, name string, offset uint64, array *ArrayShape) (*BlockInstance, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty instance name", ErrInvalidShape)
	}
	if err := array.validate(); err != nil {
		return nil, err
	}
	def.Seal()
	return &BlockInstance{Def: def, Name: name, AddrOffset: offset, Array: array}, nil
}

// InstantiateRegister seals def and binds it to name at offset.
func InstantiateRegister(def *RegisterDef, name string, offset uint64, array *ArrayShape) (*RegisterInstance, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty instance name", ErrInvalidShape)
	}
	if err := array.validate(); err != nil {
		return nil, err
	}
	def.Seal()
	return &RegisterInstance{Def: def, Name: name, AddrOffset: offset, Array: array}, nil
}

// InstantiateField seals def and binds it to name at bitOffset.
func InstantiateField(def *FieldDef, name string, bitOffset, bitWidth uint64) (*FieldInstance, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty instance name", ErrInvalidShape)
	}
	if bitWidth == 0 {
		return nil, fmt.Errorf("%w: field %q has zero width", ErrInvalidShape, name)
	}
	def.Seal()
	return &FieldInstance{Def: def, Name: name, BitOffset: bitOffset, BitWidth: bitWidth}, nil
}
