// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package rdl

import (
	"errors"
	"testing"
)

func TestParseAccessType(t *testing.T) {
	tests := []struct {
		in      string
		want    AccessType
		wantErr bool
	}{
		{"rw", AccessRW, false},
		{"wr", AccessRW, false},
		{"r", AccessR, false},
		{"w", AccessW, false},
		{"rw1", AccessRW1, false},
		{"w1", AccessW1, false},
		{"na", AccessNA, false},
		{"RW", AccessUnset, true},
		{"read-write", AccessUnset, true},
		{"", AccessUnset, true},
	}

	for _, tt := range tests {
		got, err := ParseAccessType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAccessType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownKeyword) {
			t.Errorf("ParseAccessType(%q) error = %v, want ErrUnknownKeyword", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAccessType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAccessTypePermissions(t *testing.T) {
	tests := []struct {
		a        AccessType
		readable bool
		writable bool
	}{
		{AccessRW, true, true},
		{AccessR, true, false},
		{AccessW, false, true},
		{AccessRW1, true, true},
		{AccessW1, false, true},
		{AccessNA, false, false},
	}

	for _, tt := range tests {
		if got := tt.a.Readable(); got != tt.readable {
			t.Errorf("%v.Readable() = %v, want %v", tt.a, got, tt.readable)
		}
		if got := tt.a.Writable(); got != tt.writable {
			t.Errorf("%v.Writable() = %v, want %v", tt.a, got, tt.writable)
		}
	}
}

func TestParseSideEffects(t *testing.T) {
	for _, name := range []string{"rclr", "rset", "ruser"} {
		got, err := ParseOnReadType(name)
		if err != nil {
			t.Errorf("ParseOnReadType(%q) error = %v", name, err)
			continue
		}
		if got.String() != name {
			t.Errorf("ParseOnReadType(%q).String() = %q", name, got)
		}
	}
	for _, name := range []string{"woset", "woclr", "wot", "wzs", "wzc", "wzt", "wclr", "wset", "wuser"} {
		got, err := ParseOnWriteType(name)
		if err != nil {
			t.Errorf("ParseOnWriteType(%q) error = %v", name, err)
			continue
		}
		if got.String() != name {
			t.Errorf("ParseOnWriteType(%q).String() = %q", name, got)
		}
	}
	if _, err := ParseOnReadType("clear"); !errors.Is(err, ErrUnknownKeyword) {
		t.Errorf("ParseOnReadType(clear) error = %v, want ErrUnknownKeyword", err)
	}
	if _, err := ParseOnWriteType("w1c"); !errors.Is(err, ErrUnknownKeyword) {
		t.Errorf("ParseOnWriteType(w1c) error = %v, want ErrUnknownKeyword", err)
	}
}

func TestFieldDefDefaults(t *testing.T) {
	f := NewFieldDef()
	if f.Software() != AccessRW || f.Hardware() != AccessRW {
		t.Errorf("default access = sw %v hw %v, want rw/rw", f.Software(), f.Hardware())
	}
	f.SW = AccessR
	if f.Software() != AccessR {
		t.Errorf("Software() = %v, want r", f.Software())
	}
}

func TestAddChild(t *testing.T) {
	reg := NewRegisterDef()
	en, err := InstantiateField(NewFieldDef(), "EN", 0, 1)
	if err != nil {
		t.Fatalf("InstantiateField() error = %v", err)
	}
	if err := reg.AddChild(en); err != nil {
		t.Fatalf("AddChild(EN) error = %v", err)
	}

	dup, _ := InstantiateField(NewFieldDef(), "EN", 1, 1)
	if err := reg.AddChild(dup); !errors.Is(err, ErrDuplicateChild) {
		t.Errorf("AddChild(duplicate) error = %v, want ErrDuplicateChild", err)
	}

	block := NewBlockDef("")
	if err := block.AddChild(en); !errors.Is(err, ErrChildKind) {
		t.Errorf("BlockDef.AddChild(field) error = %v, want ErrChildKind", err)
	}

	ctrl, err := InstantiateRegister(reg, "CTRL", 0, nil)
	if err != nil {
		t.Fatalf("InstantiateRegister() error = %v", err)
	}
	if !reg.Sealed() {
		t.Error("register definition not sealed after instantiation")
	}
	other, _ := InstantiateField(NewFieldDef(), "OTHER", 2, 1)
	if err := reg.AddChild(other); !errors.Is(err, ErrSealed) {
		t.Errorf("AddChild() on sealed definition error = %v, want ErrSealed", err)
	}
	if err := reg.AddChild(ctrl); !errors.Is(err, ErrChildKind) {
		t.Errorf("RegisterDef.AddChild(reg) error = %v, want ErrChildKind", err)
	}
	if err := reg.SetDescription("late"); !errors.Is(err, ErrSealed) {
		t.Errorf("SetDescription() on sealed definition error = %v, want ErrSealed", err)
	}

	if err := block.AddChild(ctrl); err != nil {
		t.Fatalf("BlockDef.AddChild(reg) error = %v", err)
	}
	if got := block.Registers(); len(got) != 1 || got[0] != ctrl {
		t.Errorf("Registers() = %v, want [CTRL]", got)
	}
	if got := block.Blocks(); len(got) != 0 {
		t.Errorf("Blocks() = %v, want none", got)
	}
}

func TestInstantiateErrors(t *testing.T) {
	if _, err := InstantiateField(NewFieldDef(), "F", 0, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("zero width error = %v, want ErrInvalidShape", err)
	}
	if _, err := InstantiateField(NewFieldDef(), "", 0, 1); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("empty name error = %v, want ErrInvalidShape", err)
	}
	if _, err := InstantiateRegister(NewRegisterDef(), "R", 0, &ArrayShape{Dimensions: []uint64{4, 0}}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("zero dimension error = %v, want ErrInvalidShape", err)
	}
	if _, err := InstantiateBlock(NewBlockDef(""), "B", 0, &ArrayShape{}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("empty dimensions error = %v, want ErrInvalidShape", err)
	}
}

func TestArrayShape(t *testing.T) {
	var scalar *ArrayShape
	if scalar.Len() != 1 || scalar.String() != "" {
		t.Errorf("nil shape = (%d, %q), want (1, \"\")", scalar.Len(), scalar.String())
	}
	a := &ArrayShape{Dimensions: []uint64{2, 3}, Stride: 0x10}
	if a.Len() != 6 {
		t.Errorf("Len() = %d, want 6", a.Len())
	}
	if got, want := a.String(), "[2][3] += 0x10"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSharedDefinition(t *testing.T) {
	def := NewBlockDef("shared")
	a, err := InstantiateBlock(def, "a", 0x000, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := InstantiateBlock(def, "b", 0x100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Definition() != b.Definition() {
		t.Error("instances of one definition do not share it")
	}
	if a.Kind() != KindAddrmap || def.Kind() != KindAddrmap {
		t.Errorf("Kind() = %v/%v, want addrmap", a.Kind(), def.Kind())
	}
}

func TestEnum(t *testing.T) {
	members := []EnumMember{
		{Name: "IDLE", Value: 0, DisplayName: "IDLE"},
		{Name: "BUSY", Value: 1, DisplayName: "BUSY", Desc: "working"},
	}
	e := NewEnum("STATE_enum_t", members)
	members[0].Name = "changed"

	if e.Members[0].Name != "IDLE" {
		t.Error("NewEnum() did not copy its members")
	}
	if m, ok := e.Lookup(1); !ok || m.Name != "BUSY" {
		t.Errorf("Lookup(1) = %v, %v, want BUSY", m, ok)
	}
	if _, ok := e.Lookup(7); ok {
		t.Error("Lookup(7) found a member")
	}
	if m, ok := e.Member("BUSY"); !ok || m.Desc != "working" {
		t.Errorf("Member(BUSY) = %v, %v", m, ok)
	}
	if got, want := e.String(), "enum STATE_enum_t (2 members)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
