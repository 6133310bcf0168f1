// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package rdl

import "fmt"

// EnumMember is one named value of an Enum.
type EnumMember struct {
	Name        string
	Value       uint64
	DisplayName string
	Desc        string
}

// Enum is a named set of field values. Members keep declaration order.
type Enum struct {
	Name    string
	Members []EnumMember
}

// NewEnum creates an enumerated type from members, copied in order.
func NewEnum(name string, members []EnumMember) *Enum {
	return &Enum{Name: name, Members: append([]EnumMember(nil), members...)}
}

// Lookup returns the first member with the given value.
func (e *Enum) Lookup(value uint64) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Value == value {
			return m, true
		}
	}
	return EnumMember{}, false
}

// Member returns the first member with the given name.
func (e *Enum) Member(name string) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

func (e *Enum) String() string {
	return fmt.Sprintf("enum %s (%d members)", e.Name, len(e.Members))
}
