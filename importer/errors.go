// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MultiTechSystems/regmap-schema/document"
	"github.com/MultiTechSystems/regmap-schema/registry"
)

// Error kinds. Every error returned by an import is a *DecodeError whose
// Kind is one of these, so callers can test with errors.Is.
var (
	ErrMissingField        = errors.New("missing required field")
	ErrMissingSection      = errors.New("missing addrmap section")
	ErrUnresolvedType      = errors.New("unresolved type")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrUnknownEnumValue    = errors.New("unknown enumeration value")
	ErrInvalidValue        = errors.New("invalid value")
	ErrDuplicateName       = errors.New("duplicate instance name")
	ErrDuplicateType       = registry.ErrDuplicateType
	ErrDuplicateEnumMember = errors.New("duplicate enum member")
)

// DecodeError describes the first problem found in a document.
type DecodeError struct {
	Kind error
	Pos  document.Position
	// Entity is the component being decoded: "addrmap", "reg", "field",
	// "enum" or "enum value".
	Entity string
	// Path is the dotted instance path of the enclosing component, when known.
	Path string
	// Key is the offending document key, if any.
	Key    string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (in %s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
