// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package document

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseTOML parses a TOML document. TOML does not report per-key positions,
// so every node carries only the file name.
func ParseTOML(data []byte, file string) (*Node, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", displayName(file), err)
	}
	return FromValue(raw, Position{File: file})
}

// Parse parses data according to the extension of file: ".toml" selects
// TOML, anything else is read as a YAML (or JSON) stream.
func Parse(data []byte, file string) ([]*Node, error) {
	if strings.EqualFold(path.Ext(file), ".toml") {
		n, err := ParseTOML(data, file)
		if err != nil {
			return nil, err
		}
		return []*Node{n}, nil
	}
	return ParseYAML(data, file)
}

// ReadFile reads name from fsys and parses it with Parse.
func ReadFile(fsys fs.FS, name string) ([]*Node, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return Parse(data, name)
}
