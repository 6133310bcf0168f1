// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package importer decodes register map documents into rdl definitions.
//
// A document is a mapping with a single "addrmap" entry describing the top
// block:
//
//	addrmap:
//	  type_name: uart
//	  registers:
//	    - inst_name: CTRL
//	      addr_offset: 0x0
//	      fields:
//	        - {inst_name: EN, bit_offset: 0, bit_width: 1, sw: rw, hw: r}
//	  addrmaps:
//	    - {inst_name: fifo, addr_offset: 0x100, type_name: fifo_t}
//
// Each import produces one named block definition and registers it in the
// session's registry, where later documents can refer to it by type_name.
// Decoding stops at the first problem; nothing is registered for a document
// that fails.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MultiTechSystems/regmap-schema/document"
	"github.com/MultiTechSystems/regmap-schema/rdl"
	"github.com/MultiTechSystems/regmap-schema/registry"
)

// DefaultAddressUnitBits is the address unit used when Options leaves it unset.
const DefaultAddressUnitBits = 8

// maxParallelReads bounds the number of documents read and parsed at once
// by ImportFiles.
const maxParallelReads = 8

// Options configures a Session.
type Options struct {
	// AddressUnitBits is recorded on every block definition. Zero selects
	// DefaultAddressUnitBits.
	AddressUnitBits int
	// AllowRedefine lets a later document replace a type registered by an
	// earlier one. By default the second registration fails.
	AllowRedefine bool
	// StrictEnums rejects enum value lists that repeat a name or a value.
	StrictEnums bool
	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

// Session is one import session. Types registered by an import are visible
// to every later import in the same session. A Session is safe for
// concurrent use; imports are serialized.
type Session struct {
	mu    sync.Mutex
	opts  Options
	types *registry.Registry
	log   *log.Logger
}

// NewSession creates a session with an empty registry.
func NewSession(opts Options) *Session {
	if opts.AddressUnitBits <= 0 {
		opts.AddressUnitBits = DefaultAddressUnitBits
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	policy := registry.Reject
	if opts.AllowRedefine {
		policy = registry.Redefine
	}
	return &Session{
		opts:  opts,
		types: registry.New(policy),
		log:   logger,
	}
}

// Registry returns the session's named-type registry.
func (s *Session) Registry() *registry.Registry {
	return s.types
}

// Import decodes one parsed document and registers its top-level block
// under the block's type name.
func (s *Session) Import(root *document.Node) (*rdl.BlockDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(root)
}

func (s *Session) importLocked(root *document.Node) (*rdl.BlockDef, error) {
	top, ok := root.Get("addrmap")
	if !ok || top.IsNull() {
		var pos document.Position
		if root != nil {
			pos = root.Pos
		}
		return nil, &DecodeError{
			Kind:   ErrMissingSection,
			Pos:    pos,
			Key:    "addrmap",
			Detail: "could not find an 'addrmap' element",
		}
	}

	d := &decoder{types: s.types, opts: s.opts, log: s.log}
	def, err := d.topAddrmap(top)
	if err != nil {
		return nil, err
	}

	version, err := s.types.Register(def.TypeName(), def)
	if err != nil {
		at, _ := top.Get("type_name")
		return nil, &DecodeError{
			Kind:   ErrDuplicateType,
			Pos:    at.Pos,
			Entity: "addrmap",
			Key:    "type_name",
			Detail: fmt.Sprintf("type '%s' is already defined", def.TypeName()),
		}
	}
	s.log.Printf("%s: registered addrmap type %q (version %d, %d children)", top.Pos, def.TypeName(), version, len(def.Children()))
	return def, nil
}

// ImportBytes parses data as the file named file and imports every document
// it holds, in order. Documents before a failing one stay registered.
func (s *Session) ImportBytes(data []byte, file string) ([]*rdl.BlockDef, error) {
	docs, err := document.Parse(data, file)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importDocs(docs, file)
}

func (s *Session) importDocs(docs []*document.Node, file string) ([]*rdl.BlockDef, error) {
	if len(docs) == 0 {
		return nil, &DecodeError{
			Kind:   ErrMissingSection,
			Pos:    document.Position{File: file},
			Key:    "addrmap",
			Detail: "document is empty",
		}
	}
	defs := make([]*rdl.BlockDef, 0, len(docs))
	for _, doc := range docs {
		def, err := s.importLocked(doc)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// ImportFile reads and imports the named file.
func (s *Session) ImportFile(path string) ([]*rdl.BlockDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.ImportBytes(data, path)
}

// ImportFS reads and imports name from fsys.
func (s *Session) ImportFS(fsys fs.FS, name string) ([]*rdl.BlockDef, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return s.ImportBytes(data, name)
}

// ImportFiles reads and parses the named files concurrently, then imports
// them one by one in argument order so that a file may use types declared
// by the files before it. It stops at the first failure or when ctx is done.
func (s *Session) ImportFiles(ctx context.Context, paths ...string) ([]*rdl.BlockDef, error) {
	parsed := make([][]*document.Node, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			docs, err := document.Parse(data, path)
			if err != nil {
				return err
			}
			parsed[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var defs []*rdl.BlockDef
	for i, docs := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := s.importDocs(docs, paths[i])
		if err != nil {
			return nil, err
		}
		defs = append(defs, got...)
		s.log.Printf("%s: imported %d document(s)", paths[i], len(docs))
	}
	return defs, nil
}
