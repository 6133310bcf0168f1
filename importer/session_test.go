// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/MultiTechSystems/regmap-schema/document"
)

func TestImportStream(t *testing.T) {
	src := fooDoc + "---\n" + usesFooDoc
	s := NewSession(Options{})
	defs, err := s.ImportBytes([]byte(src), "stream.yaml")
	if err != nil {
		t.Fatalf("ImportBytes() error = %v", err)
	}
	if len(defs) != 2 || defs[0].TypeName() != "Foo" || defs[1].TypeName() != "top" {
		t.Fatalf("ImportBytes() = %v, want [Foo top]", defs)
	}
	if defs[1].Blocks()[0].Def != defs[0] {
		t.Error("second document does not reuse the first document's type")
	}
}

func TestImportStreamPartialFailure(t *testing.T) {
	src := fooDoc + "---\naddrmap: {type_name: broken, registers: [{inst_name: R}]}\n"
	s := NewSession(Options{})
	defs, err := s.ImportBytes([]byte(src), "stream.yaml")
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("ImportBytes() error = %v, want ErrMissingField", err)
	}
	if defs != nil {
		t.Errorf("ImportBytes() returned %v alongside an error", defs)
	}
	if diff := cmp.Diff([]string{"Foo"}, s.Registry().Names()); diff != "" {
		t.Errorf("registry names mismatch (-want +got):\n%s", diff)
	}
}

func TestImportParsedDocument(t *testing.T) {
	docs, err := document.ParseYAML([]byte(fooDoc), "foo.yaml")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{})
	def, err := s.Import(docs[0])
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if def.TypeName() != "Foo" {
		t.Errorf("TypeName() = %q, want Foo", def.TypeName())
	}

	if _, err := s.Import(nil); !errors.Is(err, ErrMissingSection) {
		t.Errorf("Import(nil) error = %v, want ErrMissingSection", err)
	}
}

func TestImportTOML(t *testing.T) {
	src := `
[addrmap]
type_name = "top"

[[addrmap.registers]]
inst_name = "CTRL"
addr_offset = 0x10
fields = [
  { inst_name = "EN", bit_offset = 0, bit_width = 1, sw = "rw", hw = "r" },
]
`
	s := NewSession(Options{})
	defs, err := s.ImportBytes([]byte(src), "top.toml")
	if err != nil {
		t.Fatalf("ImportBytes() error = %v", err)
	}
	regs := defs[0].Registers()
	if len(regs) != 1 || regs[0].Name != "CTRL" || regs[0].AddrOffset != 0x10 {
		t.Fatalf("registers = %v, want CTRL @ 0x10", regs)
	}
	if f := regs[0].Def.Fields()[0]; f.Name != "EN" || f.BitWidth != 1 {
		t.Errorf("field = %s width %d, want EN width 1", f.Name, f.BitWidth)
	}
}

func TestImportFS(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/foo.yaml": {Data: []byte(fooDoc)},
		"maps/top.yaml": {Data: []byte(usesFooDoc)},
	}
	s := NewSession(Options{})
	for _, name := range []string{"maps/foo.yaml", "maps/top.yaml"} {
		if _, err := s.ImportFS(fsys, name); err != nil {
			t.Fatalf("ImportFS(%s) error = %v", name, err)
		}
	}
	if s.Registry().Len() != 2 {
		t.Errorf("registry holds %d types, want 2", s.Registry().Len())
	}

	_, err := s.ImportFS(fsys, "maps/missing.yaml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportFS(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestImportFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"foo.yaml": fooDoc,
		"top.yaml": usesFooDoc,
		"bad.yaml": "addrmap: [unterminated\n",
	})
	foo := filepath.Join(dir, "foo.yaml")
	top := filepath.Join(dir, "top.yaml")

	tests := []struct {
		name      string
		paths     []string
		wantTypes []string
		wantErr   error
	}{
		{"dependency order", []string{foo, top}, []string{"Foo", "top"}, nil},
		{"reverse order", []string{top, foo}, nil, ErrUnresolvedType},
		{"missing file", []string{foo, filepath.Join(dir, "none.yaml")}, nil, fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(Options{})
			defs, err := s.ImportFiles(context.Background(), tt.paths...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ImportFiles() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportFiles() error = %v", err)
			}
			var got []string
			for _, def := range defs {
				got = append(got, def.TypeName())
			}
			if diff := cmp.Diff(tt.wantTypes, got); diff != "" {
				t.Errorf("types mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		s := NewSession(Options{})
		if _, err := s.ImportFiles(context.Background(), foo, filepath.Join(dir, "bad.yaml")); err == nil {
			t.Fatal("ImportFiles() succeeded, want parse error")
		}
		if s.Registry().Len() != 0 {
			t.Errorf("parse failure registered %v", s.Registry().Names())
		}
	})
}

func TestImportFilesCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"foo.yaml": fooDoc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(Options{})
	_, err := s.ImportFiles(ctx, filepath.Join(dir, "foo.yaml"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ImportFiles() error = %v, want context.Canceled", err)
	}
}

func TestConcurrentImports(t *testing.T) {
	s := NewSession(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("addrmap: {type_name: block%d, registers: [{inst_name: R, addr_offset: 0, fields: []}]}", i)
			if _, err := s.ImportBytes([]byte(src), "concurrent.yaml"); err != nil {
				t.Errorf("import %d error = %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	if s.Registry().Len() != 8 {
		t.Errorf("registry holds %d types, want 8", s.Registry().Len())
	}
}
