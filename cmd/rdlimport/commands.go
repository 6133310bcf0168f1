// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/MultiTechSystems/regmap-schema/importer"
	"github.com/MultiTechSystems/regmap-schema/rdl"
)

func init() {
	RegisterCommand("check", "Import documents and report a summary of each type.", cmdCheck)
	RegisterCommand("dump", "Print the register tree of imported types.", cmdDump)
	RegisterCommand("types", "List the named types in the session.", cmdTypes)
}

var errNoInput = errors.New("no input files")

type commonFlags struct {
	config  string
	verbose bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cf := new(commonFlags)
	fs.StringVar(&cf.config, "config", "", "Read session options from this TOML file.")
	fs.BoolVar(&cf.verbose, "v", false, "Log progress to stderr.")
	return fs, cf
}

// openSession builds a session from the flags, imports any preloaded
// documents and then files. It returns the definitions imported from files.
func openSession(ctx context.Context, cf *commonFlags, files []string) (*importer.Session, []*rdl.BlockDef, error) {
	if len(files) == 0 {
		return nil, nil, errNoInput
	}

	var opts importer.Options
	var preload []string
	if cf.config != "" {
		cfg, err := LoadConfig(cf.config)
		if err != nil {
			return nil, nil, err
		}
		opts = cfg.Options()
		preload = cfg.Preload
	}
	if cf.verbose {
		opts.Logger = log.New(os.Stderr, log.Prefix(), 0)
	}

	s := importer.NewSession(opts)
	if len(preload) > 0 {
		if _, err := s.ImportFiles(ctx, preload...); err != nil {
			return nil, nil, err
		}
	}
	defs, err := s.ImportFiles(ctx, files...)
	if err != nil {
		return nil, nil, err
	}
	return s, defs, nil
}

func cmdCheck(ctx context.Context, w io.Writer, args []string) error {
	fs, cf := newFlagSet("check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, defs, err := openSession(ctx, cf, fs.Args())
	if err != nil {
		return err
	}

	for _, def := range defs {
		var blocks, regs, fields int
		err := rdl.Walk(def, func(_ []string, inst rdl.Instance) error {
			switch inst.Kind() {
			case rdl.KindAddrmap:
				blocks++
			case rdl.KindReg:
				regs++
			case rdl.KindField:
				fields++
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %d addrmaps, %d registers, %d fields\n", def.TypeName(), blocks, regs, fields)
	}
	return nil
}

func cmdDump(ctx context.Context, w io.Writer, args []string) error {
	fs, cf := newFlagSet("dump")
	var typeName string
	fs.StringVar(&typeName, "type", "", "Print only this type (may come from a preloaded document).")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, defs, err := openSession(ctx, cf, fs.Args())
	if err != nil {
		return err
	}

	if typeName != "" {
		found, ok := s.Registry().Lookup(typeName)
		if !ok {
			return fmt.Errorf("type %q is not defined", typeName)
		}
		def, ok := found.(*rdl.BlockDef)
		if !ok {
			return fmt.Errorf("type %q is a %s, not an addrmap", typeName, found.Kind())
		}
		defs = []*rdl.BlockDef{def}
	}

	for _, def := range defs {
		if err := rdl.Fprint(w, def); err != nil {
			return err
		}
	}
	return nil
}

func cmdTypes(ctx context.Context, w io.Writer, args []string) error {
	fs, cf := newFlagSet("types")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, _, err := openSession(ctx, cf, fs.Args())
	if err != nil {
		return err
	}

	reg := s.Registry()
	for _, name := range reg.Names() {
		def, _ := reg.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\tv%d\n", name, def.Kind(), reg.Version(name))
	}
	return nil
}
