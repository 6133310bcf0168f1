// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package rdl

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented text rendering of a block definition and all of
// its descendants to w.
func Fprint(w io.Writer, def *BlockDef) error {
	p := &printer{w: w}
	name := def.TypeName()
	if name == "" {
		name = "<anonymous>"
	}
	p.line(0, "addrmap %s%s", name, quoted(def.Description()))
	p.block(def, 1)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) block(def *BlockDef, depth int) {
	for _, child := range def.Children() {
		switch c := child.(type) {
		case *RegisterInstance:
			p.line(depth, "reg %s @ 0x%x%s%s", c.Name, c.AddrOffset, array(c.Array), quoted(c.Desc))
			for _, f := range c.Def.Fields() {
				p.field(f, depth+1)
			}
		case *BlockInstance:
			typ := ""
			if c.Def.TypeName() != "" {
				typ = " : " + c.Def.TypeName()
			}
			desc := c.Desc
			if desc == "" {
				desc = c.Def.Description()
			}
			p.line(depth, "addrmap %s%s @ 0x%x%s%s", c.Name, typ, c.AddrOffset, array(c.Array), quoted(desc))
			p.block(c.Def, depth+1)
		}
	}
}

func (p *printer) field(f *FieldInstance, depth int) {
	d := f.Def
	var b strings.Builder
	fmt.Fprintf(&b, "field %s [%d:%d] sw=%s hw=%s", f.Name, f.MSB(), f.BitOffset, d.Software(), d.Hardware())
	if d.OnRead != OnReadNone {
		fmt.Fprintf(&b, " onread=%s", d.OnRead)
	}
	if d.OnWrite != OnWriteNone {
		fmt.Fprintf(&b, " onwrite=%s", d.OnWrite)
	}
	if d.Reset != nil {
		fmt.Fprintf(&b, " reset=0x%x", *d.Reset)
	}
	b.WriteString(quoted(f.Desc))
	p.line(depth, "%s", b.String())
	if d.Encode != nil {
		p.line(depth+1, "enum %s", d.Encode.Name)
		for _, m := range d.Encode.Members {
			p.line(depth+2, "%s = 0x%x%s", m.Name, m.Value, quoted(m.Desc))
		}
	}
}

func array(a *ArrayShape) string {
	if a == nil {
		return ""
	}
	return " " + a.String()
}

func quoted(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" %q", s)
}

// WalkFunc is called for every instance below a block definition. path holds
// the instance names from the root down to and including inst.
type WalkFunc func(path []string, inst Instance) error

// Walk visits every instance below def depth-first, in child order. Fields
// are visited after their register. Walk stops at the first error returned
// by fn.
func Walk(def *BlockDef, fn WalkFunc) error {
	return walk(def, nil, fn)
}

func walk(def *BlockDef, path []string, fn WalkFunc) error {
	for _, child := range def.Children() {
		p := append(path[:len(path):len(path)], child.InstName())
		if err := fn(p, child); err != nil {
			return err
		}
		switch c := child.(type) {
		case *RegisterInstance:
			for _, f := range c.Def.Fields() {
				fp := append(p[:len(p):len(p)], f.Name)
				if err := fn(fp, f); err != nil {
					return err
				}
			}
		case *BlockInstance:
			if err := walk(c.Def, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
