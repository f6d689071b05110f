// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report prints human readable tables describing a device: the list
// of peripherals, the memory map grouped by peripheral groups, the register
// map of a peripheral and the bit layout of a register.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/embeddedgo/svdtool/svd"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	tw := new(tabwriter.Writer)
	tw.Init(w, 0, 0, 1, ' ', 0)
	return tw
}

// fixSpaces joins the lines of multi-line descriptions.
func fixSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pnameLess compares names so that numbered instances sort by their number:
// UART2 before UART10.
func pnameLess(a, b string) bool {
	ap := strings.TrimRight(a, "0123456789")
	bp := strings.TrimRight(b, "0123456789")
	if ap != bp || len(ap) == len(a) || len(bp) == len(b) {
		return a < b
	}
	an, err1 := strconv.ParseUint(a[len(ap):], 10, 64)
	bn, err2 := strconv.ParseUint(b[len(bp):], 10, 64)
	if err1 != nil || err2 != nil || an == bn {
		return a < b
	}
	return an < bn
}

func pnameCmp(a, b string) int {
	switch {
	case pnameLess(a, b):
		return -1
	case pnameLess(b, a):
		return 1
	}
	return 0
}

// Inventory prints one line per peripheral in the device order.
func Inventory(w io.Writer, d *svd.Device) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\t BASE\t GROUP\t DERIVED\t REGS\t IRQS\t DESCRIPTION")
	for _, p := range d.Peripherals.All() {
		irqs := "-"
		if len(p.Interrupts) != 0 {
			is := make([]string, len(p.Interrupts))
			for i, irq := range p.Interrupts {
				is[i] = irq.Name + ":" + strconv.Itoa(irq.Value)
			}
			irqs = strings.Join(is, ",")
		}
		fmt.Fprintf(
			tw, "%s\t %s\t %s\t %s\t %d\t %s\t %s\n",
			p.Name, p.BaseAddress, orDash(p.GroupName), orDash(p.DerivedFrom),
			p.Registers.Len(), irqs, fixSpaces(p.Description),
		)
	}
	return tw.Flush()
}

type memGroup struct {
	Descr string
	Bases []*memBase
}

type memBase struct {
	Name  string
	Addr  uint64
	End   uint64
	Descr string
}

func (g *memGroup) writeTo(w io.Writer) {
	if g.Descr != "" {
		fmt.Fprintln(w, "//", g.Descr)
	} else {
		fmt.Fprintln(w, "// (no group)")
	}
	for _, b := range g.Bases {
		fmt.Fprintf(w, "  %s\t 0x%08X\t 0x%08X\t", b.Name, b.Addr, b.End)
		if b.Descr != "" {
			fmt.Fprintf(w, " %s\n", b.Descr)
		} else {
			fmt.Fprintln(w)
		}
	}
}

// AddressMap prints the base addresses of all peripherals grouped by their
// group names. Derived peripherals without their own group or description
// take them from the peripheral they derive from. Peripherals with an
// unparseable base address are omitted.
func AddressMap(w io.Writer, d *svd.Device) error {
	gmap := make(map[string]*memGroup)
	for name := range d.Peripherals.All() {
		p, _ := svd.Effective(d, name)
		base, err := svd.ParseUint(p.BaseAddress)
		if err != nil {
			continue
		}
		gname := p.GroupName
		if gname == p.Name || gname == p.DerivedFrom {
			gname = ""
		}
		g := gmap[gname]
		if g == nil {
			g = &memGroup{Descr: gname}
			gmap[gname] = g
		}
		b := &memBase{Name: p.Name, Addr: base, End: base}
		if off, err := svd.ParseUint(p.AddressBlock.Offset); err == nil {
			if size, err := svd.ParseUint(p.AddressBlock.Size); err == nil && size != 0 {
				b.End = base + off + size - 1
			}
		}
		if p.Description != p.Name {
			b.Descr = fixSpaces(p.Description)
		}
		g.Bases = append(g.Bases, b)
	}
	gsli := make([]*memGroup, 0, len(gmap))
	for _, g := range gmap {
		slices.SortFunc(g.Bases, func(a, b *memBase) int { return pnameCmp(a.Name, b.Name) })
		gsli = append(gsli, g)
	}
	slices.SortFunc(gsli, func(a, b *memGroup) int { return cmp.Compare(a.Descr, b.Descr) })

	tw := newTabWriter(w)
	for _, g := range gsli {
		g.writeTo(tw)
	}
	return tw.Flush()
}

// Registers prints the register map of p in address order. For a derived
// peripheral pass the result of svd.Effective to see the inherited
// registers.
func Registers(w io.Writer, p *svd.Peripheral) error {
	regs := p.Registers.Values()
	slices.SortStableFunc(regs, func(a, b *svd.Register) int {
		ao, _ := svd.ParseUint(a.Offset)
		bo, _ := svd.ParseUint(b.Offset)
		return cmp.Compare(ao, bo)
	})
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s at %s\n", p.Name, p.BaseAddress)
	for _, r := range regs {
		off, _ := svd.ParseUint(r.Offset)
		bits, err := svd.ParseUint(r.Size)
		if err != nil {
			bits = svd.RegisterBits
		}
		fmt.Fprintf(
			tw, "  0x%03X\t%2d\t %s\t %s\t %s\t",
			off, bits, r.Name, orDash(string(r.Access)), r.ResetValue,
		)
		if r.Description != "" && r.Description != r.Name {
			fmt.Fprintf(tw, " %s\n", fixSpaces(r.Description))
		} else {
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

// Fields prints the bit fields of r from the least significant bit up.
// Bits not covered by any field are reported as gaps.
func Fields(w io.Writer, r *svd.Register) error {
	fields := r.Fields.Values()
	slices.SortStableFunc(fields, func(a, b *svd.Field) int {
		return cmp.Compare(a.BitOffset, b.BitOffset)
	})
	size := svd.RegisterBits
	if n, err := svd.ParseUint(r.Size); err == nil && n > 0 && n <= 64 {
		size = int(n)
	}
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s (%d bits, reset %s)\n", r.Name, size, r.ResetValue)
	next := 0
	for _, f := range fields {
		if f.BitOffset > next {
			fmt.Fprintf(tw, "  %s\t -\t -\t (reserved)\t\n", svd.FormatBitRange(next, f.BitOffset-next))
		}
		digits := (size + 3) / 4
		fmt.Fprintf(
			tw, "  %s\t %s\t %s\t %s\t",
			svd.FormatBitRange(f.BitOffset, f.BitWidth),
			svd.FormatHex(svd.BitMask(f.BitOffset, f.BitWidth), digits),
			orDash(string(f.Access)), f.Name,
		)
		if f.Description != "" && f.Description != f.Name {
			fmt.Fprintf(tw, " %s\n", fixSpaces(f.Description))
		} else {
			fmt.Fprintln(tw)
		}
		next = max(next, f.BitOffset+f.BitWidth)
	}
	if next < size {
		fmt.Fprintf(tw, "  %s\t -\t -\t (reserved)\t\n", svd.FormatBitRange(next, size-next))
	}
	return tw.Flush()
}
