// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/embeddedgo/svdtool/svd"
)

type Severity int

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	if s == SevError {
		return "error"
	}
	return "warning"
}

// Issue is a single finding of Device.
type Issue struct {
	Severity Severity
	Path     string
	Msg      string
}

func (i Issue) String() string {
	return i.Severity.String() + ": " + i.Path + ": " + i.Msg
}

type checker struct {
	issues []Issue
}

func (c *checker) add(sev Severity, path, f string, args ...any) {
	c.issues = append(c.issues, Issue{sev, path, fmt.Sprintf(f, args...)})
}

func (c *checker) err(path string, err error) {
	c.issues = append(c.issues, Issue{SevError, path, err.Error()})
}

func (c *checker) num(path, what, s string) (uint64, bool) {
	v, err := svd.ParseUint(s)
	if err != nil {
		c.add(SevError, path, "invalid %s: %q", what, s)
		return 0, false
	}
	return v, true
}

// Device checks the consistency of the whole device tree: value formats,
// bit ranges, overlapping fields, registers and peripherals, references
// between peripherals and the interrupt table. It never fails; all problems
// are reported as issues in document order.
func Device(d *svd.Device) []Issue {
	c := new(checker)
	if _, err := Name(d.Name, "device name"); err != nil {
		c.add(SevWarning, "device", "%v", err)
	}
	if !slices.Contains(svd.SVDVersions, d.SVDVersion) {
		c.add(SevWarning, "device", "unsupported schema version %q, 1.3 is used", d.SVDVersion)
	}
	c.num("device", "size", d.Size)
	c.num("device", "reset value", d.ResetValue)
	c.num("device", "reset mask", d.ResetMask)
	switch d.CPU.Endian {
	case "little", "big", "selectable":
	default:
		c.add(SevWarning, "cpu", "unknown endianness %q", d.CPU.Endian)
	}
	if d.CPU.NVICPrioBits < 0 || d.CPU.NVICPrioBits > 8 {
		c.add(SevError, "cpu", "nvicPrioBits must be in range 0-8")
	}

	for _, p := range d.Peripherals.All() {
		c.peripheral(d, p)
	}
	c.blocks(d)
	if _, err := svd.DerivationOrder(d); err != nil {
		var ce *svd.CycleError
		if errors.As(err, &ce) {
			for _, cyc := range ce.Cycles {
				c.add(SevError, cyc[0], "derivedFrom cycle: %s", strings.Join(cyc, ", "))
			}
		} else {
			c.err("device", err)
		}
	}
	c.interrupts(d)
	return c.issues
}

func (c *checker) peripheral(d *svd.Device, p *svd.Peripheral) {
	path := p.Name
	if _, err := Name(p.Name, "peripheral name"); err != nil {
		c.err(path, err)
	}
	c.num(path, "base address", p.BaseAddress)
	if p.DerivedFrom != "" && !d.Peripherals.Has(p.DerivedFrom) {
		c.add(SevWarning, path, "derivedFrom names a missing peripheral %q", p.DerivedFrom)
	}
	var blockEnd uint64
	bo, ok1 := c.num(path, "address block offset", p.AddressBlock.Offset)
	bs, ok2 := c.num(path, "address block size", p.AddressBlock.Size)
	if ok1 && ok2 {
		blockEnd = bo + bs
	}
	offsets := make(map[uint64]string)
	for _, r := range p.Registers.All() {
		rpath := path + "." + r.Name
		if _, err := Name(r.Name, "register name"); err != nil {
			c.err(rpath, err)
		}
		if _, err := Access(string(r.Access)); err != nil {
			c.err(rpath, err)
		}
		c.num(rpath, "reset value", r.ResetValue)
		bits := svd.RegisterBits
		if size, ok := c.num(rpath, "size", r.Size); ok {
			bits = int(size)
		}
		if off, ok := c.num(rpath, "address offset", r.Offset); ok {
			if other, dup := offsets[off]; dup {
				c.add(SevWarning, rpath, "same address offset as %s", other)
			} else {
				offsets[off] = r.Name
			}
			if blockEnd != 0 && off+uint64(bits+7)/8 > blockEnd {
				c.add(SevWarning, rpath, "register exceeds the address block")
			}
		}
		c.fields(rpath, r, bits)
	}
}

func (c *checker) fields(rpath string, r *svd.Register, bits int) {
	type span struct {
		name     string
		lsb, msb int
	}
	var spans []span
	for _, f := range r.Fields.All() {
		fpath := rpath + "." + f.Name
		if _, err := Name(f.Name, "field name"); err != nil {
			c.err(fpath, err)
		}
		if _, err := Access(string(f.Access)); err != nil {
			c.err(fpath, err)
		}
		if f.ResetValue != "" {
			if v, ok := c.num(fpath, "reset value", f.ResetValue); ok &&
				v&^svd.BitMask(0, f.BitWidth) != 0 {
				c.add(SevWarning, fpath, "reset value %s does not fit in %d bits", f.ResetValue, f.BitWidth)
			}
		}
		if _, _, err := BitRange(f.BitOffset, f.BitWidth, bits); err != nil {
			c.err(fpath, err)
			continue
		}
		spans = append(spans, span{f.Name, f.BitOffset, f.BitOffset + f.BitWidth - 1})
	}
	slices.SortStableFunc(spans, func(a, b span) int { return cmp.Compare(a.lsb, b.lsb) })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.lsb <= prev.msb {
			c.add(SevError, rpath+"."+cur.name, "bits %s overlap field %s",
				svd.FormatBitRange(cur.lsb, cur.msb-cur.lsb+1), prev.name)
		}
	}
}

// blocks reports peripherals whose address blocks overlap. Derived
// peripherals are included: they occupy their own address range.
func (c *checker) blocks(d *svd.Device) {
	type block struct {
		name       string
		start, end uint64
	}
	var bs []block
	for _, p := range d.Peripherals.All() {
		base, err1 := svd.ParseUint(p.BaseAddress)
		off, err2 := svd.ParseUint(p.AddressBlock.Offset)
		size, err3 := svd.ParseUint(p.AddressBlock.Size)
		if err1 != nil || err2 != nil || err3 != nil || size == 0 {
			continue
		}
		bs = append(bs, block{p.Name, base + off, base + off + size})
	}
	slices.SortStableFunc(bs, func(a, b block) int { return cmp.Compare(a.start, b.start) })
	for i := 1; i < len(bs); i++ {
		if bs[i].start < bs[i-1].end {
			c.add(SevWarning, bs[i].name, "address block overlaps %s", bs[i-1].name)
		}
	}
}

func (c *checker) interrupts(d *svd.Device) {
	numbers := make(map[int]*svd.Interrupt)
	for _, irq := range d.Interrupts.All() {
		path := "irq." + irq.Name
		if _, err := Name(irq.Name, "interrupt name"); err != nil {
			c.err(path, err)
		}
		if _, err := IRQNumber(irq.Value); err != nil {
			c.err(path, err)
		}
		if irq.Peripheral != "" && !d.Peripherals.Has(irq.Peripheral) {
			c.add(SevWarning, path, "peripheral %q does not exist", irq.Peripheral)
		}
		if other, ok := numbers[irq.Value]; ok && other.Peripheral != irq.Peripheral {
			c.add(SevWarning, path, "number %d is also used by %s", irq.Value, other.Name)
		} else if !ok {
			numbers[irq.Value] = irq
		}
	}
}

// HasErrors reports whether issues contain at least one SevError.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SevError })
}
