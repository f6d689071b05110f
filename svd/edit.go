// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"cmp"
	"strconv"
)

// unparsedAddr sorts elements with unparseable addresses last.
const unparsedAddr = 0xFFFFFFFF

func addr(s string) uint64 {
	v, err := ParseUint(s)
	if err != nil {
		return unparsedAddr
	}
	return v
}

// SortPeripheralsByName orders peripherals alphabetically. It reports
// whether the order changed.
func (d *Device) SortPeripheralsByName() bool {
	return d.Peripherals.SortFunc(func(a, b *Peripheral) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// SortPeripheralsByAddress orders peripherals by base address.
func (d *Device) SortPeripheralsByAddress() bool {
	return d.Peripherals.SortFunc(func(a, b *Peripheral) int {
		return cmp.Compare(addr(a.BaseAddress), addr(b.BaseAddress))
	})
}

// SortRegistersByOffset orders registers by address offset.
func (p *Peripheral) SortRegistersByOffset() bool {
	return p.Registers.SortFunc(func(a, b *Register) int {
		return cmp.Compare(addr(a.Offset), addr(b.Offset))
	})
}

// SortFieldsByBitOffset orders fields by their least significant bit.
func (r *Register) SortFieldsByBitOffset() bool {
	return r.Fields.SortFunc(func(a, b *Field) int {
		return cmp.Compare(a.BitOffset, b.BitOffset)
	})
}

// UniqueName returns base if taken(base) is false, otherwise the first of
// base_1, base_2, ... that is not taken.
func UniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 1; ; n++ {
		name := base + "_" + strconv.Itoa(n)
		if !taken(name) {
			return name
		}
	}
}

// PastePeripheral adds a copy of p to d under a unique name, just after the
// original if it belongs to d. It returns the added copy.
func (d *Device) PastePeripheral(p *Peripheral) *Peripheral {
	c := p.Clone()
	c.Name = UniqueName(p.Name, d.Peripherals.Has)
	for i := range c.Interrupts {
		c.Interrupts[i].Peripheral = c.Name
	}
	pos := d.Peripherals.Len()
	if i := d.Peripherals.Index(p.Name); i >= 0 {
		pos = i + 1
	}
	d.Peripherals.Insert(pos, c.Name, c)
	return c
}

// PasteRegister adds a copy of r to p under a unique name.
func (p *Peripheral) PasteRegister(r *Register) *Register {
	c := r.Clone()
	c.Name = UniqueName(r.Name, p.Registers.Has)
	pos := p.Registers.Len()
	if i := p.Registers.Index(r.Name); i >= 0 {
		pos = i + 1
	}
	p.Registers.Insert(pos, c.Name, c)
	return c
}

// PasteField adds a copy of f to r under a unique name.
func (r *Register) PasteField(f *Field) *Field {
	c := f.Clone()
	c.Name = UniqueName(f.Name, r.Fields.Has)
	pos := r.Fields.Len()
	if i := r.Fields.Index(f.Name); i >= 0 {
		pos = i + 1
	}
	r.Fields.Insert(pos, c.Name, c)
	return c
}

// RenamePeripheral renames a peripheral and updates every name reference to
// it: DerivedFrom attributes and interrupt owners.
func (d *Device) RenamePeripheral(oldName, newName string) error {
	p, ok := d.Peripherals.Get(oldName)
	if !ok {
		return ErrNotFound
	}
	if err := d.Peripherals.Rename(oldName, newName); err != nil {
		return err
	}
	p.Name = newName
	for _, q := range d.Peripherals.All() {
		if q.DerivedFrom == oldName {
			q.DerivedFrom = newName
		}
	}
	for i := range p.Interrupts {
		p.Interrupts[i].Peripheral = newName
	}
	for _, irq := range d.Interrupts.All() {
		if irq.Peripheral == oldName {
			irq.Peripheral = newName
		}
	}
	return nil
}

// DeletePeripheral removes a peripheral together with its device level
// interrupts. Peripherals derived from it keep their (now dangling)
// reference.
func (d *Device) DeletePeripheral(name string) bool {
	if !d.Peripherals.Delete(name) {
		return false
	}
	for _, k := range d.Interrupts.Keys() {
		if irq, _ := d.Interrupts.Get(k); irq.Peripheral == name {
			d.Interrupts.Delete(k)
		}
	}
	return true
}
