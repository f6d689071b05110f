// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindPeripheral Kind = iota
	KindRegister
	KindField
	KindInterrupt
)

func (k Kind) String() string {
	switch k {
	case KindPeripheral:
		return "peripheral"
	case KindRegister:
		return "register"
	case KindField:
		return "field"
	case KindInterrupt:
		return "interrupt"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Match is a single search hit. Register and Field are set only for
// register and field hits, Interrupt only for interrupt hits.
type Match struct {
	Kind       Kind
	Peripheral string
	Register   string
	Field      string
	Interrupt  string
}

// Path returns the dot separated location of the hit.
func (m Match) Path() string {
	switch m.Kind {
	case KindRegister:
		return m.Peripheral + "." + m.Register
	case KindField:
		return m.Peripheral + "." + m.Register + "." + m.Field
	case KindInterrupt:
		return "irq." + m.Interrupt
	}
	return m.Peripheral
}

// Search finds all elements whose name contains text, ignoring case.
// Interrupts also match on their number, description and owner. The
// result lists the peripheral tree first, in document order, then the
// interrupt table.
func Search(d *Device, text string) []Match {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), text) }
	var ms []Match
	for _, p := range d.Peripherals.All() {
		if has(p.Name) {
			ms = append(ms, Match{Kind: KindPeripheral, Peripheral: p.Name})
		}
		for _, r := range p.Registers.All() {
			if has(r.Name) {
				ms = append(ms, Match{Kind: KindRegister, Peripheral: p.Name, Register: r.Name})
			}
			for _, f := range r.Fields.All() {
				if has(f.Name) {
					ms = append(ms, Match{
						Kind:       KindField,
						Peripheral: p.Name,
						Register:   r.Name,
						Field:      f.Name,
					})
				}
			}
		}
	}
	for _, irq := range d.Interrupts.All() {
		if has(irq.Name) || has(strconv.Itoa(irq.Value)) ||
			has(irq.Description) || has(irq.Peripheral) {
			ms = append(ms, Match{
				Kind:       KindInterrupt,
				Peripheral: irq.Peripheral,
				Interrupt:  irq.Name,
			})
		}
	}
	return ms
}
