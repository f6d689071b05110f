// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"errors"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CycleError reports peripherals that derive from each other, directly or
// through a chain.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	cs := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		cs[i] = strings.Join(c, ",")
	}
	return "derivedFrom cycle: " + strings.Join(cs, "; ")
}

// DerivationOrder returns the peripheral names ordered so that every
// peripheral comes after the one it derives from. Dangling DerivedFrom
// references are ignored. If there are cycles the returned order lacks the
// cyclic peripherals and the error is a *CycleError.
func DerivationOrder(d *Device) ([]string, error) {
	names := d.Peripherals.Keys()
	g := simple.NewDirectedGraph()
	for i := range names {
		g.AddNode(simple.Node(i))
	}
	var cycles [][]string
	for i, name := range names {
		p, _ := d.Peripherals.Get(name)
		if p.DerivedFrom == "" {
			continue
		}
		switch k := d.Peripherals.Index(p.DerivedFrom); {
		case k < 0:
			// dangling
		case k == i:
			cycles = append(cycles, []string{name})
		default:
			g.SetEdge(g.NewEdge(simple.Node(k), simple.Node(i)))
		}
	}
	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		var u topo.Unorderable
		if !errors.As(err, &u) {
			return nil, err
		}
		for _, scc := range u {
			c := make([]string, len(scc))
			for k, n := range scc {
				c[k] = names[n.ID()]
			}
			slices.Sort(c)
			cycles = append(cycles, c)
		}
	}
	order := make([]string, 0, len(names))
	for _, n := range sorted {
		if n == nil {
			continue
		}
		name := names[n.ID()]
		if !inCycle(cycles, name) {
			order = append(order, name)
		}
	}
	if len(cycles) != 0 {
		return order, &CycleError{cycles}
	}
	return order, nil
}

func inCycle(cycles [][]string, name string) bool {
	for _, c := range cycles {
		if slices.Contains(c, name) {
			return true
		}
	}
	return false
}

// Effective returns a copy of the named peripheral with the properties it
// does not define itself (registers, description, group name) taken from
// the chain of peripherals it derives from. A dangling or cyclic chain
// simply ends the lookup.
func Effective(d *Device, name string) (*Peripheral, bool) {
	p, ok := d.Peripherals.Get(name)
	if !ok {
		return nil, false
	}
	e := p.Clone()
	seen := map[string]bool{name: true}
	for base := p.DerivedFrom; base != "" && !seen[base]; {
		seen[base] = true
		b, ok := d.Peripherals.Get(base)
		if !ok {
			break
		}
		if e.Registers.Len() == 0 && b.Registers.Len() != 0 {
			e.Registers = b.Registers.Clone((*Register).Clone)
		}
		if e.Description == "" || e.Description == e.Name {
			if b.Description != "" && b.Description != b.Name {
				e.Description = b.Description
			}
		}
		if e.GroupName == "" || e.GroupName == e.Name {
			if b.GroupName != "" {
				e.GroupName = b.GroupName
			}
		}
		base = b.DerivedFrom
	}
	return e, true
}
