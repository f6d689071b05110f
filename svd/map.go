// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"errors"
	"iter"
	"slices"
)

var (
	ErrNotFound = errors.New("name not found")
	ErrExists   = errors.New("name already exists")
)

// Map is a collection of named values that remembers insertion order. The
// zero value is an empty map ready to use.
type Map[V any] struct {
	keys []string
	vals []V
	idx  map[string]int
}

func (m *Map[V]) Len() int { return len(m.keys) }

// Index returns the position of name or -1.
func (m *Map[V]) Index(name string) int {
	if i, ok := m.idx[name]; ok {
		return i
	}
	return -1
}

func (m *Map[V]) Has(name string) bool {
	_, ok := m.idx[name]
	return ok
}

func (m *Map[V]) Get(name string) (v V, ok bool) {
	i, ok := m.idx[name]
	if ok {
		v = m.vals[i]
	}
	return v, ok
}

// At returns the name and the value at position i.
func (m *Map[V]) At(i int) (string, V) {
	return m.keys[i], m.vals[i]
}

// Set replaces the value stored under name in place or appends it at the
// end if name is new.
func (m *Map[V]) Set(name string, v V) {
	if i, ok := m.idx[name]; ok {
		m.vals[i] = v
		return
	}
	if m.idx == nil {
		m.idx = make(map[string]int)
	}
	m.idx[name] = len(m.keys)
	m.keys = append(m.keys, name)
	m.vals = append(m.vals, v)
}

// Insert adds a new entry at position i (clamped to [0, Len]). It reports
// false if name is already present.
func (m *Map[V]) Insert(i int, name string, v V) bool {
	if m.Has(name) {
		return false
	}
	i = max(0, min(i, len(m.keys)))
	m.keys = slices.Insert(m.keys, i, name)
	m.vals = slices.Insert(m.vals, i, v)
	m.reindex(i)
	return true
}

func (m *Map[V]) Delete(name string) bool {
	i, ok := m.idx[name]
	if !ok {
		return false
	}
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	delete(m.idx, name)
	m.reindex(i)
	return true
}

// Rename changes the name of an entry keeping its position.
func (m *Map[V]) Rename(oldName, newName string) error {
	i, ok := m.idx[oldName]
	if !ok {
		return ErrNotFound
	}
	if oldName == newName {
		return nil
	}
	if m.Has(newName) {
		return ErrExists
	}
	delete(m.idx, oldName)
	m.keys[i] = newName
	m.idx[newName] = i
	return nil
}

// Move moves the named entry to position to (clamped). It reports whether
// the order changed.
func (m *Map[V]) Move(name string, to int) bool {
	i, ok := m.idx[name]
	if !ok {
		return false
	}
	to = max(0, min(to, len(m.keys)-1))
	if i == to {
		return false
	}
	v := m.vals[i]
	m.keys = slices.Insert(slices.Delete(m.keys, i, i+1), to, name)
	m.vals = slices.Insert(slices.Delete(m.vals, i, i+1), to, v)
	m.reindex(min(i, to))
	return true
}

func (m *Map[V]) Keys() []string { return slices.Clone(m.keys) }

func (m *Map[V]) Values() []V { return slices.Clone(m.vals) }

// All iterates over the entries in order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// SortFunc stably reorders the entries by comparing their values. It
// reports whether the order changed.
func (m *Map[V]) SortFunc(cmp func(a, b V) int) bool {
	perm := make([]int, len(m.keys))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int { return cmp(m.vals[a], m.vals[b]) })
	changed := false
	for i, k := range perm {
		if i != k {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}
	keys := make([]string, len(perm))
	vals := make([]V, len(perm))
	for i, k := range perm {
		keys[i] = m.keys[k]
		vals[i] = m.vals[k]
	}
	m.keys, m.vals = keys, vals
	m.reindex(0)
	return true
}

// Clone returns a copy of m with every value passed through clone.
func (m *Map[V]) Clone(clone func(V) V) Map[V] {
	var c Map[V]
	for i, k := range m.keys {
		c.Set(k, clone(m.vals[i]))
	}
	return c
}

func (m Map[V]) IsZero() bool { return len(m.keys) == 0 }

// MarshalYAML encodes the map as a sequence of its values.
func (m Map[V]) MarshalYAML() (any, error) {
	if m.vals == nil {
		return []V{}, nil
	}
	return m.vals, nil
}

func (m *Map[V]) reindex(from int) {
	if m.idx == nil {
		m.idx = make(map[string]int, len(m.keys))
	}
	for i := from; i < len(m.keys); i++ {
		m.idx[m.keys[i]] = i
	}
}
