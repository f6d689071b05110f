// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser reads CMSIS-SVD documents into the svd model.
//
// The parser is permissive: missing or malformed elements produce warnings
// and are replaced by defaults or skipped, one peripheral, register or field
// at a time. Only a document that is not well-formed XML is a fatal error.
// Elements are looked up among direct children only, so a field's <access>
// is never taken for the access of its register.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"

	"github.com/embeddedgo/svdtool/svd"
	"github.com/embeddedgo/svdtool/svd/validate"
)

type Mode int

const (
	// Full parses the whole device tree.
	Full Mode = iota

	// Fast parses only the name, base address and description of the
	// peripherals. Registers, fields and interrupts are skipped.
	Fast
)

func (m Mode) String() string {
	if m == Fast {
		return "fast"
	}
	return "full"
}

// Warning describes a recoverable problem found in the document. Path
// locates the element, e.g. "UART0.CR1.EN".
type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Msg
	}
	return w.Path + ": " + w.Msg
}

// Stats counts the parsed elements. Errors counts elements that were
// skipped because their content could not be parsed. Interrupts counts the
// interrupts of all peripherals, including those later dropped from
// Device.Interrupts because their name was already taken.
type Stats struct {
	Peripherals int
	Registers   int
	Fields      int
	Interrupts  int
	Errors      int
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"peripherals: %d, registers: %d, fields: %d, interrupts: %d, errors: %d",
		s.Peripherals, s.Registers, s.Fields, s.Interrupts, s.Errors,
	)
}

type Result struct {
	Device   *svd.Device
	Warnings []Warning
	Stats    Stats
}

// ParseError is returned when the document cannot be read as XML at all.
// No partial result accompanies it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "svd: malformed XML: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Parser parses SVD documents. The zero value parses in Full mode. A Parser
// holds no state between calls and may be used concurrently.
type Parser struct {
	Mode Mode
}

// Parse parses an SVD document held in data.
func (p *Parser) Parse(data []byte) (*Result, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{syntaxError(data, err)}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{errors.New("no root element")}
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, &ParseError{err}
	}
	s := &state{mode: p.Mode, res: &Result{Device: svd.NewDevice()}}
	s.comment(doc)
	s.device(root)
	s.cpu(root)
	s.properties(root)
	s.peripherals(root)
	for _, irq := range s.res.Device.SyncInterrupts() {
		s.warn("irq."+irq.Name, "already defined by %s, dropped the one of %s",
			s.owner(irq.Name), irq.Peripheral)
	}
	glog.V(1).Infof("svd: parsed %s (%s mode): %v, %d warnings",
		s.res.Device.Name, p.Mode, s.res.Stats, len(s.res.Warnings))
	return s.res, nil
}

// syntaxError locates the error reported by etree, which does not keep the
// position, by decoding data again. It returns err if no syntax error is
// found.
func syntaxError(data []byte, err error) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	for {
		_, e := dec.Token()
		if e == nil {
			continue
		}
		var se *xml.SyntaxError
		if errors.As(e, &se) {
			return se
		}
		return err
	}
}

// checkTopLevel accepts only one root element, optionally surrounded by
// comments, processing instructions and white space.
func checkTopLevel(doc *etree.Document) error {
	n := 0
	for _, t := range doc.Child {
		switch t := t.(type) {
		case *etree.Element:
			if n++; n > 1 {
				return errors.Errorf("second root element <%s>", t.Tag)
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return errors.Errorf("text %q outside the root element", trim(t.Data, 20))
			}
		}
	}
	return nil
}

func trim(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func (p *Parser) ParseString(s string) (*Result, error) {
	return p.Parse([]byte(s))
}

func (p *Parser) ParseReader(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "svd: read")
	}
	return p.Parse(data)
}

func (p *Parser) ParseFile(name string) (*Result, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "svd")
	}
	glog.V(1).Infof("svd: parsing %s", name)
	return p.Parse(data)
}

var fullParser Parser

// Parse parses data in Full mode.
func Parse(data []byte) (*Result, error) { return fullParser.Parse(data) }

// ParseString parses s in Full mode.
func ParseString(s string) (*Result, error) { return fullParser.ParseString(s) }

// ParseFile parses the named file in Full mode.
func ParseFile(name string) (*Result, error) { return fullParser.ParseFile(name) }

type state struct {
	mode Mode
	res  *Result
}

func (s *state) warn(path, f string, args ...any) {
	w := Warning{path, fmt.Sprintf(f, args...)}
	glog.V(2).Info("svd: ", w)
	s.res.Warnings = append(s.res.Warnings, w)
}

// fail records an element skipped because of err.
func (s *state) fail(path string, err error) {
	s.res.Stats.Errors++
	s.warn(path, "%v", err)
}

func (s *state) owner(irqName string) string {
	if irq, ok := s.res.Device.Interrupts.Get(irqName); ok {
		return irq.Peripheral
	}
	return ""
}

// text returns the trimmed text of the first direct child of e named tag.
// An empty element is treated as missing.
func text(e *etree.Element, tag string) (string, bool) {
	c := e.SelectElement(tag)
	if c == nil {
		return "", false
	}
	t := strings.TrimSpace(c.Text())
	return t, t != ""
}

func textOr(e *etree.Element, tag, def string) string {
	if t, ok := text(e, tag); ok {
		return t
	}
	return def
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1"
}

// comment reads the Author: and License: lines of the comments that precede
// the root element.
func (s *state) comment(doc *etree.Document) {
	d := s.res.Device
	for _, t := range doc.Child {
		c, ok := t.(*etree.Comment)
		if !ok {
			continue
		}
		for _, line := range strings.Split(c.Data, "\n") {
			line = strings.TrimSpace(line)
			if v, ok := strings.CutPrefix(line, "Author:"); ok && d.Author == "" {
				d.Author = strings.TrimSpace(v)
			} else if v, ok := strings.CutPrefix(line, "License:"); ok && d.License == "" {
				d.License = strings.TrimSpace(v)
			}
		}
	}
}

func (s *state) device(root *etree.Element) {
	d := s.res.Device
	if root.Tag != "device" {
		s.warn("", "root element is <%s>, want <device>", root.Tag)
	}
	if v := strings.TrimSpace(root.SelectAttrValue("schemaVersion", "")); v != "" {
		d.SVDVersion = v
	} else {
		s.warn("device", "no schemaVersion attribute, using %s", svd.DefaultSVDVersion)
	}
	var ok bool
	if d.Name, ok = text(root, "name"); !ok {
		s.warn("device", "no name")
	}
	if d.Version, ok = text(root, "version"); !ok {
		d.Version = svd.DefaultDeviceVersion
		s.warn("device", "no version, using %s", d.Version)
	}
	if d.Description, ok = text(root, "description"); !ok {
		s.warn("device", "no description")
	}
	d.Vendor, _ = text(root, "vendor")
	d.Copyright, _ = text(root, "copyright")
}

func (s *state) cpu(root *etree.Element) {
	ce := root.SelectElement("cpu")
	if ce == nil {
		s.warn("device", "no cpu, using defaults")
		return
	}
	cpu := &s.res.Device.CPU
	cpu.Name = textOr(ce, "name", cpu.Name)
	cpu.Revision = textOr(ce, "revision", cpu.Revision)
	cpu.Endian = textOr(ce, "endian", cpu.Endian)
	if t, ok := text(ce, "mpuPresent"); ok {
		cpu.MPUPresent = parseBool(t)
	}
	if t, ok := text(ce, "fpuPresent"); ok {
		cpu.FPUPresent = parseBool(t)
	}
	if t, ok := text(ce, "nvicPrioBits"); ok {
		if n, err := svd.ParseInt(t); err != nil {
			s.warn("cpu", "bad nvicPrioBits %q, using %d", t, cpu.NVICPrioBits)
		} else {
			cpu.NVICPrioBits = n
		}
	}
	if t, ok := text(ce, "vendorSystickConfig"); ok {
		cpu.VendorSystickConfig = parseBool(t)
	}
}

// properties reads the device level register properties.
func (s *state) properties(root *etree.Element) {
	d := s.res.Device
	for _, p := range []struct {
		tag string
		v   *int
	}{
		{"addressUnitBits", &d.AddressUnitBits},
		{"width", &d.Width},
	} {
		if t, ok := text(root, p.tag); ok {
			if n, err := svd.ParseInt(t); err != nil {
				s.warn("device", "bad %s %q, using %d", p.tag, t, *p.v)
			} else {
				*p.v = n
			}
		}
	}
	for _, p := range []struct {
		tag string
		v   *string
	}{
		{"size", &d.Size},
		{"resetValue", &d.ResetValue},
		{"resetMask", &d.ResetMask},
	} {
		if t, ok := text(root, p.tag); ok {
			if _, err := svd.ParseUint(t); err != nil {
				s.warn("device", "bad %s %q, using %s", p.tag, t, *p.v)
			} else {
				*p.v = t
			}
		}
	}
}

func (s *state) peripherals(root *etree.Element) {
	pe := root.SelectElement("peripherals")
	if pe == nil {
		s.warn("device", "no peripherals")
		return
	}
	d := s.res.Device
	pes := pe.SelectElements("peripheral")
	glog.V(1).Infof("svd: %d peripherals", len(pes))
	for i, e := range pes {
		path := "peripherals[" + strconv.Itoa(i) + "]"
		p, err := s.peripheral(e, path)
		if err != nil {
			s.fail(path, err)
			continue
		}
		if p == nil {
			continue
		}
		d.Peripherals.Set(p.Name, p)
		s.res.Stats.Peripherals++
	}
}

// peripheral returns nil, nil if e was skipped with a warning.
func (s *state) peripheral(e *etree.Element, path string) (*svd.Peripheral, error) {
	name, ok := text(e, "name")
	if !ok {
		s.warn(path, "peripheral without name skipped")
		return nil, nil
	}
	if s.res.Device.Peripherals.Has(name) {
		s.warn(name, "duplicate peripheral skipped")
		return nil, nil
	}
	base, ok := text(e, "baseAddress")
	if !ok {
		s.warn(name, "no baseAddress, peripheral skipped")
		return nil, nil
	}
	if _, err := svd.ParseUint(base); err != nil {
		return nil, errors.Wrapf(err, "%s: baseAddress", name)
	}
	p := svd.NewPeripheral(name, base)
	p.Description = textOr(e, "description", name)
	if s.mode == Fast {
		return p, nil
	}
	p.DisplayName, _ = text(e, "displayName")
	p.GroupName = textOr(e, "groupName", name)
	p.DerivedFrom = strings.TrimSpace(e.SelectAttrValue("derivedFrom", ""))
	if ab := e.SelectElement("addressBlock"); ab != nil {
		p.AddressBlock.Offset = textOr(ab, "offset", p.AddressBlock.Offset)
		p.AddressBlock.Size = textOr(ab, "size", p.AddressBlock.Size)
		p.AddressBlock.Usage = textOr(ab, "usage", p.AddressBlock.Usage)
	}
	if re := e.SelectElement("registers"); re != nil {
		s.registers(re, p)
	}
	s.interrupts(e, p)
	glog.V(2).Infof("svd: %s: %d registers, %d interrupts",
		name, p.Registers.Len(), len(p.Interrupts))
	return p, nil
}

func (s *state) registers(re *etree.Element, p *svd.Peripheral) {
	for i, e := range re.ChildElements() {
		switch e.Tag {
		case "register":
		case "cluster":
			s.warn(p.Name, "cluster %s not supported, skipped", textOr(e, "name", "#"+strconv.Itoa(i)))
			continue
		default:
			continue
		}
		path := p.Name + ".registers[" + strconv.Itoa(i) + "]"
		r, err := s.register(e, p, path)
		if err != nil {
			s.fail(path, err)
			continue
		}
		if r == nil {
			continue
		}
		p.Registers.Set(r.Name, r)
		s.res.Stats.Registers++
	}
}

func (s *state) register(e *etree.Element, p *svd.Peripheral, path string) (*svd.Register, error) {
	name, ok := text(e, "name")
	if !ok {
		s.warn(path, "register without name skipped")
		return nil, nil
	}
	path = p.Name + "." + name
	if p.Registers.Has(name) {
		s.warn(path, "duplicate register skipped")
		return nil, nil
	}
	offset, ok := text(e, "addressOffset")
	if !ok {
		s.warn(path, "no addressOffset, register skipped")
		return nil, nil
	}
	if _, err := svd.ParseUint(offset); err != nil {
		return nil, errors.Wrapf(err, "%s: addressOffset", name)
	}
	r := svd.NewRegister(name, offset)
	r.DisplayName, _ = text(e, "displayName")
	r.Description = textOr(e, "description", name)
	r.Access = s.access(e, path)
	r.ResetValue = textOr(e, "resetValue", r.ResetValue)
	r.Size = textOr(e, "size", r.Size)
	r.ResetMask = textOr(e, "resetMask", r.ResetMask)
	if fe := e.SelectElement("fields"); fe != nil {
		s.fields(fe, r, path)
	}
	return r, nil
}

func (s *state) access(e *etree.Element, path string) svd.Access {
	t, ok := text(e, "access")
	if !ok {
		return ""
	}
	a, err := validate.Access(t)
	if err != nil {
		s.warn(path, "%v, got %q", err, t)
	}
	return a
}

func (s *state) fields(fe *etree.Element, r *svd.Register, rpath string) {
	for i, e := range fe.SelectElements("field") {
		path := rpath + ".fields[" + strconv.Itoa(i) + "]"
		f, err := s.field(e, r, rpath, path)
		if err != nil {
			s.fail(path, err)
			continue
		}
		if f == nil {
			continue
		}
		r.Fields.Set(f.Name, f)
		s.res.Stats.Fields++
	}
}

func (s *state) field(e *etree.Element, r *svd.Register, rpath, path string) (*svd.Field, error) {
	name, ok := text(e, "name")
	if !ok {
		s.warn(path, "field without name skipped")
		return nil, nil
	}
	path = rpath + "." + name
	if r.Fields.Has(name) {
		s.warn(path, "duplicate field skipped")
		return nil, nil
	}
	f := svd.NewField(name)
	var err error
	if f.BitOffset, f.BitWidth, err = bitRange(e); err != nil {
		return nil, errors.Wrap(err, name)
	}
	f.DisplayName, _ = text(e, "displayName")
	f.Description = textOr(e, "description", name)
	f.Access = s.access(e, path)
	f.ResetValue = textOr(e, "resetValue", f.ResetValue)
	if e.SelectElement("enumeratedValues") != nil {
		glog.V(2).Infof("svd: %s: enumeratedValues ignored", path)
	}
	return f, nil
}

// bitRange reads the position of a field given in any of the three SVD
// forms: bitOffset/bitWidth, lsb/msb or bitRange "[msb:lsb]". A missing
// offset means 0 and a missing width means 1.
func bitRange(e *etree.Element) (offset, width int, err error) {
	if t, ok := text(e, "bitRange"); ok && e.SelectElement("bitOffset") == nil {
		var msb, lsb int
		if _, err := fmt.Sscanf(t, "[%d:%d]", &msb, &lsb); err != nil || msb < lsb {
			return 0, 0, errors.Errorf("bad bitRange %q", t)
		}
		return lsb, msb - lsb + 1, nil
	}
	if lt, ok := text(e, "lsb"); ok && e.SelectElement("bitOffset") == nil {
		lsb, err := svd.ParseInt(lt)
		if err != nil {
			return 0, 0, errors.Wrap(err, "lsb")
		}
		msb, err := svd.ParseInt(textOr(e, "msb", lt))
		if err != nil || msb < lsb {
			return 0, 0, errors.Errorf("bad msb for lsb %d", lsb)
		}
		return lsb, msb - lsb + 1, nil
	}
	offset, width = 0, 1
	if t, ok := text(e, "bitOffset"); ok {
		if offset, err = svd.ParseInt(t); err != nil {
			return 0, 0, errors.Wrap(err, "bitOffset")
		}
	}
	if t, ok := text(e, "bitWidth"); ok {
		if width, err = svd.ParseInt(t); err != nil {
			return 0, 0, errors.Wrap(err, "bitWidth")
		}
	}
	return offset, width, nil
}

func (s *state) interrupts(e *etree.Element, p *svd.Peripheral) {
	for i, ie := range e.SelectElements("interrupt") {
		name, ok := text(ie, "name")
		if !ok {
			s.warn(p.Name+".interrupts["+strconv.Itoa(i)+"]", "interrupt without name skipped")
			continue
		}
		path := p.Name + ".irq." + name
		vs, ok := text(ie, "value")
		if !ok {
			s.warn(path, "no value, interrupt skipped")
			continue
		}
		v, err := svd.ParseInt(vs)
		if err != nil {
			s.warn(path, "bad value %q, interrupt skipped", vs)
			continue
		}
		desc, _ := text(ie, "description")
		p.Interrupts = append(p.Interrupts, svd.Interrupt{
			Name:        name,
			Value:       v,
			Description: desc,
			Peripheral:  p.Name,
		})
		s.res.Stats.Interrupts++
	}
}
