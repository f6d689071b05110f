// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package generator writes the svd model as a CMSIS-SVD XML document.
//
// The output is deterministic: elements appear in the order of the model's
// maps, which is the insertion order unless the caller sorted them. Optional
// elements are emitted only when set and missing descriptions default to the
// element name.
package generator

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/embeddedgo/svdtool/svd"
)

// Declaration starts every formatted document.
const Declaration = `<?xml version="1.0" encoding="utf-8" standalone="no"?>`

const xsNamespace = "http://www.w3.org/2001/XMLSchema-instance"

var schemaFiles = map[string]string{
	"1.1": "CMSIS-SVD_Schema_1_1.xsd",
	"1.3": "CMSIS-SVD_Schema_1_3.xsd",
	"2.0": "CMSIS-SVD_Schema_2_0.xsd",
}

// SchemaFile returns the schema version that will be written for the
// requested version and the name of its schema file. Unknown versions fall
// back to svd.DefaultSVDVersion.
func SchemaFile(version string) (string, string) {
	if f, ok := schemaFiles[version]; ok {
		return version, f
	}
	return svd.DefaultSVDVersion, schemaFiles[svd.DefaultSVDVersion]
}

// Generator converts devices to XML. The zero value produces the formatted
// output.
type Generator struct {
	// Raw disables formatting: the document is returned as serialized,
	// without declaration, comment block or indentation.
	Raw bool
}

// Generate returns d as a formatted SVD document.
func Generate(d *svd.Device) string {
	var g Generator
	return g.Generate(d)
}

// Generate returns d as an SVD document. If formatting fails the raw
// serialization is returned.
func (g *Generator) Generate(d *svd.Device) string {
	doc := etree.NewDocument()
	doc.SetRoot(device(d))
	raw, err := doc.WriteToString()
	if err != nil {
		// strings.Builder never fails
		panic(err)
	}
	if g.Raw {
		return raw
	}
	out, err := format(d, raw)
	if err != nil {
		glog.Warningf("svd: formatting failed, raw output used: %v", err)
		return raw
	}
	return out
}

// WriteFile writes the formatted document to the named file.
func (g *Generator) WriteFile(d *svd.Device, name string) error {
	err := os.WriteFile(name, []byte(g.Generate(d)), 0o644)
	return errors.Wrap(err, "svd")
}

// WriteFile writes d to the named file using the default Generator.
func WriteFile(d *svd.Device, name string) error {
	var g Generator
	return g.WriteFile(d, name)
}

var deviceTag = regexp.MustCompile(
	`(?m)^<device schemaVersion="([^"]*)" xmlns:xs="([^"]*)" xs:noNamespaceSchemaLocation="([^"]*)">`,
)

const deviceTagLayout = "  <device schemaVersion=\"${1}\"\n" +
	"    xmlns:xs=\"${2}\"\n" +
	"    xs:noNamespaceSchemaLocation=\"${3}\">"

func format(d *svd.Device, raw string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return "", errors.Wrap(err, "reparse")
	}
	doc.Indent(2)
	body, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	body = strings.TrimSpace(body)
	if !deviceTag.MatchString(body) {
		return "", errors.New("device tag not found")
	}
	var b strings.Builder
	b.WriteString(Declaration)
	b.WriteByte('\n')
	b.WriteString(comment(d))
	b.WriteString(deviceTag.ReplaceAllString(body, deviceTagLayout))
	b.WriteByte('\n')
	return b.String(), nil
}

// comment returns the comment block with the copyright, author and license
// lines of d or "" if all of them are empty.
func comment(d *svd.Device) string {
	var lines []string
	if d.Copyright != "" {
		lines = append(lines, d.Copyright)
	}
	if d.Author != "" {
		lines = append(lines, "Author: "+d.Author)
	}
	if d.License != "" {
		lines = append(lines, "License: "+d.License)
	}
	if len(lines) == 0 {
		return ""
	}
	// "--" is not allowed inside XML comments
	text := strings.ReplaceAll(strings.Join(lines, "\n"), "--", "- -")
	return "<!--\n" + text + "\n-->\n"
}

func add(parent *etree.Element, tag, text string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(text)
	return e
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func device(d *svd.Device) *etree.Element {
	version, schema := SchemaFile(d.SVDVersion)
	root := etree.NewElement("device")
	root.CreateAttr("schemaVersion", version)
	root.CreateAttr("xmlns:xs", xsNamespace)
	root.CreateAttr("xs:noNamespaceSchemaLocation", schema)

	add(root, "name", d.Name)
	add(root, "version", d.Version)
	add(root, "description", or(d.Description, d.Name))
	if d.Vendor != "" {
		add(root, "vendor", d.Vendor)
	}
	if d.Copyright != "" {
		add(root, "copyright", d.Copyright)
	}

	ce := root.CreateElement("cpu")
	add(ce, "name", d.CPU.Name)
	add(ce, "revision", d.CPU.Revision)
	add(ce, "endian", d.CPU.Endian)
	add(ce, "mpuPresent", strconv.FormatBool(d.CPU.MPUPresent))
	add(ce, "fpuPresent", strconv.FormatBool(d.CPU.FPUPresent))
	add(ce, "nvicPrioBits", strconv.Itoa(d.CPU.NVICPrioBits))
	add(ce, "vendorSystickConfig", strconv.FormatBool(d.CPU.VendorSystickConfig))

	add(root, "addressUnitBits", strconv.Itoa(d.AddressUnitBits))
	add(root, "width", strconv.Itoa(d.Width))
	add(root, "size", d.Size)
	add(root, "resetValue", d.ResetValue)
	add(root, "resetMask", d.ResetMask)

	pe := root.CreateElement("peripherals")
	for _, p := range d.Peripherals.All() {
		peripheral(pe, p)
	}
	return root
}

func peripheral(parent *etree.Element, p *svd.Peripheral) {
	e := parent.CreateElement("peripheral")
	if p.DerivedFrom != "" {
		e.CreateAttr("derivedFrom", p.DerivedFrom)
	}
	add(e, "name", p.Name)
	if p.DisplayName != "" {
		add(e, "displayName", p.DisplayName)
	}
	add(e, "description", p.Description)
	add(e, "groupName", p.GroupName)
	add(e, "baseAddress", p.BaseAddress)
	ab := e.CreateElement("addressBlock")
	add(ab, "offset", p.AddressBlock.Offset)
	add(ab, "size", p.AddressBlock.Size)
	add(ab, "usage", or(p.AddressBlock.Usage, svd.DefaultBlockUsage))
	for _, irq := range p.Interrupts {
		ie := e.CreateElement("interrupt")
		add(ie, "name", irq.Name)
		add(ie, "description", or(irq.Description, irq.Name+" interrupt"))
		add(ie, "value", strconv.Itoa(irq.Value))
	}
	if p.Registers.Len() == 0 {
		return
	}
	re := e.CreateElement("registers")
	for _, r := range p.Registers.All() {
		register(re, r)
	}
}

func register(parent *etree.Element, r *svd.Register) {
	e := parent.CreateElement("register")
	add(e, "name", r.Name)
	if r.DisplayName != "" {
		add(e, "displayName", r.DisplayName)
	}
	add(e, "description", or(r.Description, r.Name))
	add(e, "addressOffset", r.Offset)
	add(e, "size", or(r.Size, svd.DefaultSize))
	if r.Access != "" {
		add(e, "access", string(r.Access))
	}
	add(e, "resetValue", or(r.ResetValue, svd.DefaultRegisterResetValue))
	if r.ResetMask != "" && r.ResetMask != svd.DefaultResetMask {
		add(e, "resetMask", r.ResetMask)
	}
	if r.Fields.Len() == 0 {
		return
	}
	fe := e.CreateElement("fields")
	for _, f := range r.Fields.All() {
		field(fe, f)
	}
}

func field(parent *etree.Element, f *svd.Field) {
	e := parent.CreateElement("field")
	add(e, "name", f.Name)
	if f.DisplayName != "" {
		add(e, "displayName", f.DisplayName)
	}
	add(e, "description", or(f.Description, f.Name))
	add(e, "bitOffset", strconv.Itoa(f.BitOffset))
	add(e, "bitWidth", strconv.Itoa(f.BitWidth))
	if f.Access != "" {
		add(e, "access", string(f.Access))
	}
	if f.ResetValue != "" && f.ResetValue != svd.DefaultFieldResetValue {
		add(e, "resetValue", f.ResetValue)
	}
}
