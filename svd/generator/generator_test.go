// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/embeddedgo/svdtool/svd"
	"github.com/embeddedgo/svdtool/svd/parser"
)

func testDevice() *svd.Device {
	d := svd.NewDevice()
	d.Name = "EX32"
	d.Description = "Example MCU"
	d.Vendor = "Example"
	d.Copyright = "Copyright (c) 2026 Example"
	d.Author = "Jane Roe"
	d.CPU.Name = "CM3"
	d.CPU.FPUPresent = true
	d.CPU.NVICPrioBits = 3

	uart := svd.NewPeripheral("UART0", "0x40001000")
	uart.Description = "UART"
	uart.GroupName = "UART"
	uart.DisplayName = "Serial 0"
	uart.AddressBlock.Size = "0x400"
	uart.Interrupts = []svd.Interrupt{{Name: "UART0_IRQ", Value: 5}}
	cr := svd.NewRegister("CR", "0x00")
	cr.Access = svd.ReadWrite
	cr.ResetValue = "0x00000010"
	en := svd.NewField("EN")
	mode := svd.NewField("MODE")
	mode.BitOffset, mode.BitWidth = 4, 3
	mode.Access = svd.WriteOnly
	mode.ResetValue = "0x5"
	cr.Fields.Set(en.Name, en)
	cr.Fields.Set(mode.Name, mode)
	uart.Registers.Set(cr.Name, cr)
	sr := svd.NewRegister("SR", "0x04")
	sr.Access = svd.ReadOnly
	sr.ResetMask = "0x0000FFFF"
	uart.Registers.Set(sr.Name, sr)
	d.Peripherals.Set(uart.Name, uart)

	uart1 := svd.NewPeripheral("UART1", "0x40002000")
	uart1.DerivedFrom = "UART0"
	uart1.Description = "UART1"
	uart1.GroupName = "UART"
	uart1.Interrupts = []svd.Interrupt{{Name: "UART1_IRQ", Value: 6, Description: "second"}}
	d.Peripherals.Set(uart1.Name, uart1)
	d.SyncInterrupts()
	return d
}

func TestSchemaFile(t *testing.T) {
	tests := []struct {
		in, version, file string
	}{
		{"1.1", "1.1", "CMSIS-SVD_Schema_1_1.xsd"},
		{"1.3", "1.3", "CMSIS-SVD_Schema_1_3.xsd"},
		{"2.0", "2.0", "CMSIS-SVD_Schema_2_0.xsd"},
		{"9.9", "1.3", "CMSIS-SVD_Schema_1_3.xsd"},
		{"", "1.3", "CMSIS-SVD_Schema_1_3.xsd"},
	}
	for _, tt := range tests {
		v, f := SchemaFile(tt.in)
		if v != tt.version || f != tt.file {
			t.Errorf("SchemaFile(%q) = %s, %s, want %s, %s", tt.in, v, f, tt.version, tt.file)
		}
	}
}

func TestHeader(t *testing.T) {
	d := testDevice()
	d.SVDVersion = "9.9"
	out := Generate(d)
	want := Declaration + "\n" +
		"<!--\nCopyright (c) 2026 Example\nAuthor: Jane Roe\n-->\n" +
		"  <device schemaVersion=\"1.3\"\n" +
		"    xmlns:xs=\"http://www.w3.org/2001/XMLSchema-instance\"\n" +
		"    xs:noNamespaceSchemaLocation=\"CMSIS-SVD_Schema_1_3.xsd\">\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("Generate() header:\n%s\nwant:\n%s", out[:min(len(out), len(want)+40)], want)
	}
	if !strings.HasSuffix(out, "</device>\n") {
		t.Errorf("Generate() does not end with </device>")
	}
}

func TestNoCommentBlock(t *testing.T) {
	d := testDevice()
	d.Copyright, d.Author, d.License = "", "", ""
	out := Generate(d)
	if strings.Contains(out, "<!--") {
		t.Error("empty comment block emitted")
	}
	if strings.Contains(out, "<copyright>") {
		t.Error("empty copyright element emitted")
	}
}

func TestElementDefaults(t *testing.T) {
	out := Generate(testDevice())
	for _, s := range []string{
		"<description>UART0_IRQ interrupt</description>",
		"<description>second</description>",
		"<description>EN</description>",
		"<resetValue>0x5</resetValue>",
		"<resetMask>0x0000FFFF</resetMask>",
		"<fpuPresent>true</fpuPresent>",
		"<vendorSystickConfig>false</vendorSystickConfig>",
		`<peripheral derivedFrom="UART0">`,
		"<displayName>Serial 0</displayName>",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output does not contain %s", s)
		}
	}
	// EN has the default reset value and no access
	if n := strings.Count(out, "<resetValue>0x0</resetValue>"); n != 1 {
		t.Errorf("found %d <resetValue>0x0</resetValue>, want only the device one", n)
	}
	if n := strings.Count(out, "<access>"); n != 3 {
		t.Errorf("found %d <access> elements, want 3", n)
	}
	if strings.Count(out, "<resetMask>") != 2 {
		t.Error("default register resetMask emitted")
	}
}

func TestRoundTrip(t *testing.T) {
	d := testDevice()
	res, err := parser.ParseString(Generate(d))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings: %v", res.Warnings)
	}
	got := res.Device
	if got.Name != d.Name || got.Description != d.Description || got.Vendor != d.Vendor ||
		got.Copyright != d.Copyright || got.Author != d.Author || got.CPU != d.CPU {
		t.Errorf("device scalars differ:\n got %+v\nwant %+v", got, d)
	}
	if !slices.Equal(got.Peripherals.Keys(), d.Peripherals.Keys()) {
		t.Fatalf("peripherals = %v, want %v", got.Peripherals.Keys(), d.Peripherals.Keys())
	}
	for name, p := range d.Peripherals.All() {
		gp := got.Peripheral(name)
		if gp.BaseAddress != p.BaseAddress || gp.DerivedFrom != p.DerivedFrom ||
			gp.AddressBlock != p.AddressBlock || gp.DisplayName != p.DisplayName {
			t.Errorf("%s = %+v, want %+v", name, gp, p)
		}
		if !slices.Equal(gp.Registers.Keys(), p.Registers.Keys()) {
			t.Errorf("%s registers = %v, want %v", name, gp.Registers.Keys(), p.Registers.Keys())
			continue
		}
		for rname, r := range p.Registers.All() {
			gr, _ := gp.Registers.Get(rname)
			if gr.Offset != r.Offset || gr.Access != r.Access || gr.ResetValue != r.ResetValue ||
				gr.Size != r.Size || gr.ResetMask != r.ResetMask {
				t.Errorf("%s.%s = %+v, want %+v", name, rname, gr, r)
			}
			for fname, f := range r.Fields.All() {
				gf, ok := gr.Fields.Get(fname)
				if !ok {
					t.Errorf("%s.%s.%s missing", name, rname, fname)
					continue
				}
				if gf.BitOffset != f.BitOffset || gf.BitWidth != f.BitWidth ||
					gf.Access != f.Access || gf.ResetValue != f.ResetValue {
					t.Errorf("%s.%s.%s = %+v, want %+v", name, rname, fname, gf, f)
				}
			}
		}
	}
	if !slices.Equal(got.Interrupts.Keys(), d.Interrupts.Keys()) {
		t.Errorf("interrupts = %v, want %v", got.Interrupts.Keys(), d.Interrupts.Keys())
	}
}

func TestEndToEnd(t *testing.T) {
	in := `<?xml version="1.0" encoding="utf-8"?>
<device schemaVersion="1.3">
  <name>MINI</name>
  <peripherals>
    <peripheral>
      <name>TIMER0</name>
      <baseAddress>0x40000000</baseAddress>
      <registers>
        <register>
          <name>CTRL</name>
          <addressOffset>0x00</addressOffset>
          <size>0x20</size>
          <fields>
            <field><name>START</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field>
          </fields>
        </register>
      </registers>
    </peripheral>
  </peripherals>
</device>`
	res, err := parser.ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	res, err = parser.ParseString(Generate(res.Device))
	if err != nil {
		t.Fatal(err)
	}
	d := res.Device
	if got := d.Peripherals.Keys(); !slices.Equal(got, []string{"TIMER0"}) {
		t.Fatalf("peripherals = %v", got)
	}
	p := d.Peripheral("TIMER0")
	if p.Registers.Len() != 1 {
		t.Fatalf("%d registers", p.Registers.Len())
	}
	_, r := p.Registers.At(0)
	if r.Offset != "0x00" || r.Fields.Len() != 1 {
		t.Fatalf("register = %+v", r)
	}
	_, f := r.Fields.At(0)
	if f.BitOffset != 0 || f.BitWidth != 1 {
		t.Errorf("field = %+v", f)
	}
}

func TestRaw(t *testing.T) {
	g := &Generator{Raw: true}
	out := g.Generate(testDevice())
	if !strings.HasPrefix(out, `<device schemaVersion="1.3" xmlns:xs=`) {
		t.Errorf("raw output starts with %.60s", out)
	}
	if strings.Contains(out, "\n") {
		t.Error("raw output is indented")
	}
}

func TestWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ex.svd")
	if err := WriteFile(testDevice(), name); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), Declaration) {
		t.Error("file does not start with the declaration")
	}
}
