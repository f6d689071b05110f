// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/embeddedgo/svdtool/svd"
)

func parseSample(t *testing.T, mode Mode) *Result {
	t.Helper()
	p := &Parser{Mode: mode}
	res, err := p.ParseFile("testdata/sample.svd")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	return res
}

func hasWarning(res *Result, path, substr string) bool {
	return slices.ContainsFunc(res.Warnings, func(w Warning) bool {
		return w.Path == path && strings.Contains(w.Msg, substr)
	})
}

func TestParseDevice(t *testing.T) {
	res := parseSample(t, Full)
	d := res.Device
	if d.Name != "EX32F0" || d.Version != "1.2" || d.Vendor != "Example" {
		t.Errorf("device = %s %s %s", d.Name, d.Version, d.Vendor)
	}
	if d.SVDVersion != "1.3" {
		t.Errorf("SVDVersion = %s, want 1.3", d.SVDVersion)
	}
	if d.Author != "Jane Roe" || d.License != "Apache-2.0" {
		t.Errorf("Author, License = %q, %q", d.Author, d.License)
	}
	want := svd.CPU{
		Name: "CM4", Revision: "r0p1", Endian: "little",
		MPUPresent: true, FPUPresent: true, NVICPrioBits: 3,
	}
	if d.CPU != want {
		t.Errorf("CPU = %+v, want %+v", d.CPU, want)
	}
}

func TestParsePeripherals(t *testing.T) {
	res := parseSample(t, Full)
	d := res.Device
	if got, want := d.Peripherals.Keys(), []string{"GPIOA", "GPIOB", "TIM2"}; !slices.Equal(got, want) {
		t.Fatalf("peripherals = %v, want %v", got, want)
	}
	if got := d.Peripheral("GPIOA").BaseAddress; got != "0x48000000" {
		t.Errorf("duplicate GPIOA replaced the first one: base %s", got)
	}
	if !hasWarning(res, "GPIOA", "duplicate") {
		t.Error("no warning for the duplicate peripheral")
	}
	if !hasWarning(res, "peripherals[2]", "without name") {
		t.Error("no warning for the nameless peripheral")
	}
	b := d.Peripheral("GPIOB")
	if b.DerivedFrom != "GPIOA" || b.Description != "GPIOB" || b.GroupName != "GPIOB" {
		t.Errorf("GPIOB = %+v", b)
	}
	if b.AddressBlock != svd.DefaultAddressBlock() {
		t.Errorf("GPIOB address block = %+v, want defaults", b.AddressBlock)
	}
	a := d.Peripheral("GPIOA")
	if a.AddressBlock.Size != "0x400" || a.GroupName != "GPIO" {
		t.Errorf("GPIOA = %+v", a)
	}
}

func TestParseRegisters(t *testing.T) {
	res := parseSample(t, Full)
	a := res.Device.Peripheral("GPIOA")
	if got, want := a.Registers.Keys(), []string{"MODER", "ODR"}; !slices.Equal(got, want) {
		t.Fatalf("registers = %v, want %v", got, want)
	}
	if !hasWarning(res, "GPIOA.NOOFFSET", "addressOffset") {
		t.Error("no warning for the register without addressOffset")
	}
	moder, _ := a.Registers.Get("MODER")
	if moder.Access != svd.ReadOnly {
		t.Errorf("MODER access = %q, want read-only", moder.Access)
	}
	if moder.ResetValue != "0xA8000000" {
		t.Errorf("MODER reset value = %s", moder.ResetValue)
	}
	odr, _ := a.Registers.Get("ODR")
	if odr.Access != "" || odr.Size != svd.DefaultSize || odr.Description != "ODR" {
		t.Errorf("ODR = %+v", odr)
	}
}

func TestParseFields(t *testing.T) {
	res := parseSample(t, Full)
	moder, _ := res.Device.Peripheral("GPIOA").Registers.Get("MODER")
	tests := []struct {
		name          string
		offset, width int
		access        svd.Access
		reset         string
	}{
		{"MODER0", 0, 2, svd.WriteOnly, "0x0"},
		{"MODER1", 2, 2, "", "0x0"},
		{"MODER2", 4, 2, "", "0x2"},
	}
	if got := moder.Fields.Len(); got != len(tests) {
		t.Fatalf("MODER has %d fields %v, want %d", got, moder.Fields.Keys(), len(tests))
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := moder.Fields.Get(tt.name)
			if !ok {
				t.Fatal("missing")
			}
			if f.BitOffset != tt.offset || f.BitWidth != tt.width {
				t.Errorf("bits = %d, %d, want %d, %d", f.BitOffset, f.BitWidth, tt.offset, tt.width)
			}
			if f.Access != tt.access || f.ResetValue != tt.reset {
				t.Errorf("access, reset = %q, %q, want %q, %q", f.Access, f.ResetValue, tt.access, tt.reset)
			}
		})
	}
	if res.Stats.Errors != 1 {
		t.Errorf("Stats.Errors = %d, want 1 (the BAD field)", res.Stats.Errors)
	}
}

func TestParseInterrupts(t *testing.T) {
	res := parseSample(t, Full)
	d := res.Device
	if res.Stats.Interrupts != 3 || d.Interrupts.Len() != 2 {
		t.Fatalf("interrupts: parsed %d, device %d", res.Stats.Interrupts, d.Interrupts.Len())
	}
	irq, _ := d.Interrupts.Get("EXTI0")
	if irq.Peripheral != "GPIOA" || irq.Value != 6 {
		t.Errorf("EXTI0 = %+v, want the GPIOA one", irq)
	}
	if !hasWarning(res, "irq.EXTI0", "GPIOA") {
		t.Error("no warning for the interrupt name collision")
	}
}

func TestParseStats(t *testing.T) {
	res := parseSample(t, Full)
	want := Stats{Peripherals: 3, Registers: 2, Fields: 3, Interrupts: 3, Errors: 1}
	if res.Stats != want {
		t.Errorf("Stats = %v, want %v", res.Stats, want)
	}
	// the colliding EXTI0 of TIM2 is counted but not flattened
	if n := res.Device.Interrupts.Len(); n != res.Stats.Interrupts-1 {
		t.Errorf("%d device interrupts, want %d", n, res.Stats.Interrupts-1)
	}
}

func TestParseFast(t *testing.T) {
	res := parseSample(t, Fast)
	d := res.Device
	if got := d.Peripherals.Len(); got != 3 {
		t.Fatalf("%d peripherals, want 3", got)
	}
	for _, p := range d.Peripherals.All() {
		if p.Registers.Len() != 0 || len(p.Interrupts) != 0 {
			t.Errorf("%s: registers or interrupts parsed in fast mode", p.Name)
		}
	}
	if got := d.Peripheral("GPIOA").Description; got != "General purpose I/O" {
		t.Errorf("GPIOA description = %q", got)
	}
	if res.Stats.Registers != 0 || d.Interrupts.Len() != 0 {
		t.Errorf("Stats = %v", res.Stats)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		`<device><name>X</name`,
		``,
		`<device><name>X</name>` + "\n" + `</dev>`,
		`<device><name>A</name></device><device><name>B</name></device>`,
		`<device><name>A</name></device>trailing junk`,
	} {
		res, err := ParseString(in)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseString(%q) error = %v, want *ParseError", in, err)
		}
		if res != nil {
			t.Errorf("ParseString(%q) returned a partial result", in)
		}
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("<device>\n<name>X</name>\n</dev>")
	if err == nil {
		t.Fatal("ParseString() accepted a mismatched end tag")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error = %q, want the line number", err)
	}
}

func TestParseTopLevel(t *testing.T) {
	in := `<?xml version="1.0"?>` + "\n<!-- c -->\n<device><name>A</name></device>\n\n"
	res, err := ParseString(in)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if res.Device.Name != "A" {
		t.Errorf("device name = %q, want A", res.Device.Name)
	}
}

func TestParseRegisterAccess(t *testing.T) {
	res, err := ParseString(`<device><name>D</name><peripherals><peripheral>
<name>P</name><baseAddress>0x0</baseAddress><registers>
<register><name>R</name><addressOffset>0x0</addressOffset>
  <fields><field><name>F</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth>
  <access>write-only</access></field></fields>
</register>
<register><name>S</name><addressOffset>0x4</addressOffset>
  <fields><field><name>G</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth>
  <access>write-only</access></field></fields>
  <access>read-only</access>
</register>
</registers></peripheral></peripherals></device>`)
	if err != nil {
		t.Fatal(err)
	}
	p := res.Device.Peripheral("P")
	tests := []struct {
		reg, field string
		access     svd.Access
	}{
		{"R", "", ""},
		{"R", "F", svd.WriteOnly},
		{"S", "", svd.ReadOnly},
		{"S", "G", svd.WriteOnly},
	}
	for _, tt := range tests {
		r, ok := p.Registers.Get(tt.reg)
		if !ok {
			t.Fatalf("no register %s", tt.reg)
		}
		got := r.Access
		if tt.field != "" {
			f, ok := r.Fields.Get(tt.field)
			if !ok {
				t.Fatalf("no field %s.%s", tt.reg, tt.field)
			}
			got = f.Access
		}
		if got != tt.access {
			t.Errorf("%s.%s access = %q, want %q", tt.reg, tt.field, got, tt.access)
		}
	}
}

func TestParseMissingParts(t *testing.T) {
	res, err := ParseString(`<device><peripherals><peripheral>` +
		`<name>P</name><baseAddress>0x0</baseAddress>` +
		`</peripheral></peripherals></device>`)
	if err != nil {
		t.Fatal(err)
	}
	d := res.Device
	if d.SVDVersion != svd.DefaultSVDVersion || d.Version != svd.DefaultDeviceVersion {
		t.Errorf("defaults not applied: %s %s", d.SVDVersion, d.Version)
	}
	if d.CPU != svd.NewCPU() {
		t.Errorf("CPU = %+v, want defaults", d.CPU)
	}
	for _, msg := range []string{"schemaVersion", "no name", "no cpu"} {
		if !hasWarning(res, "device", msg) {
			t.Errorf("no %q warning in %v", msg, res.Warnings)
		}
	}
	if d.Peripherals.Len() != 1 {
		t.Errorf("%d peripherals, want 1", d.Peripherals.Len())
	}
}

func TestParseBadNumbers(t *testing.T) {
	res, err := ParseString(`<device schemaVersion="1.1"><name>D</name>` +
		`<cpu><nvicPrioBits>many</nvicPrioBits></cpu>` +
		`<width>wide</width><size>big</size>` +
		`<peripherals><peripheral><name>P</name><baseAddress>0xZZ</baseAddress></peripheral>` +
		`<peripheral><name>Q</name><baseAddress>0x100</baseAddress>` +
		`<interrupt><name>I</name><value>x</value></interrupt></peripheral>` +
		`</peripherals></device>`)
	if err != nil {
		t.Fatal(err)
	}
	d := res.Device
	if d.CPU.NVICPrioBits != 4 || d.Width != 32 || d.Size != svd.DefaultSize {
		t.Errorf("defaults not kept: %d %d %s", d.CPU.NVICPrioBits, d.Width, d.Size)
	}
	if d.Peripherals.Has("P") || !d.Peripherals.Has("Q") {
		t.Errorf("peripherals = %v, want [Q]", d.Peripherals.Keys())
	}
	if res.Stats.Errors != 1 || res.Stats.Interrupts != 0 {
		t.Errorf("Stats = %v", res.Stats)
	}
	if !hasWarning(res, "Q.irq.I", "bad value") {
		t.Errorf("no warning for the bad interrupt value: %v", res.Warnings)
	}
}

func TestParseCharset(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<device schemaVersion=\"1.3\"><name>D</name><description>Ger\xe4t</description></device>"
	res, err := ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Device.Description; got != "Gerät" {
		t.Errorf("Description = %q, want Gerät", got)
	}
}

func TestParseClusterSkipped(t *testing.T) {
	res, err := ParseString(`<device schemaVersion="1.3"><name>D</name><peripherals>` +
		`<peripheral><name>P</name><baseAddress>0x0</baseAddress><registers>` +
		`<cluster><name>CH</name><register><name>X</name><addressOffset>0</addressOffset></register></cluster>` +
		`<register><name>R</name><addressOffset>4</addressOffset></register>` +
		`</registers></peripheral></peripherals></device>`)
	if err != nil {
		t.Fatal(err)
	}
	p := res.Device.Peripheral("P")
	if got := p.Registers.Keys(); !slices.Equal(got, []string{"R"}) {
		t.Errorf("registers = %v, want [R]", got)
	}
	if !hasWarning(res, "P", "cluster CH") {
		t.Errorf("no cluster warning: %v", res.Warnings)
	}
}
