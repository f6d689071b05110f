// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"strings"

	"github.com/embeddedgo/svdtool/svd"
)

// PeripheralInput holds peripheral properties as entered by the user.
type PeripheralInput struct {
	Name        string
	BaseAddress string
	Description string
	DisplayName string
	GroupName   string
	DerivedFrom string
	BlockOffset string
	BlockSize   string
	BlockUsage  string
}

type RegisterInput struct {
	Name        string
	Offset      string
	Description string
	DisplayName string
	Access      string
	ResetValue  string
	Size        string
}

type FieldInput struct {
	Name        string
	BitOffset   string // decimal
	BitWidth    string // decimal
	Description string
	DisplayName string
	Access      string
	ResetValue  string
}

type InterruptInput struct {
	Name        string
	Value       string // decimal
	Description string
	Peripheral  string
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// Peripheral validates in and returns a new peripheral with defaults filled
// in. The description and the group name default to the peripheral name.
func Peripheral(in PeripheralInput) (*svd.Peripheral, error) {
	name, err := Name(in.Name, "peripheral name")
	if err != nil {
		return nil, err
	}
	base, err := Hex(in.BaseAddress, "base address")
	if err != nil {
		return nil, err
	}
	p := svd.NewPeripheral(name, base)
	p.Description = orDefault(in.Description, name)
	p.DisplayName = strings.TrimSpace(in.DisplayName)
	p.GroupName = orDefault(in.GroupName, name)
	p.DerivedFrom = strings.TrimSpace(in.DerivedFrom)
	if p.AddressBlock.Offset, err = Hex(orDefault(in.BlockOffset, svd.DefaultBlockOffset), "address block offset"); err != nil {
		return nil, err
	}
	if p.AddressBlock.Size, err = Hex(orDefault(in.BlockSize, svd.DefaultBlockSize), "address block size"); err != nil {
		return nil, err
	}
	p.AddressBlock.Usage = orDefault(in.BlockUsage, svd.DefaultBlockUsage)
	return p, nil
}

// Register validates in and returns a new register with defaults filled in.
func Register(in RegisterInput) (*svd.Register, error) {
	name, err := Name(in.Name, "register name")
	if err != nil {
		return nil, err
	}
	offset, err := Hex(in.Offset, "address offset")
	if err != nil {
		return nil, err
	}
	r := svd.NewRegister(name, offset)
	r.Description = orDefault(in.Description, name)
	r.DisplayName = strings.TrimSpace(in.DisplayName)
	if r.Access, err = Access(strings.TrimSpace(in.Access)); err != nil {
		return nil, err
	}
	if r.ResetValue, err = Hex(orDefault(in.ResetValue, svd.DefaultRegisterResetValue), "reset value"); err != nil {
		return nil, err
	}
	if r.Size, err = Hex(orDefault(in.Size, svd.DefaultSize), "register size"); err != nil {
		return nil, err
	}
	return r, nil
}

// Field validates in against a 32-bit register and returns a new field with
// defaults filled in.
func Field(in FieldInput) (*svd.Field, error) {
	name, err := Name(in.Name, "field name")
	if err != nil {
		return nil, err
	}
	offset, err := Decimal(orDefault(in.BitOffset, "0"), "bit offset")
	if err != nil {
		return nil, err
	}
	width, err := Decimal(orDefault(in.BitWidth, "1"), "bit width")
	if err != nil {
		return nil, err
	}
	if offset, width, err = BitRange(offset, width, DefaultMaxBits); err != nil {
		return nil, err
	}
	f := svd.NewField(name)
	f.BitOffset = offset
	f.BitWidth = width
	f.Description = orDefault(in.Description, name)
	f.DisplayName = strings.TrimSpace(in.DisplayName)
	if f.Access, err = Access(strings.TrimSpace(in.Access)); err != nil {
		return nil, err
	}
	if f.ResetValue, err = Hex(orDefault(in.ResetValue, svd.DefaultFieldResetValue), "field reset value"); err != nil {
		return nil, err
	}
	return f, nil
}

// Interrupt validates in. The owning peripheral is required.
func Interrupt(in InterruptInput) (*svd.Interrupt, error) {
	name, err := Name(in.Name, "interrupt name")
	if err != nil {
		return nil, err
	}
	v, err := Decimal(orDefault(in.Value, "0"), "interrupt number")
	if err != nil {
		return nil, err
	}
	if v, err = IRQNumber(v); err != nil {
		return nil, err
	}
	periph := strings.TrimSpace(in.Peripheral)
	if periph == "" {
		return nil, fail("interrupt peripheral must not be empty")
	}
	return &svd.Interrupt{
		Name:        name,
		Value:       v,
		Description: strings.TrimSpace(in.Description),
		Peripheral:  periph,
	}, nil
}
