// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd describes the in-memory model of a CMSIS-SVD device: a device
// owns its CPU description, its peripherals and a flat interrupt table,
// peripherals own registers, and registers own bit fields.
//
// Peripherals, registers and fields are kept in insertion order because the
// order is observable in the generated XML. References between peripherals
// (DerivedFrom) and from interrupts to peripherals are plain names resolved
// by lookup; a name that resolves to nothing is a valid state.
package svd

import "slices"

// Access describes the access rights of a register or a field. The empty
// Access means that the element does not specify it.
type Access string

const (
	ReadWrite     Access = "read-write"
	ReadOnly      Access = "read-only"
	WriteOnly     Access = "write-only"
	WriteOnce     Access = "writeOnce"
	ReadWriteOnce Access = "read-writeOnce"
)

// AccessTypes lists all valid non-empty Access values.
var AccessTypes = []Access{ReadWrite, ReadOnly, WriteOnly, WriteOnce, ReadWriteOnce}

// SVDVersions lists the supported schema versions.
var SVDVersions = []string{"1.1", "1.3", "2.0"}

const (
	DefaultSVDVersion         = "1.3"
	DefaultDeviceVersion      = "1.0"
	DefaultSize               = "0x20"
	DefaultDeviceResetValue   = "0x0"
	DefaultResetMask          = "0xFFFFFFFF"
	DefaultRegisterResetValue = "0x00000000"
	DefaultFieldResetValue    = "0x0"
	DefaultBlockOffset        = "0x0"
	DefaultBlockSize          = "0x14"
	DefaultBlockUsage         = "registers"

	// RegisterBits is the register width assumed by bit range checks.
	RegisterBits = 32
)

type Field struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	DisplayName string `yaml:"displayName,omitempty"`
	BitOffset   int    `yaml:"bitOffset"`
	BitWidth    int    `yaml:"bitWidth"`
	Access      Access `yaml:"access,omitempty"`
	ResetValue  string `yaml:"resetValue,omitempty"`
}

func NewField(name string) *Field {
	return &Field{Name: name, BitWidth: 1, ResetValue: DefaultFieldResetValue}
}

func (f *Field) Clone() *Field {
	c := *f
	return &c
}

type Register struct {
	Name        string      `yaml:"name"`
	Offset      string      `yaml:"addressOffset"`
	Description string      `yaml:"description,omitempty"`
	DisplayName string      `yaml:"displayName,omitempty"`
	Size        string      `yaml:"size,omitempty"`
	Access      Access      `yaml:"access,omitempty"`
	ResetValue  string      `yaml:"resetValue,omitempty"`
	ResetMask   string      `yaml:"resetMask,omitempty"`
	Fields      Map[*Field] `yaml:"fields,omitempty"`
}

func NewRegister(name, offset string) *Register {
	return &Register{
		Name:       name,
		Offset:     offset,
		Size:       DefaultSize,
		ResetValue: DefaultRegisterResetValue,
		ResetMask:  DefaultResetMask,
	}
}

// Clone returns a deep copy of r.
func (r *Register) Clone() *Register {
	c := *r
	c.Fields = r.Fields.Clone((*Field).Clone)
	return &c
}

type AddressBlock struct {
	Offset string `yaml:"offset"`
	Size   string `yaml:"size"`
	Usage  string `yaml:"usage"`
}

func DefaultAddressBlock() AddressBlock {
	return AddressBlock{DefaultBlockOffset, DefaultBlockSize, DefaultBlockUsage}
}

type Interrupt struct {
	Name        string `yaml:"name"`
	Value       int    `yaml:"value"`
	Description string `yaml:"description,omitempty"`
	Peripheral  string `yaml:"peripheral,omitempty"` // owner, by name
}

type Peripheral struct {
	Name         string         `yaml:"name"`
	BaseAddress  string         `yaml:"baseAddress"`
	Description  string         `yaml:"description,omitempty"`
	DisplayName  string         `yaml:"displayName,omitempty"`
	GroupName    string         `yaml:"groupName,omitempty"`
	DerivedFrom  string         `yaml:"derivedFrom,omitempty"`
	AddressBlock AddressBlock   `yaml:"addressBlock"`
	Registers    Map[*Register] `yaml:"registers,omitempty"`
	Interrupts   []Interrupt    `yaml:"interrupts,omitempty"`
}

func NewPeripheral(name, baseAddress string) *Peripheral {
	return &Peripheral{
		Name:         name,
		BaseAddress:  baseAddress,
		AddressBlock: DefaultAddressBlock(),
	}
}

// Clone returns a deep copy of p.
func (p *Peripheral) Clone() *Peripheral {
	c := *p
	c.Registers = p.Registers.Clone((*Register).Clone)
	c.Interrupts = slices.Clone(p.Interrupts)
	return &c
}

type CPU struct {
	Name                string `yaml:"name"`
	Revision            string `yaml:"revision"`
	Endian              string `yaml:"endian"`
	MPUPresent          bool   `yaml:"mpuPresent"`
	FPUPresent          bool   `yaml:"fpuPresent"`
	NVICPrioBits        int    `yaml:"nvicPrioBits"`
	VendorSystickConfig bool   `yaml:"vendorSystickConfig"`
}

func NewCPU() CPU {
	return CPU{
		Name:         "CM0+",
		Revision:     "r0p1",
		Endian:       "little",
		MPUPresent:   true,
		NVICPrioBits: 4,
	}
}

type Device struct {
	Name            string           `yaml:"name"`
	Version         string           `yaml:"version"`
	Description     string           `yaml:"description,omitempty"`
	Vendor          string           `yaml:"vendor,omitempty"`
	Copyright       string           `yaml:"copyright,omitempty"`
	Author          string           `yaml:"author,omitempty"`
	License         string           `yaml:"license,omitempty"`
	CPU             CPU              `yaml:"cpu"`
	AddressUnitBits int              `yaml:"addressUnitBits"`
	Width           int              `yaml:"width"`
	Size            string           `yaml:"size"`
	ResetValue      string           `yaml:"resetValue"`
	ResetMask       string           `yaml:"resetMask"`
	SVDVersion      string           `yaml:"svdVersion"`
	Peripherals     Map[*Peripheral] `yaml:"peripherals,omitempty"`
	Interrupts      Map[*Interrupt]  `yaml:"interrupts,omitempty"`
}

// NewDevice returns an empty device with all defaults set.
func NewDevice() *Device {
	return &Device{
		Version:         DefaultDeviceVersion,
		CPU:             NewCPU(),
		AddressUnitBits: 8,
		Width:           32,
		Size:            DefaultSize,
		ResetValue:      DefaultDeviceResetValue,
		ResetMask:       DefaultResetMask,
		SVDVersion:      DefaultSVDVersion,
	}
}

// Clone returns a deep copy of d.
func (d *Device) Clone() *Device {
	c := *d
	c.Peripherals = d.Peripherals.Clone((*Peripheral).Clone)
	c.Interrupts = d.Interrupts.Clone(func(irq *Interrupt) *Interrupt {
		ci := *irq
		return &ci
	})
	return &c
}

// Peripheral returns the peripheral of the given name or nil.
func (d *Device) Peripheral(name string) *Peripheral {
	p, _ := d.Peripherals.Get(name)
	return p
}

// SyncInterrupts rebuilds the device interrupt table from the interrupts of
// all peripherals, in peripheral order. On a name collision the first
// interrupt wins and the dropped ones are returned.
func (d *Device) SyncInterrupts() (dropped []Interrupt) {
	d.Interrupts = Map[*Interrupt]{}
	for _, p := range d.Peripherals.All() {
		for _, irq := range p.Interrupts {
			if d.Interrupts.Has(irq.Name) {
				dropped = append(dropped, irq)
				continue
			}
			irq.Peripheral = p.Name
			d.Interrupts.Set(irq.Name, &irq)
		}
	}
	return dropped
}
