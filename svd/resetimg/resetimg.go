// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resetimg builds a memory image of the peripheral registers after
// reset. Every register contributes its reset value at its absolute address,
// encoded with the byte order of the CPU. The image can be written in the
// Intel HEX format and compared with a memory dump of a real device.
package resetimg

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"

	"github.com/embeddedgo/svdtool/svd"
)

// Skipped describes a register that could not be placed in the image.
type Skipped struct {
	Path   string
	Reason string
}

func (s Skipped) String() string { return s.Path + ": " + s.Reason }

type Image struct {
	Mem       *gohex.Memory
	Registers int // number of registers placed in the image
	Skipped   []Skipped
}

func byteOrder(endian string) (binary.AppendByteOrder, error) {
	switch endian {
	case "", "little", "selectable":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, errors.Errorf("resetimg: unknown endianness %q", endian)
}

// Build returns the reset image of d. Derived peripherals without their own
// registers use the registers of their base. Registers with unparseable
// numbers, unsupported sizes or overlapping other registers are listed in
// Image.Skipped.
func Build(d *svd.Device) (*Image, error) {
	bo, err := byteOrder(d.CPU.Endian)
	if err != nil {
		return nil, err
	}
	img := &Image{Mem: gohex.NewMemory()}
	for name := range d.Peripherals.All() {
		p, _ := svd.Effective(d, name)
		base, err := svd.ParseUint(p.BaseAddress)
		if err != nil {
			img.skip(p.Name, "bad base address %q", p.BaseAddress)
			continue
		}
		for _, r := range p.Registers.All() {
			img.add(bo, p.Name+"."+r.Name, base, r)
		}
	}
	glog.V(1).Infof("resetimg: %d registers, %d skipped", img.Registers, len(img.Skipped))
	return img, nil
}

func (img *Image) skip(path, f string, args ...any) {
	img.Skipped = append(img.Skipped, Skipped{path, fmt.Sprintf(f, args...)})
}

func (img *Image) add(bo binary.AppendByteOrder, path string, base uint64, r *svd.Register) {
	off, err := svd.ParseUint(r.Offset)
	if err != nil {
		img.skip(path, "bad address offset %q", r.Offset)
		return
	}
	bits, err := svd.ParseUint(r.Size)
	if err != nil {
		img.skip(path, "bad size %q", r.Size)
		return
	}
	val, err := svd.ParseUint(r.ResetValue)
	if err != nil {
		img.skip(path, "bad reset value %q", r.ResetValue)
		return
	}
	if mask, err := svd.ParseUint(r.ResetMask); err == nil {
		val &= mask
	}
	var data []byte
	switch bits {
	case 8:
		data = []byte{byte(val)}
	case 16:
		data = bo.AppendUint16(nil, uint16(val))
	case 32:
		data = bo.AppendUint32(nil, uint32(val))
	case 64:
		data = bo.AppendUint64(nil, val)
	default:
		img.skip(path, "unsupported size %d", bits)
		return
	}
	if bits < 64 && val>>bits != 0 {
		img.skip(path, "reset value %s does not fit in %d bits", r.ResetValue, bits)
		return
	}
	addr := base + off
	if addr+uint64(len(data)) > 1<<32 {
		img.skip(path, "address 0x%X out of the 32-bit space", addr)
		return
	}
	if err := img.Mem.AddBinary(uint32(addr), data); err != nil {
		img.skip(path, "%v", err)
		return
	}
	img.Registers++
}

// WriteHex writes the image in the Intel HEX format, 16 data bytes per
// record.
func (img *Image) WriteHex(w io.Writer) error {
	return errors.Wrap(img.Mem.DumpIntelHex(w, 16), "resetimg")
}
