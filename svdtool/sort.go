// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/embeddedgo/svdtool/svd/generator"
	"github.com/embeddedgo/svdtool/svd/parser"
)

var (
	sortOpts = struct {
		peripherals string
		registers   bool
		fields      bool
	}{}

	sortCmd = &cobra.Command{
		Use:   "sort FILE [OUT]",
		Short: "Reorder peripherals, registers or fields",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch sortOpts.peripherals {
			case "", "name", "address":
			default:
				return errors.Errorf("--peripherals: unknown order %q", sortOpts.peripherals)
			}
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			switch sortOpts.peripherals {
			case "name":
				d.SortPeripheralsByName()
			case "address":
				d.SortPeripheralsByAddress()
			}
			for _, p := range d.Peripherals.All() {
				if sortOpts.registers {
					p.SortRegistersByOffset()
				}
				if sortOpts.fields {
					for _, r := range p.Registers.All() {
						r.SortFieldsByBitOffset()
					}
				}
			}
			out := args[0]
			if len(args) == 2 {
				out = args[1]
			}
			return generator.WriteFile(d, out)
		},
	}

	dumpCmd = &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the device tree in YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(d); err != nil {
				return errors.Wrap(err, "dump")
			}
			return enc.Close()
		},
	}
)

func init() {
	sortCmd.Flags().StringVarP(&sortOpts.peripherals, "peripherals", "p", "", "sort peripherals by name or address")
	sortCmd.Flags().BoolVarP(&sortOpts.registers, "registers", "r", false, "sort registers by address offset")
	sortCmd.Flags().BoolVarP(&sortOpts.fields, "fields", "f", false, "sort fields by bit offset")
}
