// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/embeddedgo/svdtool/svd"
	"github.com/embeddedgo/svdtool/svd/parser"
	"github.com/embeddedgo/svdtool/svd/report"
)

var (
	listCmd = &cobra.Command{
		Use:   "list FILE",
		Short: "List peripherals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			return report.Inventory(cmd.OutOrStdout(), d)
		},
	}

	mapCmd = &cobra.Command{
		Use:   "map FILE [PERIPH [REG]]",
		Short: "Print the memory map, a register map or a register layout",
		Long: "Without PERIPH print the base addresses of all peripherals grouped by\n" +
			"their group names. With PERIPH print its registers (inherited ones for\n" +
			"derived peripherals) and with REG print the bit fields of the register.",
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				return report.AddressMap(w, d)
			}
			p, ok := svd.Effective(d, args[1])
			if !ok {
				return errors.Errorf("%s: no peripheral %s", args[0], args[1])
			}
			if len(args) == 2 {
				return report.Registers(w, p)
			}
			r, ok := p.Registers.Get(args[2])
			if !ok {
				return errors.Errorf("%s: no register %s.%s", args[0], args[1], args[2])
			}
			return report.Fields(w, r)
		},
	}
)
