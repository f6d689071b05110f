// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embeddedgo/svdtool/svd/generator"
	"github.com/embeddedgo/svdtool/svd/parser"
)

var (
	parseOpts = struct {
		fast bool
	}{}

	parseCmd = &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse an SVD file and print statistics",
		Long: "Parse an SVD file, print the parser warnings and the number of parsed\n" +
			"peripherals, registers, fields and interrupts.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := parser.Full
			if parseOpts.fast {
				mode = parser.Fast
			}
			d, res, err := load(args[0], mode)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "device:   %s (schema %s)\n", d.Name, d.SVDVersion)
			fmt.Fprintf(w, "parsed:   %s\n", res.Stats)
			fmt.Fprintf(w, "warnings: %d\n", len(res.Warnings))
			return nil
		},
	}

	fmtOpts = struct {
		raw bool
	}{}

	fmtCmd = &cobra.Command{
		Use:   "fmt IN [OUT]",
		Short: "Rewrite an SVD file in the canonical form",
		Long: "Parse IN and write it back to OUT (default IN) indented, with the\n" +
			"elements in the canonical order and the defaults filled in.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			out := args[0]
			if len(args) == 2 {
				out = args[1]
			}
			g := &generator.Generator{Raw: fmtOpts.raw}
			return g.WriteFile(d, out)
		},
	}
)

func init() {
	parseCmd.Flags().BoolVarP(&parseOpts.fast, "fast", "f", false, "read only peripheral names, addresses and descriptions")
	fmtCmd.Flags().BoolVar(&fmtOpts.raw, "raw", false, "do not indent the output")
}
