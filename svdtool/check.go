// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/embeddedgo/svdtool/svd"
	"github.com/embeddedgo/svdtool/svd/parser"
	"github.com/embeddedgo/svdtool/svd/validate"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check FILE",
		Short: "Check the consistency of an SVD file",
		Long: "Check value formats, bit ranges, overlapping fields, registers and\n" +
			"address blocks, derivedFrom references and the interrupt table.\n" +
			"Fails if any error is found.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			issues := validate.Device(d)
			w := cmd.OutOrStdout()
			for _, is := range issues {
				fmt.Fprintln(w, is)
			}
			if validate.HasErrors(issues) {
				return errors.Errorf("%s: check failed", args[0])
			}
			if len(issues) == 0 {
				fmt.Fprintf(w, "%s: ok\n", args[0])
			}
			return nil
		},
	}

	findCmd = &cobra.Command{
		Use:   "find FILE TEXT",
		Short: "Find peripherals, registers, fields and interrupts",
		Long: "Print the elements whose names contain TEXT, ignoring case. Interrupts\n" +
			"also match on their number and description.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := load(args[0], parser.Full)
			if err != nil {
				return err
			}
			ms := svd.Search(d, args[1])
			if len(ms) == 0 {
				return errors.Errorf("%s: %q not found", args[0], args[1])
			}
			w := cmd.OutOrStdout()
			for _, m := range ms {
				fmt.Fprintf(w, "%-10s %s\n", m.Kind, m.Path())
			}
			return nil
		},
	}
)
