// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/embeddedgo/svdtool/svd/generator"
	"github.com/embeddedgo/svdtool/svd/parser"
	"github.com/embeddedgo/svdtool/svd/resetimg"
	"github.com/embeddedgo/svdtool/svd/validate"
	"github.com/embeddedgo/svdtool/svdtool/internal/util"
)

var (
	hexCmd = &cobra.Command{
		Use:   "hex [SVD [HEX]]",
		Short: "Write the register reset values in the Intel HEX format",
		Long: "Build the image of all peripheral registers after reset and write it\n" +
			"to HEX. The default SVD name is the name of the current directory\n" +
			"with the .svd suffix, the default HEX name is SVD with the .hex suffix.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var inName, outName string
			if len(args) > 0 {
				inName = args[0]
			}
			if len(args) > 1 {
				outName = args[1]
			}
			inName, outName = util.InOutFiles(inName, ".svd", outName, ".hex")
			d, _, err := load(inName, parser.Full)
			if err != nil {
				return err
			}
			img, err := resetimg.Build(d)
			if err != nil {
				return err
			}
			util.WarnList(img.Skipped, conf.WarnLimit)
			f, err := os.Create(outName)
			if err != nil {
				return err
			}
			if err := img.WriteHex(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d registers\n", outName, img.Registers)
			return nil
		},
	}

	newOpts = struct {
		descr string
		force bool
	}{}

	newCmd = &cobra.Command{
		Use:   "new NAME [OUT]",
		Short: "Create an empty device",
		Long: "Create a device without peripherals, initialized from the device section\n" +
			"of the config file, and write it to OUT (default NAME.svd).",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := validate.Name(args[0], "device name")
			if err != nil {
				return err
			}
			out := name + ".svd"
			if len(args) == 2 {
				out = args[1]
			}
			if !newOpts.force {
				if _, err := os.Stat(out); err == nil {
					return errors.Errorf("%s already exists", out)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			d := conf.NewDevice(name)
			d.Description = newOpts.descr
			return generator.WriteFile(d, out)
		},
	}
)

func init() {
	newCmd.Flags().StringVarP(&newOpts.descr, "description", "d", "", "device description")
	newCmd.Flags().BoolVar(&newOpts.force, "force", false, "overwrite an existing file")
}
