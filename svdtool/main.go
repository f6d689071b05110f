// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Svdtool inspects, checks and rewrites CMSIS-SVD device descriptions.
package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/embeddedgo/svdtool/svd"
	"github.com/embeddedgo/svdtool/svd/parser"
	"github.com/embeddedgo/svdtool/svdtool/internal/config"
	"github.com/embeddedgo/svdtool/svdtool/internal/util"
)

var (
	configFile string
	conf       = config.Default()

	rootCmd = &cobra.Command{
		Use:   "svdtool",
		Short: "Inspect and edit CMSIS-SVD files",
		Long: "Svdtool parses, checks, reformats and prints CMSIS-SVD device descriptions,\n" +
			"and builds reset value images of the peripheral registers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog complains if the Go flag set is not parsed
			flag.CommandLine.Parse(nil)
			c, err := config.Load(configFile)
			if err != nil {
				return errors.Wrap(err, "config")
			}
			conf = c
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(
		parseCmd, fmtCmd, listCmd, mapCmd, checkCmd,
		findCmd, sortCmd, dumpCmd, hexCmd, newCmd,
	)
}

// load parses the named SVD file and prints the parser warnings.
func load(name string, mode parser.Mode) (*svd.Device, *parser.Result, error) {
	p := &parser.Parser{Mode: mode}
	res, err := p.ParseFile(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, name)
	}
	util.WarnList(res.Warnings, conf.WarnLimit)
	return res.Device, res, nil
}

func main() {
	err := rootCmd.Execute()
	glog.Flush()
	util.FatalErr("svdtool", err)
}
