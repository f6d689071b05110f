// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the svdtool configuration file.
package config

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/embeddedgo/svdtool/svd"
)

// Device holds the values used to initialize newly created devices.
type Device struct {
	Vendor     string  `yaml:"vendor,omitempty"`
	Copyright  string  `yaml:"copyright,omitempty"`
	Author     string  `yaml:"author,omitempty"`
	License    string  `yaml:"license,omitempty"`
	SVDVersion string  `yaml:"svdVersion"`
	CPU        svd.CPU `yaml:"cpu"`
}

type Config struct {
	// WarnLimit is the number of parser warnings printed in full. Zero
	// means no limit.
	WarnLimit int    `yaml:"warnLimit"`
	Device    Device `yaml:"device"`
}

// Default returns the configuration used when there is no config file.
func Default() *Config {
	return &Config{
		WarnLimit: 5,
		Device: Device{
			SVDVersion: svd.DefaultSVDVersion,
			CPU:        svd.NewCPU(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/svdtool/config.yaml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "svdtool", "config.yaml")
}

// Parse decodes data on top of the default configuration. Keys missing in
// data keep their default values. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, err
	}
	if c.WarnLimit < 0 {
		return nil, errors.Errorf("warnLimit: negative value %d", c.WarnLimit)
	}
	return c, nil
}

// Load reads the named config file. If name is empty Load tries DefaultPath
// and returns the default configuration if that file does not exist.
func Load(name string) (*Config, error) {
	explicit := name != ""
	if !explicit {
		name = DefaultPath()
		if name == "" {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return c, nil
}

// NewDevice returns a new device named name, initialized from c.
func (c *Config) NewDevice(name string) *svd.Device {
	d := svd.NewDevice()
	d.Name = name
	d.Vendor = c.Device.Vendor
	d.Copyright = c.Device.Copyright
	d.Author = c.Device.Author
	d.License = c.Device.License
	if c.Device.SVDVersion != "" {
		d.SVDVersion = c.Device.SVDVersion
	}
	d.CPU = c.Device.CPU
	return d
}
