// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/snapcore/crossystem"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

type nvContextValue crossystem.NVContext

func (v *nvContextValue) UnmarshalFlag(value string) error {
	data, err := hex.DecodeString(value)
	if err != nil {
		return xerrors.Errorf("invalid NV context: %w", err)
	}
	if len(data) != crossystem.NVContextSize {
		return fmt.Errorf("invalid NV context: expected %d bytes, got %d", crossystem.NVContextSize, len(data))
	}
	copy(v.Raw[:], data)
	return nil
}

type options struct {
	Output struct {
		YAML bool `long:"yaml" description:"Print all properties as YAML"`
	} `group:"Output options"`

	NV struct {
		Read       bool            `long:"nvctx" description:"Print the NV context as hex"`
		Write      *nvContextValue `long:"write-nvctx" value-name:"HEX" description:"Write the NV context"`
		SharedData bool            `long:"shared-data" description:"Print the verified boot shared data header"`
	} `group:"NV storage options"`

	Platform struct {
		Config      string                 `long:"config" value-name:"FILE" description:"Read the platform configuration from a YAML file"`
		FDTRoot     string                 `long:"fdt-root" value-name:"DIR" description:"Where the device tree is exposed"`
		FDTBlob     string                 `long:"fdt-blob" value-name:"FILE" description:"Read properties from a flattened device tree blob"`
		BootDevices crossystem.BootDevices `long:"boot-devices" value-name:"RANGE" description:"Which mmcblk indices to consider when locating the boot device"`
	} `group:"Platform options"`

	Positional struct {
		Names []string `positional-arg-name:"name[=value]"`
	} `positional-args:"true"`
}

func (o *options) config() (crossystem.Config, error) {
	var config crossystem.Config
	if o.Platform.Config != "" {
		f, err := os.Open(o.Platform.Config)
		if err != nil {
			return crossystem.Config{}, err
		}
		defer f.Close()

		config, err = crossystem.ReadConfig(f)
		if err != nil {
			return crossystem.Config{}, err
		}
	}

	if o.Platform.FDTRoot != "" {
		config.DeviceTreeRoot = o.Platform.FDTRoot
		// Derive these from the new root.
		config.FirmwareNodeDir = ""
		config.CompatiblePath = ""
	}
	if o.Platform.FDTBlob != "" {
		config.FlattenedDeviceTree = o.Platform.FDTBlob
	}
	if len(o.Platform.BootDevices) > 0 {
		config.BootDevices = o.Platform.BootDevices
	}
	return config, nil
}

func isIntProperty(name string) bool {
	for _, n := range crossystem.IntProperties() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func isStringProperty(name string) bool {
	for _, n := range crossystem.StringProperties() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func printAll(p *crossystem.Platform, asYAML bool) error {
	var out yaml.MapSlice
	for _, name := range crossystem.IntProperties() {
		out = append(out, yaml.MapItem{Key: name, Value: p.GetInt(name)})
	}
	for _, name := range crossystem.StringProperties() {
		str, err := p.GetString(name)
		if err != nil {
			if !asYAML {
				out = append(out, yaml.MapItem{Key: name, Value: "(error)"})
			}
			continue
		}
		out = append(out, yaml.MapItem{Key: name, Value: str})
	}

	if asYAML {
		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	for _, item := range out {
		fmt.Fprintf(stdout, "%-20s = %v\n", item.Key, item.Value)
	}
	return nil
}

func printProperty(p *crossystem.Platform, name string) error {
	switch {
	case isIntProperty(name):
		fmt.Fprintln(stdout, p.GetInt(name))
	case isStringProperty(name):
		str, err := p.GetString(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, str)
	default:
		return &crossystem.PropertyError{Name: name}
	}
	return nil
}

func setProperty(p *crossystem.Platform, name, value string) error {
	if isIntProperty(name) {
		var i int
		if _, err := fmt.Sscan(value, &i); err != nil {
			return xerrors.Errorf("invalid value for %s: %w", name, err)
		}
		return p.SetInt(name, i)
	}
	return p.SetString(name, value)
}

func printSharedData(p *crossystem.Platform) error {
	sd, err := p.ReadSharedData()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(yaml.MapSlice{
		{Key: "magic", Value: fmt.Sprintf("%#08x", sd.Magic)},
		{Key: "struct-version", Value: sd.StructVersion},
		{Key: "struct-size", Value: sd.StructSize},
		{Key: "size", Value: len(sd.Raw)},
	})
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func run(args []string) error {
	var opts options
	args, err := flags.ParseArgs(&opts, args)
	if err != nil {
		return err
	}
	opts.Positional.Names = append(opts.Positional.Names, args...)

	config, err := opts.config()
	if err != nil {
		return xerrors.Errorf("cannot obtain configuration: %w", err)
	}

	p, err := crossystem.NewPlatform(config)
	if err != nil {
		return err
	}

	if opts.NV.Write != nil {
		ctx := crossystem.NVContext(*opts.NV.Write)
		if err := p.WriteNVContext(&ctx); err != nil {
			return err
		}
	}
	if opts.NV.Read {
		var ctx crossystem.NVContext
		if err := p.ReadNVContext(&ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, ctx.String())
	}
	if opts.NV.SharedData {
		if err := printSharedData(p); err != nil {
			return err
		}
	}

	if len(opts.Positional.Names) == 0 {
		if opts.NV.Read || opts.NV.Write != nil || opts.NV.SharedData {
			return nil
		}
		return printAll(p, opts.Output.YAML)
	}

	for _, arg := range opts.Positional.Names {
		if i := strings.IndexByte(arg, '='); i >= 0 {
			if err := setProperty(p, arg[:i], arg[i+1:]); err != nil {
				return err
			}
			continue
		}
		if err := printProperty(p, arg); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			// flags already prints this
			if flagsErr.Type == flags.ErrHelp {
				return
			}
			os.Exit(1)
		}
		fmt.Fprintln(stderr, "crossystem:", err)
		os.Exit(1)
	}
}
