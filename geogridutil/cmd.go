/*
Copyright © 2026 the GeoGrid authors.
This file is part of GeoGrid.

GeoGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GeoGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GeoGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package geogridutil holds the GeoGrid command-line interface.
package geogridutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geogrid"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Options are the configuration options available to GeoGrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Nx",
			usage: `
              Grid.Nx is the number of longitude samples in the grid.`,
			defaultVal: 3601,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Grid.Ny",
			usage: `
              Grid.Ny is the number of latitude samples in the grid.`,
			defaultVal: 1801,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "xyz",
			usage: `
              xyz is the path to the text-encoded grid file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "npz",
			usage: `
              npz is the path to the binary-encoded grid archive.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "member",
			usage: `
              member is the name of the array to read from an archive
              or netCDF file. If unset, the file must hold exactly one
              data array.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{benchCmd.Flags(), convertCmd.Flags()},
		},
		{
			name: "trials",
			usage: `
              trials is the number of times to repeat each load when
              benchmarking.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "vars",
			usage: `
              vars lists the variables to describe when inspecting a
              file. If empty, all variables are described.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{inspectCmd.Flags()},
		},
		{
			name: "in",
			usage: `
              in is the path of the grid file to convert. Its format
              is inferred from the file extension (.xyz or .txt, .npz,
              .nc).`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out is the path of the converted grid file to create.
              Its format is inferred from the file extension.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOGRID")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(benchCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(convertCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geogrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// gridDef builds the grid sampling from the configuration.
func gridDef() (geogrid.GridDef, error) {
	def := geogrid.GlobalGridDef(Cfg.GetInt("Grid.Nx"), Cfg.GetInt("Grid.Ny"))
	return def, def.Valid()
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geogrid",
	Short: "A toolkit for regularly sampled geographic grids.",
	Long: `GeoGrid reads, converts, inspects, and benchmarks regularly sampled
longitude/latitude grid datasets stored as whitespace-delimited text,
compressed NumPy archives, or netCDF files.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEOGRID_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GeoGrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GeoGrid v%s\n", geogrid.Version)
	},
	DisableAutoGenTag: true,
}

// benchCmd times loading the text and binary encodings of a dataset.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare text and binary grid load times.",
	Long: `bench loads the same dataset from its text encoding (--xyz) and its
binary encoding (--npz), verifies that both decode to the same value plane,
and reports the wall-clock time of each load.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := gridDef()
		if err != nil {
			return err
		}
		xyzPath := Cfg.GetString("xyz")
		npzPath := Cfg.GetString("npz")
		if xyzPath == "" || npzPath == "" {
			return fmt.Errorf("geogrid: bench requires both --xyz and --npz")
		}
		logger.Infof("benchmarking %s against %s (%d×%d grid)",
			xyzPath, npzPath, def.Nx, def.Ny)
		result, err := geogrid.BenchmarkLoads(xyzPath, npzPath,
			Cfg.GetString("member"), def, Cfg.GetInt("trials"))
		if err != nil {
			return err
		}
		result.Fprint(cmd.OutOrStdout())
		return nil
	},
}

// inspectCmd describes the contents of a netCDF file.
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Describe the dimensions and variables in a netCDF file.",
	Long: `inspect opens a netCDF file and prints each declared dimension with
its size and each declared variable with its shape and type. If --vars is
given, only the named variables are described; naming a variable that is not
in the file is an error.`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := geogrid.OpenNCF(args[0])
		if err != nil {
			return err
		}
		defer nc.Close()
		vars, err := cast.ToStringSliceE(Cfg.Get("vars"))
		if err != nil {
			return err
		}
		return nc.Fprint(cmd.OutOrStdout(), vars)
	},
}

// convertCmd rewrites a grid file in a different encoding.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a grid file between encodings.",
	Long: `convert reads the grid at --in and rewrites it at --out. Both formats
are inferred from the file extensions. The text and archive encodings do not
store the grid sampling, so converting from them uses the Grid.Nx and
Grid.Ny configuration values.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := gridDef()
		if err != nil {
			return err
		}
		inPath := Cfg.GetString("in")
		outPath := Cfg.GetString("out")
		if inPath == "" || outPath == "" {
			return fmt.Errorf("geogrid: convert requires both --in and --out")
		}
		logger.Infof("converting %s to %s", inPath, outPath)
		if err := geogrid.Convert(inPath, outPath, def, Cfg.GetString("member")); err != nil {
			return err
		}
		logger.Infof("wrote %s", outPath)
		return nil
	},
}

// Execute runs the root command, printing any error and exiting
// nonzero on failure.
func Execute() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
