// Package config declares the command line of bindgen and the environment it
// reads.
package config

import (
	env "github.com/caarlos0/env/v11"

	"github.com/Alia5/bindgen/internal/cmd"
	"github.com/Alia5/bindgen/internal/codegen/outdir"
)

// Log holds the logging flags shared by every command.
type Log struct {
	Level  string `help:"Log level: trace, debug, info, warn, error" default:"warn" enum:"trace,debug,info,warn,error" env:"BINDGEN_LOG_LEVEL"`
	File   string `help:"Also write logs to this file" type:"path" env:"BINDGEN_LOG_FILE"`
	Format string `help:"Console log format: text, json or auto" default:"auto" enum:"text,json,auto" env:"BINDGEN_LOG_FORMAT"`
}

// CLI is the root kong command.
type CLI struct {
	Config string `help:"Configuration file (json, yaml or toml)" type:"path" env:"BINDGEN_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Generate  cmd.Generate         `cmd:"" default:"1" help:"Generate interface bindings and schema modules"`
	Validate  cmd.Validate         `cmd:"" help:"Validate the catalogue without generating anything"`
	Catalogue cmd.CatalogueCommand `cmd:"" help:"Inspect the generation catalogue"`
	Watch     cmd.Watch            `cmd:"" help:"Regenerate whenever a catalogue document changes"`
	Cfg       cmd.ConfigCommand    `cmd:"" name:"config" help:"Configuration helpers"`
	Version   cmd.Version          `cmd:"" help:"Print the version"`
}

// Environment is the part of the process environment that changes what a
// build does, as opposed to how it logs.
type Environment struct {
	// CrosRust is "1" when building inside a packaging context that supplies
	// pre-generated schema code.
	CrosRust string `env:"CROS_RUST"`
}

// LoadEnvironment reads Environment from the process environment.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, err
	}
	return e, nil
}

// LoadEnvironmentFrom reads Environment from vars instead of the process
// environment.
func LoadEnvironmentFrom(vars map[string]string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Environment{}, err
	}
	return e, nil
}

// SchemaMode is the skip-regeneration mode selected by the environment. It is
// bound into kong so commands receive it as a plain value.
func (e Environment) SchemaMode() outdir.Mode {
	return outdir.ModeFromEnv(e.CrosRust)
}
