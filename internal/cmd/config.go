package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/bindgen/internal/configpaths"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit writes a configuration file holding the defaults of every flag
// of a command, in the layout the configuration loaders read back.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"generate,watch"`
	Format  string `help:"Output format" enum:"json,yaml,yml,toml" default:"json"`
	Output  string `help:"Destination file (defaults to <command>.<format> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

var templateCommands = map[string]func() any{
	"generate": func() any { return &Generate{} },
	"watch":    func() any { return &Watch{} },
}

type templateEncoder struct {
	ext    string
	encode func(map[string]any) ([]byte, error)
}

var templateEncoders = map[string]templateEncoder{
	"json": {ext: "json", encode: func(m map[string]any) ([]byte, error) {
		data, err := json.MarshalIndent(m, "", "  ")
		return append(data, '\n'), err
	}},
	"yaml": {ext: "yaml", encode: func(m map[string]any) ([]byte, error) { return yaml.Marshal(m) }},
	"yml":  {ext: "yml", encode: func(m map[string]any) ([]byte, error) { return yaml.Marshal(m) }},
	"toml": {ext: "toml", encode: func(m map[string]any) ([]byte, error) { return toml.Marshal(m) }},
}

// Run is called by Kong when the config init command is executed.
func (c *ConfigInit) Run(logger *slog.Logger) error {
	enc, ok := templateEncoders[strings.ToLower(c.Format)]
	if !ok {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	grammar, ok := templateCommands[c.Command]
	if !ok {
		return fmt.Errorf("unknown command %q", c.Command)
	}
	values, err := flagDefaults(grammar())
	if err != nil {
		return err
	}
	data, err := enc.encode(values)
	if err != nil {
		return fmt.Errorf("encode %s template: %w", c.Format, err)
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + enc.ext
	}
	if _, err := os.Stat(dest); err == nil && !c.Force {
		return fmt.Errorf("%s exists; use --force to overwrite", dest)
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote configuration template", "command", c.Command, "path", dest)
	return nil
}

// flagDefaults builds the kong model of grammar and returns each flag's
// default keyed the way kong's configuration resolvers look it up: dashes
// become underscores and dotted prefixes become nested tables.
func flagDefaults(grammar any) (map[string]any, error) {
	k, err := kong.New(grammar)
	if err != nil {
		return nil, fmt.Errorf("build command model: %w", err)
	}
	out := map[string]any{}
	for _, f := range k.Model.Flags {
		if f.Hidden || f.Name == "help" {
			continue
		}
		v, err := typedDefault(f.Target.Type(), f.Default)
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", f.Name, err)
		}
		parts := strings.Split(strings.ReplaceAll(f.Name, "-", "_"), ".")
		table := out
		for _, p := range parts[:len(parts)-1] {
			sub, ok := table[p].(map[string]any)
			if !ok {
				sub = map[string]any{}
				table[p] = sub
			}
			table = sub
		}
		table[parts[len(parts)-1]] = v
	}
	return out, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// typedDefault converts a kong default tag into the value a config document
// would hold for it. Durations stay strings so they read back through kong's
// duration mapper.
func typedDefault(t reflect.Type, def string) (any, error) {
	if t == durationType {
		if def == "" {
			return "0s", nil
		}
		return def, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		if def == "" {
			return false, nil
		}
		return strconv.ParseBool(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0, nil
		}
		return strconv.ParseInt(def, 10, 64)
	case reflect.Slice:
		if def == "" {
			return []string{}, nil
		}
		return strings.Split(def, ","), nil
	default:
		return def, nil
	}
}
