package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

// CatalogueCommand groups catalogue inspection subcommands.
type CatalogueCommand struct {
	List CatalogueList `cmd:"" help:"Print the generation targets in catalogue order"`
}

// CatalogueList prints the effective catalogue.
type CatalogueList struct {
	Catalogue string `help:"Catalogue document (yaml, toml or json). The built-in catalogue is used when empty" type:"path" env:"BINDGEN_CATALOGUE"`
	Format    string `help:"Output format" enum:"table,yaml,toml,json" default:"table"`

	out io.Writer `kong:"-"`
}

// Run is called by Kong when the catalogue list command is executed.
func (c *CatalogueList) Run(logger *slog.Logger) error {
	cat, err := catalogue.LoadOrDefault(c.Catalogue)
	if err != nil {
		return err
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	logger.Debug("Listing catalogue", "bindings", len(cat.Bindings), "protos", len(cat.Protos))

	if c.Format != "table" {
		data, err := cat.Marshal(catalogue.Format(c.Format))
		if err != nil {
			return fmt.Errorf("encode catalogue: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tMODULE\tMODE\tSOURCE")
	for _, b := range cat.Bindings {
		fmt.Fprintf(tw, "binding\t%s\t%s\t%s\n", b.Module, b.Mode, b.Source)
	}
	for _, p := range cat.Protos {
		fmt.Fprintf(tw, "proto\t%s\t-\t%s\n", p.Module, p.Source)
	}
	return tw.Flush()
}
