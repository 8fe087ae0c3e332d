// Package catalogue holds the tables of generation targets: the interface
// bindings produced by the binding generator and the schema modules produced
// by the schema compiler.
//
// The tables are data. The default catalogue is embedded from default.yaml and
// can be replaced by any YAML, TOML or JSON document with the same shape, so a
// new generation target never requires a code change.
package catalogue

import "strings"

// ModeKind selects what the binding generator emits for an interface.
type ModeKind string

const (
	// ModeClient generates client-side proxies.
	ModeClient ModeKind = "client"
	// ModeAdaptor generates service-side adaptors.
	ModeAdaptor ModeKind = "adaptor"
)

var knownKinds = []ModeKind{ModeClient, ModeAdaptor}

// Mode is the generation mode of a binding. Options are passed through to the
// binding generator untouched.
type Mode struct {
	Kind    ModeKind `json:"kind" yaml:"kind" toml:"kind"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// ClientMode is client generation without options.
func ClientMode() Mode { return Mode{Kind: ModeClient} }

func (m Mode) normalize() Mode {
	if m.Kind == "" {
		m.Kind = ModeClient
	}
	return m
}

func (m Mode) String() string {
	k := m.normalize().Kind
	if len(m.Options) == 0 {
		return string(k)
	}
	return string(k) + "(" + strings.Join(m.Options, ",") + ")"
}

// Binding describes one interface-description document to generate bindings for.
type Binding struct {
	Module string `json:"module" yaml:"module" toml:"module"`
	Source string `json:"source" yaml:"source" toml:"source"`
	Mode   Mode   `json:"mode" yaml:"mode,omitempty" toml:"mode"`
}

// Proto describes one schema document to compile.
type Proto struct {
	Module string `json:"module" yaml:"module" toml:"module"`
	Source string `json:"source" yaml:"source" toml:"source"`
}

// Catalogue is the ordered list of generation targets. Order matters: it is
// the order of the module index and the order failures are reported in.
type Catalogue struct {
	Bindings []Binding `json:"bindings" yaml:"bindings" toml:"bindings"`
	Protos   []Proto   `json:"protos" yaml:"protos" toml:"protos"`
}

// Sources returns every document path referenced by the catalogue, bindings
// first, in catalogue order.
func (c *Catalogue) Sources() []string {
	out := make([]string, 0, len(c.Bindings)+len(c.Protos))
	for _, b := range c.Bindings {
		out = append(out, b.Source)
	}
	for _, p := range c.Protos {
		out = append(out, p.Source)
	}
	return out
}
