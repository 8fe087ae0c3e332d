package catalogue_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

func TestDefaultCatalogueIsValid(t *testing.T) {
	c, err := catalogue.Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Bindings)
	assert.NotEmpty(t, c.Protos)
	assert.NoError(t, c.Validate())

	for _, b := range c.Bindings {
		assert.Equal(t, catalogue.ModeClient, b.Mode.Kind, "binding %s", b.Module)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		format catalogue.Format
		doc    string
	}{
		{
			name:   "yaml",
			format: catalogue.FormatYAML,
			doc: `
bindings:
  - module: org_example_foo
    source: foo/org.example.Foo.xml
    mode:
      kind: adaptor
      options: [async]
protos:
  - module: arc
    source: protos/arc.proto
  - module: fido
    source: protos/fido.proto
`,
		},
		{
			name:   "toml",
			format: catalogue.FormatTOML,
			doc: `
[[bindings]]
module = "org_example_foo"
source = "foo/org.example.Foo.xml"
[bindings.mode]
kind = "adaptor"
options = ["async"]

[[protos]]
module = "arc"
source = "protos/arc.proto"

[[protos]]
module = "fido"
source = "protos/fido.proto"
`,
		},
		{
			name:   "json",
			format: catalogue.FormatJSON,
			doc: `{
  "bindings": [
    {"module": "org_example_foo", "source": "foo/org.example.Foo.xml", "mode": {"kind": "adaptor", "options": ["async"]}}
  ],
  "protos": [
    {"module": "arc", "source": "protos/arc.proto"},
    {"module": "fido", "source": "protos/fido.proto"}
  ]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalogue.Parse([]byte(tt.doc), tt.format)
			require.NoError(t, err)

			require.Len(t, c.Bindings, 1)
			assert.Equal(t, "org_example_foo", c.Bindings[0].Module)
			assert.Equal(t, catalogue.ModeAdaptor, c.Bindings[0].Mode.Kind)
			assert.Equal(t, []string{"async"}, c.Bindings[0].Mode.Options)

			require.Len(t, c.Protos, 2)
			assert.Equal(t, "arc", c.Protos[0].Module)
			assert.Equal(t, "fido", c.Protos[1].Module)
			assert.NoError(t, c.Validate())
		})
	}
}

func TestParseDefaultsModeToClient(t *testing.T) {
	c, err := catalogue.Parse([]byte("bindings:\n  - module: a\n    source: a.xml\n"), catalogue.FormatYAML)
	require.NoError(t, err)
	require.Len(t, c.Bindings, 1)
	assert.Equal(t, catalogue.ClientMode(), c.Bindings[0].Mode)
	assert.Empty(t, c.Protos)
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown top level key", doc: "bindingz: []\n"},
		{name: "unknown entry key", doc: "protos:\n  - module: a\n    source: a.proto\n    path: x\n"},
		{name: "missing source", doc: "protos:\n  - module: a\n"},
		{name: "empty module", doc: "protos:\n  - module: \"\"\n    source: a.proto\n"},
		{name: "wrong type", doc: "protos: arc\n"},
		{name: "not yaml", doc: "protos: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalogue.Parse([]byte(tt.doc), catalogue.FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestLoadPicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "targets.toml")
	require.NoError(t, os.WriteFile(p, []byte("[[protos]]\nmodule = \"arc\"\nsource = \"arc.proto\"\n"), 0o644))

	c, err := catalogue.Load(p)
	require.NoError(t, err)
	require.Len(t, c.Protos, 1)
	assert.Equal(t, "arc", c.Protos[0].Module)

	_, err = catalogue.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := catalogue.Default()
	require.NoError(t, err)

	for _, f := range []catalogue.Format{catalogue.FormatYAML, catalogue.FormatTOML, catalogue.FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := c.Marshal(f)
			require.NoError(t, err)
			back, err := catalogue.Parse(data, f)
			require.NoError(t, err)
			assert.Equal(t, c, back)
		})
	}
}

func TestSources(t *testing.T) {
	c := &catalogue.Catalogue{
		Bindings: []catalogue.Binding{{Module: "b", Source: "b.xml"}},
		Protos:   []catalogue.Proto{{Module: "p", Source: "p.proto"}},
	}
	assert.Equal(t, []string{"b.xml", "p.proto"}, c.Sources())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "client", catalogue.Mode{}.String())
	assert.Equal(t, "adaptor(async,raw)", catalogue.Mode{Kind: catalogue.ModeAdaptor, Options: []string{"async", "raw"}}.String())
}
