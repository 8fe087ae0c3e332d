package catalogue

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

//go:embed catalogue.schema.json
var schemaDocument string

const schemaURL = "catalogue.schema.json"

// Format is the encoding of a catalogue document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document format from the file extension.
// Unknown extensions are read as YAML, which is also a superset of JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Default returns the embedded catalogue.
func Default() (*Catalogue, error) {
	c, err := Parse(defaultDocument, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded catalogue: %w", err)
	}
	return c, nil
}

// Load reads a catalogue document from disk.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or the embedded catalogue when path is empty.
func LoadOrDefault(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes a catalogue document. The document is checked against the
// catalogue JSON schema first, so unknown keys and wrongly typed values are
// rejected instead of silently dropped.
func Parse(data []byte, format Format) (*Catalogue, error) {
	generic, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalogue schema: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("invalid catalogue document: %w", err)
	}

	var c Catalogue
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	default:
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s catalogue: %w", format, err)
	}
	for i := range c.Bindings {
		c.Bindings[i].Mode = c.Bindings[i].Mode.normalize()
	}
	return &c, nil
}

// decodeGeneric decodes data into plain maps and slices and round-trips the
// result through encoding/json, which is the value shape the schema
// validator expects regardless of the source format.
func decodeGeneric(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatTOML:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse toml catalogue: %w", err)
		}
		raw = tree.ToMap()
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json catalogue: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml catalogue: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize catalogue: %w", err)
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("normalize catalogue: %w", err)
	}
	return out, nil
}

// Marshal encodes the catalogue in the given format.
func (c *Catalogue) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(*c)
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	default:
		return yaml.Marshal(c)
	}
}
