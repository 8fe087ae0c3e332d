package outdir

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// DefaultDeclTemplate declares one public module per compiled schema.
const DefaultDeclTemplate = "pub mod {{.Name}};"

// Declaration is the data available to the declaration template.
type Declaration struct {
	Name   string
	Source string
}

type declTemplate struct {
	t *template.Template
}

func parseDeclTemplate(text string) (*declTemplate, error) {
	if text == "" {
		text = DefaultDeclTemplate
	}
	t, err := template.New("decl").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse declaration template: %w", err)
	}
	d := &declTemplate{t: t}
	line, err := d.render(Declaration{Name: "module", Source: "dir/module.proto"})
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(line, "\r\n") {
		return nil, errors.New("declaration template must render a single line")
	}
	return d, nil
}

func (d *declTemplate) render(decl Declaration) (string, error) {
	var buf bytes.Buffer
	if err := d.t.Execute(&buf, decl); err != nil {
		return "", fmt.Errorf("render declaration for %s: %w", decl.Name, err)
	}
	return buf.String(), nil
}

// Index is the module index file. Each Declare appends one line straight to
// disk, so lines for modules declared before a failure stay in the file.
type Index struct {
	path string
	decl *declTemplate
}

func (i *Index) Path() string { return i.path }

// Declare appends the declaration line for one compiled module.
func (i *Index) Declare(decl Declaration) error {
	line, err := i.decl.render(decl)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(i.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open module index: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write module index: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write module index: %w", err)
	}
	return nil
}
