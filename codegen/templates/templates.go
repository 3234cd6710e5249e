package templates

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"text/template"
)

//go:embed *.go.tpl
var templateFS embed.FS

// Set reads templates from an embedded filesystem, mirroring the
// template-reader pattern used across the driver client's code generator.
type Set struct {
	FS embed.FS
}

// Default is the single template reader the generator uses.
var Default = &Set{FS: templateFS}

// Render applies the template named name+".go.tpl" against data.
func (s *Set) Render(name string, data any) (string, error) {
	content, err := s.FS.ReadFile(path.Join(name + ".go.tpl"))
	if err != nil {
		return "", fmt.Errorf("templates: load %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("templates: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	return buf.String(), nil
}
