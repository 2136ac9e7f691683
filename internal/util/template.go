package util

import (
	"strings"
	"text/template"
)

// Template is a parsed prompt template. Values are substituted verbatim;
// nothing is HTML escaped.
type Template struct {
	tmpl *template.Template
}

// ParseTemplate parses text into a Template.
func ParseTemplate(name, text string) (*Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl: t}, nil
}

// MustParseTemplate is ParseTemplate for package-level templates; it panics
// on a parse error.
func MustParseTemplate(name, text string) *Template {
	t, err := ParseTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the template against data.
func (t *Template) Render(data any) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
