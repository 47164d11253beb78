// Package objects stores uploaded assets and produces their public URLs.
package objects

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
)

// KeyPath holds path segments object key is built from.
type KeyPath struct {
	Grouping    string
	Subgrouping string
	Chapter     string
	Section     string
	Name        string
}

// KeyBuilder renders object keys from configured template. Template sees
// KeyPath with every segment already made safe.
type KeyBuilder struct {
	tmpl *template.Template
}

func NewKeyBuilder(text string) (*KeyBuilder, error) {
	tmpl, err := template.New("key").Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse object key template: %w", err)
	}
	return &KeyBuilder{tmpl: tmpl}, nil
}

func segment(s string) string {
	if s = slug.Make(s); len(s) == 0 {
		return "_"
	}
	return s
}

// FileName makes safe object name keeping extension.
func FileName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	return segment(strings.TrimSuffix(name, path.Ext(name))) + ext
}

// Build returns object key for the path.
func (kb *KeyBuilder) Build(p KeyPath) (string, error) {
	safe := KeyPath{
		Grouping:    segment(p.Grouping),
		Subgrouping: segment(p.Subgrouping),
		Chapter:     segment(p.Chapter),
		Section:     segment(p.Section),
		Name:        FileName(p.Name),
	}
	buf := new(bytes.Buffer)
	if err := kb.tmpl.Execute(buf, safe); err != nil {
		return "", fmt.Errorf("unable to build object key: %w", err)
	}
	key := path.Clean(strings.TrimLeft(buf.String(), "/"))
	if key == "." || strings.HasPrefix(key, "../") || key == ".." {
		return "", fmt.Errorf("object key %q is outside of bucket", buf.String())
	}
	return key, nil
}
