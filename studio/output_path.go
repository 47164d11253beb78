package studio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"chapterdoc/chapter"
	"chapterdoc/config"
)

// Values holds variables available for output name template expansion.
type Values struct {
	Context  string
	Title    string
	Slug     string
	ID       string
	Position int
}

func expandTemplate(name config.TemplateFieldName, field string, ch *chapter.Chapter) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:  string(name),
		Title:    ch.Title,
		Slug:     slug.Make(ch.Title),
		ID:       ch.ID,
		Position: ch.Position,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildOutputPath returns bundle path for the chapter under dst. Name
// comes from configured template which may introduce subdirectories, when
// expansion fails or yields nothing chapter title is used. Every segment is
// cleaned and, if requested, transliterated.
func buildOutputPath(ch *chapter.Chapter, dst, ext string, cfg *config.ExportConfig, log *zap.Logger) string {
	var expanded string
	if len(cfg.OutputNameTemplate) > 0 {
		var err error
		if expanded, err = expandTemplate(config.OutputNameTemplateFieldName, cfg.OutputNameTemplate, ch); err != nil {
			log.Warn("Unable to prepare output filename", zap.String("chapter", ch.ID), zap.Error(err))
			expanded = ""
		}
	}
	segments := splitPath(filepath.FromSlash(strings.TrimSpace(expanded)))
	if len(segments) == 0 {
		segments = []string{ch.Title}
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for i, segment := range segments {
		segment = cleanPathSegment(segment, cfg)
		if i == len(segments)-1 {
			segment += ext
		}
		parts = append(parts, segment)
	}
	return filepath.Join(parts...)
}

// splitPath breaks path into its non empty elements dropping anything
// which could escape destination directory.
func splitPath(p string) []string {
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(p); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimRight(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, cfg *config.ExportConfig) string {
	if cfg.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
