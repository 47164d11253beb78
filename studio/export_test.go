package studio

import (
	"archive/zip"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	yaml "gopkg.in/yaml.v3"

	"chapterdoc/chapter"
	"chapterdoc/config"
	"chapterdoc/render"
)

func TestBuildOutputPath(t *testing.T) {
	ch := &chapter.Chapter{ID: "c1", Title: "Art. 5: Claims", Position: 7}
	tests := []struct {
		name          string
		template      string
		transliterate bool
		want          string
	}{
		{"default template", `{{ printf "%03d" .Position }}-{{ .Slug }}`, true, "007-art-5-claims.zip"},
		{"title kept", "{{ .Title }}", false, "Art. 5 Claims.zip"},
		{"subdirectories", "{{ .ID }}/{{ .Title }}", true, filepath.Join("c1", "art-5-claims.zip")},
		{"escape attempt", "../../{{ .ID }}", false, "c1.zip"},
		{"empty template", "", false, "Art. 5 Claims.zip"},
		{"broken template", "{{ .Missing", false, "Art. 5 Claims.zip"},
		{"sprig functions", "{{ .ID | upper }}", false, "C1.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.ExportConfig{OutputNameTemplate: tt.template, FileNameTransliterate: tt.transliterate}
			got := buildOutputPath(ch, "/out", ".zip", cfg, zaptest.NewLogger(t))
			if want := filepath.Join("/out", tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	ctx, env, sections := setupTestEnv(t)
	addScenario(t, ctx, sections, "ch", "Art. 1")
	env.Cfg.Export.OutputNameTemplate = "{{ .ID }}"

	dst := t.TempDir()
	ex := &exporter{env: env, sections: sections, dst: dst, base: 16, log: env.Log}
	if err := ex.run(ctx, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(ex.written) != 1 || ex.written[0] != filepath.Join(dst, "ch.zip") {
		t.Fatalf("written = %v", ex.written)
	}

	r, err := zip.OpenReader(ex.written[0])
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	files := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		files[f.Name] = data
	}

	names := make([]string, 0, len(files))
	for k := range files {
		names = append(names, k)
	}
	slices.Sort(names)
	if want := []string{"document.html", "manifest.yaml", "preview.xhtml", "views.ion", "views.txt"}; !slices.Equal(names, want) {
		t.Errorf("bundle files = %v, want %v", names, want)
	}
	if string(files["document.html"]) != chapter.Serialize(loadSections(t, ctx, sections, "ch")) {
		t.Errorf("document.html = %s", files["document.html"])
	}
	if !strings.Contains(string(files["views.txt"]), "image section=ch-b") {
		t.Errorf("views.txt = %s", files["views.txt"])
	}
	if _, err := render.DecodeIon(files["views.ion"]); err != nil {
		t.Errorf("views.ion: %v", err)
	}

	var m manifest
	if err := yaml.Unmarshal(files["manifest.yaml"], &m); err != nil {
		t.Fatal(err)
	}
	if m.ID != "ch" || m.Title != "Art. 1" || len(m.Sections) != 2 || m.Sections[1].Kind != "image" || m.Excerpt != "Hello world" {
		t.Errorf("manifest = %+v", m)
	}

	t.Run("existing output", func(t *testing.T) {
		if err := ex.run(ctx, []string{"ch"}); err == nil {
			t.Error("run() replaced existing bundle")
		}
		env.Overwrite = true
		defer func() { env.Overwrite = false }()
		if err := ex.run(ctx, []string{"ch"}); err != nil {
			t.Errorf("run() with overwrite error = %v", err)
		}
	})

	t.Run("unknown chapter", func(t *testing.T) {
		if err := ex.run(ctx, []string{"missing"}); err == nil {
			t.Error("run() of unknown chapter succeeded")
		}
	})
}
