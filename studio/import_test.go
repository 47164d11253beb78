package studio

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"chapterdoc/chapter"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, name string, files map[string]string) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := zip.NewWriter(f)
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fw, err := w.Create(k)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(files[k])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func titles(t *testing.T, imp *importer) []string {
	t.Helper()
	var out []string
	for _, id := range imp.created {
		ch, err := imp.sections.Chapter(t.Context(), id)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, ch.Title)
	}
	slices.Sort(out)
	return out
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "one.md"), "# Art. 1\n\nText with **bold** part.\n")
	writeFile(t, filepath.Join(dir, "src", "two.html"), `<p onclick="x()">Second <script>alert(1)</script>article</p>`)
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "ignored")
	writeZip(t, filepath.Join(dir, "src", "pack.zip"), map[string]string{
		"part1/three.md":  "## Art. 3\n",
		"part2/four.md":   "Art. 4 body\n",
		"part2/image.png": "not a chapter",
	})

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"directory", filepath.Join(dir, "src"), []string{"Art. 1", "Art. 3", "four", "two"}},
		{"single file", filepath.Join(dir, "src", "one.md"), []string{"Art. 1"}},
		{"archive", filepath.Join(dir, "src", "pack.zip"), []string{"Art. 3", "four"}},
		{"path inside archive", filepath.Join(dir, "src", "pack.zip", "part1"), []string{"Art. 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, env, sections := setupTestEnv(t)
			imp := &importer{sections: sections, grouping: "civil", log: env.Log}
			if err := imp.process(ctx, tt.src); err != nil {
				t.Fatalf("process() error = %v", err)
			}
			if got := titles(t, imp); !slices.Equal(got, tt.want) {
				t.Errorf("imported %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("content", func(t *testing.T) {
		ctx, env, sections := setupTestEnv(t)
		imp := &importer{sections: sections, log: env.Log}
		if err := imp.process(ctx, filepath.Join(dir, "src", "one.md")); err != nil {
			t.Fatal(err)
		}
		if err := imp.process(ctx, filepath.Join(dir, "src", "two.html")); err != nil {
			t.Fatal(err)
		}
		md := loadSections(t, ctx, sections, imp.created[0])
		if len(md) != 1 || md[0].Kind != chapter.SectionKindText {
			t.Fatalf("sections = %+v", md)
		}
		for _, want := range []string{"<h2>Art. 1</h2>", "<strong>bold</strong>"} {
			if !strings.Contains(md[0].Content, want) {
				t.Errorf("markdown content %q does not contain %q", md[0].Content, want)
			}
		}
		html := loadSections(t, ctx, sections, imp.created[1])[0].Content
		if strings.Contains(html, "script") || strings.Contains(html, "onclick") {
			t.Errorf("html was not sanitized: %q", html)
		}
	})

	t.Run("errors", func(t *testing.T) {
		ctx, env, sections := setupTestEnv(t)
		imp := &importer{sections: sections, log: env.Log}
		for _, src := range []string{
			filepath.Join(dir, "missing.md"),
			filepath.Join(dir, "src", "notes.txt"),
			filepath.Join(dir, "src", "one.md", "tail"),
		} {
			if err := imp.process(ctx, src); err == nil {
				t.Errorf("process(%s) succeeded", src)
			}
		}
		if len(imp.created) != 0 {
			t.Errorf("chapters created: %v", imp.created)
		}
	})
}

func TestTitleOf(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"a.md", "intro\n\n## Art. 5 \nbody", "Art. 5"},
		{"a.md", "#\n# Real", "Real"},
		{"art-7.md", "no heading", "art-7"},
		{"page.html", "# not markdown", "page"},
	}
	for _, tt := range tests {
		if got := titleOf(tt.name, []byte(tt.data)); got != tt.want {
			t.Errorf("titleOf(%s, %q) = %q, want %q", tt.name, tt.data, got, tt.want)
		}
	}
}
