package studio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"chapterdoc/chapter"
	"chapterdoc/common"
	"chapterdoc/config"
	"chapterdoc/state"
	"chapterdoc/store"
)

// setupTestEnv creates environment with in-memory record store and bucket
// in temporary directory.
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv, *store.Adapter) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Store.Backend = common.StoreBackendMemory
	cfg.Objects.Bucket = t.TempDir()

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	t.Cleanup(func() {
		if err := env.Close(); err != nil {
			t.Errorf("close env: %v", err)
		}
	})

	sections, err := openSections(env)
	if err != nil {
		t.Fatalf("open sections: %v", err)
	}
	return ctx, env, sections
}

// addScenario stores chapter with a text section "a" and an image section
// "b".
func addScenario(t *testing.T, ctx context.Context, sections *store.Adapter, id, title string) {
	t.Helper()
	records := sections.Records()
	if err := records.InsertChapter(ctx, &chapter.Chapter{ID: id, GroupingID: "civil", Title: title}); err != nil {
		t.Fatalf("insert chapter: %v", err)
	}
	for _, s := range []chapter.Section{
		{ID: id + "-a", ChapterID: id, Number: 0, Kind: chapter.SectionKindText, Content: "<p>Hello world</p>"},
		{ID: id + "-b", ChapterID: id, Number: 1, Kind: chapter.SectionKindImage, ImageURL: "https://x/y.png"},
	} {
		if err := records.InsertSection(ctx, &s); err != nil {
			t.Fatalf("insert section: %v", err)
		}
	}
}

func loadSections(t *testing.T, ctx context.Context, sections *store.Adapter, id string) []chapter.Section {
	t.Helper()
	list, err := sections.LoadSections(ctx, id)
	if err != nil {
		t.Fatalf("load sections: %v", err)
	}
	return list
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := range 4 {
		for y := range 3 {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
