package studio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"chapterdoc/archive"
	"chapterdoc/chapter"
	"chapterdoc/common"
	"chapterdoc/state"
	"chapterdoc/store"
)

// names of files inside preview bundle
const (
	bundleManifest = "manifest.yaml"
	bundleDocument = "document.html"
	bundleExt      = ".zip"
)

// Export writes preview bundle for each requested chapter (all chapters
// when none were named): editable document, web preview, native view tree
// dump and its Ion encoding.
func Export(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	base := cmd.Float("base")
	if base <= 0 {
		base = env.Cfg.Render.BaseFontSize
	}

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	ex := &exporter{env: env, sections: sections, dst: dst, base: base, log: log}

	log.Info("Export starting", zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Export completed", zap.Duration("elapsed", time.Since(start)), zap.Int("bundles", len(ex.written)))
	}(time.Now())

	return ex.run(ctx, cmd.StringSlice("chapter"))
}

type exporter struct {
	env      *state.LocalEnv
	sections *store.Adapter
	dst      string
	base     float64
	log      *zap.Logger

	written []string
}

func (ex *exporter) run(ctx context.Context, ids []string) error {
	var chapters []chapter.Chapter
	if len(ids) == 0 {
		all, err := ex.sections.Records().Chapters(ctx)
		if err != nil {
			return fmt.Errorf("unable to list chapters: %w", err)
		}
		chapters = all
	} else {
		for _, id := range ids {
			ch, err := ex.sections.Chapter(ctx, id)
			if err != nil {
				return fmt.Errorf("unable to load chapter %s: %w", id, err)
			}
			chapters = append(chapters, *ch)
		}
	}

	failed := 0
	for i := range chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ex.exportChapter(ctx, &chapters[i]); err != nil {
			ex.log.Error("Unable to export chapter", zap.String("chapter", chapters[i].ID), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("unable to export %d of %d chapters", failed, len(chapters))
	}
	return nil
}

type manifestSection struct {
	ID       string `yaml:"id"`
	Number   int    `yaml:"number"`
	Kind     string `yaml:"kind"`
	ImageURL string `yaml:"image_url,omitempty"`
}

type manifest struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title"`
	Position int               `yaml:"position"`
	Excerpt  string            `yaml:"excerpt,omitempty"`
	BaseSize float64           `yaml:"base_font_size"`
	Files    []string          `yaml:"files"`
	Sections []manifestSection `yaml:"sections"`
}

func (ex *exporter) exportChapter(ctx context.Context, ch *chapter.Chapter) (rerr error) {
	var outputName string

	ex.log.Debug("Export of chapter starting", zap.String("chapter", ch.ID))
	defer func(start time.Time) {
		// image decoders are not always mature enough, one broken chapter
		// should not stop the others
		if r := recover(); r != nil {
			ex.log.Error("Export ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("export panic: %v", r)
		} else if rerr == nil {
			ex.log.Info("Chapter exported", zap.String("chapter", ch.ID), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	list, err := loadForRender(ctx, ex.sections, ch.ID)
	if err != nil {
		return err
	}

	outputName = buildOutputPath(ch, ex.dst, bundleExt, &ex.env.Cfg.Export, ex.log)
	if _, err := os.Stat(outputName); err == nil {
		if !ex.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		ex.log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	}

	files, err := ex.bundleFiles(list)
	if err != nil {
		return err
	}
	m := manifest{
		ID:       ch.ID,
		Title:    ch.Title,
		Position: ch.Position,
		Excerpt:  chapter.Excerpt(list, 160),
		BaseSize: ex.base,
	}
	for _, f := range files {
		m.Files = append(m.Files, f.name)
	}
	for _, s := range list {
		m.Sections = append(m.Sections, manifestSection{ID: s.ID, Number: s.Number, Kind: s.Kind.String(), ImageURL: s.ImageURL})
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("unable to prepare manifest: %w", err)
	}
	files = append([]bundleFile{{bundleManifest, data}}, files...)

	b, err := archive.Create(outputName, ex.env.Cfg.Export.FixZip)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := b.Add(f.name, f.data); err != nil {
			_ = b.Abort()
			return fmt.Errorf("unable to write %s: %w", f.name, err)
		}
	}
	if err := b.Close(); err != nil {
		return err
	}
	ex.written = append(ex.written, outputName)

	if ex.env.Rpt != nil {
		ex.env.Rpt.Store(fmt.Sprintf("result-%s%s", ch.ID, bundleExt), outputName)
	}
	return nil
}

type bundleFile struct {
	name string
	data []byte
}

// bundleFiles renders chapter for every surface.
func (ex *exporter) bundleFiles(list []chapter.Section) ([]bundleFile, error) {
	files := []bundleFile{{bundleDocument, []byte(chapter.Serialize(list))}}
	for _, target := range common.RenderTargetValues() {
		data, err := renderSections(list, &ex.env.Cfg.Render, target, ex.base, ex.log)
		if err != nil {
			return nil, fmt.Errorf("unable to render %s: %w", target, err)
		}
		files = append(files, bundleFile{bundleName(target), data})
	}
	return files, nil
}

func bundleName(target common.RenderTarget) string {
	switch target {
	case common.RenderTargetWeb:
		return "preview" + target.Ext()
	default:
		return "views" + target.Ext()
	}
}
