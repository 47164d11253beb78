package studio

import (
	"context"
	"fmt"
	"io"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/chapter"
	"chapterdoc/common"
	"chapterdoc/config"
	"chapterdoc/render"
	"chapterdoc/state"
	"chapterdoc/store"
)

// Render draws chapter for one of the surfaces: XHTML web preview, native
// view tree dump or Ion encoded view tree for the mobile client.
func Render(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	id, err := chapterArg(cmd)
	if err != nil {
		return err
	}
	target, err := common.ParseRenderTarget(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown render target requested, switching to web", zap.Error(err))
		target = common.RenderTargetWeb
	}
	base := cmd.Float("base")
	if base <= 0 {
		base = env.Cfg.Render.BaseFontSize
	}
	sections, err := openSections(env)
	if err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Rendering starting", zap.String("chapter", id), zap.Stringer("target", target), zap.Float64("base", base))
	defer func(start time.Time) {
		log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return withOutput(env, cmd.Args().Get(1), func(w io.Writer) error {
		return renderChapter(ctx, sections, &env.Cfg.Render, id, target, base, w, log)
	})
}

func loadForRender(ctx context.Context, sections *store.Adapter, id string) ([]chapter.Section, error) {
	if _, err := sections.Chapter(ctx, id); err != nil {
		return nil, fmt.Errorf("unable to load chapter %s: %w", id, err)
	}
	list, err := sections.LoadSections(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unable to load sections of chapter %s: %w", id, err)
	}
	return list, nil
}

func renderChapter(ctx context.Context, sections *store.Adapter, cfg *config.RenderConfig, id string, target common.RenderTarget, base float64, w io.Writer, log *zap.Logger) error {
	list, err := loadForRender(ctx, sections, id)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		log.Warn("Chapter has no sections yet", zap.String("chapter", id))
	}
	data, err := renderSections(list, cfg, target, base, log)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// renderSections produces output for the target.
func renderSections(list []chapter.Section, cfg *config.RenderConfig, target common.RenderTarget, base float64, log *zap.Logger) ([]byte, error) {
	contract := render.NewContract(cfg)
	switch target {
	case common.RenderTargetWeb:
		doc, err := render.NewWeb(contract, log).Render(list, base)
		if err != nil {
			return nil, err
		}
		return doc.WriteToBytes()
	case common.RenderTargetNative, common.RenderTargetIon:
		views, err := render.NewNative(contract, log).Render(list, base)
		if err != nil {
			return nil, err
		}
		if target == common.RenderTargetIon {
			return render.EncodeIon(views)
		}
		return []byte(render.Dump(views)), nil
	default:
		return nil, fmt.Errorf("unsupported render target: %s", target)
	}
}
