package studio

import (
	"context"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/config"
	"chapterdoc/editor"
	"chapterdoc/state"
	"chapterdoc/store"
)

// Show prints editable document of the chapter exactly as editor surface
// holds it.
func Show(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("show")

	id, err := chapterArg(cmd)
	if err != nil {
		return err
	}
	sections, err := openSections(env)
	if err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	return withOutput(env, cmd.Args().Get(1), func(w io.Writer) error {
		return show(ctx, sections, &env.Cfg.Editor, id, w, log)
	})
}

func show(ctx context.Context, sections *store.Adapter, cfg *config.EditorConfig, id string, w io.Writer, log *zap.Logger) (err error) {
	session := editor.NewSession(sections, nil, cfg, log)
	surface, err := session.Open(ctx, id)
	if err != nil {
		return err
	}
	defer closeSession(ctx, session, &err)

	log.Debug("Document prepared", zap.String("chapter", id), zap.Int("blocks", len(surface.Blocks())))
	_, err = io.WriteString(w, surface.HTML())
	return err
}
