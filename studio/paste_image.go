package studio

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/config"
	"chapterdoc/editor"
	"chapterdoc/state"
	"chapterdoc/store"
)

// PasteImage puts picture into chapter either inline at the text given
// with --at or, with --block, as a new image section following the block
// holding that text.
func PasteImage(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("paste")

	id, err := chapterArg(cmd)
	if err != nil {
		return err
	}
	name := cmd.Args().Get(1)
	if len(name) == 0 {
		return errors.New("no image file has been specified")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read image: %w", err)
	}

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	assets, err := openAssets(env)
	if err != nil {
		return err
	}

	req := pasteRequest{
		transfer: editor.Transfer{
			Data:        data,
			Name:        filepath.Base(name),
			ContentType: mime.TypeByExtension(filepath.Ext(name)),
		},
		at:    cmd.String("at"),
		block: cmd.Bool("block"),
	}
	return pasteImage(ctx, sections, assets, &env.Cfg.Editor, id, req, log)
}

type pasteRequest struct {
	transfer editor.Transfer
	at       string
	block    bool
}

func pasteImage(ctx context.Context, sections *store.Adapter, assets editor.Assets, cfg *config.EditorConfig, id string, req pasteRequest, log *zap.Logger) (err error) {
	session := editor.NewSession(sections, assets, cfg, log)
	surface, err := session.Open(ctx, id)
	if err != nil {
		return err
	}
	defer closeSession(ctx, session, &err)

	if len(req.at) > 0 {
		pos, ok := surface.FindText(req.at)
		if !ok {
			return fmt.Errorf("%w: %q not found", editor.ErrNoSection, req.at)
		}
		if err := surface.Collapse(pos); err != nil {
			return err
		}
	}
	req.transfer.PreventDefault = func() {
		log.Debug("Default insertion suppressed", zap.String("file", req.transfer.Name))
	}

	if req.block {
		sec, err := surface.InsertImageBlock(ctx, req.transfer)
		if err != nil {
			return err
		}
		log.Info("Image section created", zap.String("chapter", id), zap.String("section", sec.ID), zap.Int("number", sec.Number), zap.String("url", sec.ImageURL))
	} else {
		if err := surface.PasteImage(ctx, req.transfer); err != nil {
			return err
		}
		log.Info("Image inserted", zap.String("chapter", id))
	}

	res, err := session.Save(ctx)
	if err != nil {
		return err
	}
	return res.Err()
}
