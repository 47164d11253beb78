package studio

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/config"
	"chapterdoc/editor"
	"chapterdoc/state"
	"chapterdoc/store"
)

// Edit applies changes to the chapter the way an author would: whole
// document snapshot typed into editor, markup pasted at selected text,
// toolbar commands over selection. Changed blocks are saved.
func Edit(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("edit")

	id, err := chapterArg(cmd)
	if err != nil {
		return err
	}

	var req editRequest
	if name := cmd.Args().Get(1); len(name) > 0 {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read snapshot: %w", err)
		}
		req.snapshot, req.hasSnapshot = string(data), true
	}
	req.selection = cmd.String("select")
	if name := cmd.String("paste"); len(name) > 0 {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read pasted markup: %w", err)
		}
		req.paste = string(data)
	}
	for _, spec := range cmd.StringSlice("command") {
		c, err := parseCommand(spec)
		if err != nil {
			return err
		}
		req.commands = append(req.commands, c)
	}
	req.fontSteps = cmd.Int("font-size")

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	res, err := edit(ctx, sections, &env.Cfg.Editor, id, req, log)
	if err != nil {
		return err
	}
	log.Info("Chapter saved", zap.String("chapter", id), zap.Strings("committed", res.Committed))
	return res.Err()
}

type toolbarCommand struct {
	cmd editor.Command
	arg string
}

// parseCommand reads "name" or "name=argument".
func parseCommand(spec string) (toolbarCommand, error) {
	name, arg, _ := strings.Cut(spec, "=")
	c, err := editor.ParseCommand(strings.TrimSpace(name))
	if err != nil {
		return toolbarCommand{}, fmt.Errorf("unknown toolbar command %q (supported: %s)", name, strings.Join(editor.CommandNames(), ", "))
	}
	return toolbarCommand{cmd: c, arg: strings.TrimSpace(arg)}, nil
}

type editRequest struct {
	snapshot    string
	hasSnapshot bool
	selection   string
	paste       string
	commands    []toolbarCommand
	fontSteps   int
}

func edit(ctx context.Context, sections *store.Adapter, cfg *config.EditorConfig, id string, req editRequest, log *zap.Logger) (_ store.FlushResult, err error) {
	session := editor.NewSession(sections, nil, cfg, log)
	surface, err := session.Open(ctx, id)
	if err != nil {
		return store.FlushResult{}, err
	}
	defer closeSession(ctx, session, &err)

	unsubscribe := surface.Subscribe(func(ch editor.Change) {
		log.Debug("Blocks changed", zap.Strings("blocks", ch.Changed))
	})
	defer unsubscribe()

	if req.hasSnapshot {
		if err := surface.Input(req.snapshot); err != nil {
			return store.FlushResult{}, fmt.Errorf("unable to apply snapshot: %w", err)
		}
	}
	if len(req.selection) > 0 {
		if err := surface.SelectText(req.selection); err != nil {
			return store.FlushResult{}, err
		}
	}
	if len(req.paste) > 0 {
		if err := surface.PasteHTML(req.paste); err != nil {
			return store.FlushResult{}, fmt.Errorf("unable to paste markup: %w", err)
		}
	}
	for _, c := range req.commands {
		if err := surface.Exec(c.cmd, c.arg); err != nil {
			return store.FlushResult{}, fmt.Errorf("unable to apply %s: %w", c.cmd, err)
		}
	}
	if req.fontSteps != 0 {
		if err := surface.AdjustFontSize(req.fontSteps); err != nil {
			return store.FlushResult{}, fmt.Errorf("unable to adjust font size: %w", err)
		}
	}
	return session.Save(ctx)
}
