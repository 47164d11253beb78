package studio

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/state"
	"chapterdoc/store"
)

// Seed creates new chapter ready for editing, or makes sure existing
// chapter has its seed section. Chapter identifier is printed.
func Seed(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("seed")

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	req := seedRequest{
		chapterID:   cmd.Args().Get(0),
		title:       cmd.String("title"),
		grouping:    cmd.String("grouping"),
		subgrouping: cmd.String("subgrouping"),
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return seed(ctx, sections, req, os.Stdout, log)
}

type seedRequest struct {
	chapterID, title, grouping, subgrouping string
}

func seed(ctx context.Context, sections *store.Adapter, req seedRequest, w io.Writer, log *zap.Logger) error {
	id := req.chapterID
	if len(id) == 0 {
		ch, err := newChapter(ctx, sections, req.title, req.grouping, req.subgrouping)
		if err != nil {
			return err
		}
		id = ch.ID
		log.Info("Chapter created", zap.String("chapter", id), zap.String("title", ch.Title), zap.Int("position", ch.Position))
	} else if _, err := sections.Chapter(ctx, id); err != nil {
		return fmt.Errorf("unable to load chapter %s: %w", id, err)
	}

	s, err := sections.EnsureSeedSection(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to seed chapter %s: %w", id, err)
	}
	if s != nil {
		log.Info("Seed section created", zap.String("chapter", id), zap.String("section", s.ID))
	} else {
		log.Info("Chapter already has sections, nothing to seed", zap.String("chapter", id))
	}
	_, err = fmt.Fprintln(w, id)
	return err
}
