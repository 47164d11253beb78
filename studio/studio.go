// Package studio implements authoring subcommands. Every command opens
// configured record store, works through the editor or renderer and reports
// what it did.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"chapterdoc/chapter"
	"chapterdoc/objects"
	"chapterdoc/state"
	"chapterdoc/store"
)

// openSections returns section store adapter over the record store of the
// environment, opening the store on first use.
func openSections(env *state.LocalEnv) (*store.Adapter, error) {
	if env.Records == nil {
		records, err := store.Open(&env.Cfg.Store, env.Log)
		if err != nil {
			return nil, fmt.Errorf("unable to open record store: %w", err)
		}
		env.Records = records
		env.OnClose(func() error {
			env.Records = nil
			return records.Close()
		})
	}
	return store.NewAdapter(env.Records, env.Log), nil
}

// openAssets returns configured asset storage.
func openAssets(env *state.LocalEnv) (*objects.Assets, error) {
	assets, _, err := objects.Open(&env.Cfg.Objects, env.Log.Named("objects"))
	if err != nil {
		return nil, fmt.Errorf("unable to open asset storage: %w", err)
	}
	return assets, nil
}

// chapterArg returns chapter identifier expected as the first argument.
func chapterArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().Get(0)
	if len(id) == 0 {
		return "", errors.New("no chapter has been specified")
	}
	return id, nil
}

// createOutput opens destination file refusing to replace existing one
// unless overwrite was requested.
func createOutput(env *state.LocalEnv, name string) (*os.File, error) {
	if _, err := os.Stat(name); err == nil {
		if !env.Overwrite {
			return nil, fmt.Errorf("output file already exists: %s", name)
		}
		env.Log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return nil, err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	return os.Create(name)
}

// withOutput calls fn with destination file, or with stdout when name is
// empty.
func withOutput(env *state.LocalEnv, name string, fn func(w io.Writer) error) (err error) {
	if len(name) == 0 {
		return fn(os.Stdout)
	}
	out, err := createOutput(env, name)
	if err != nil {
		return err
	}
	defer func() {
		if er := out.Close(); er != nil && err == nil {
			err = fmt.Errorf("unable to finalize output file: %w", er)
		}
	}()
	return fn(out)
}

type sessionCloser interface {
	Close(ctx context.Context) error
}

// closeSession ends editing session, its failure is added to *err.
func closeSession(ctx context.Context, session sessionCloser, err *error) {
	if er := session.Close(ctx); er != nil {
		*err = multierr.Append(*err, fmt.Errorf("unable to close editing session: %w", er))
	}
}

// newChapter persists chapter placed after all chapters of the same
// grouping.
func newChapter(ctx context.Context, sections *store.Adapter, title, grouping, subgrouping string) (*chapter.Chapter, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return nil, errors.New("chapter title is empty")
	}
	existing, err := sections.Records().Chapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list chapters: %w", err)
	}
	pos := 0
	for _, c := range existing {
		if c.GroupingID == grouping && c.Position >= pos {
			pos = c.Position + 1
		}
	}
	ch := &chapter.Chapter{
		ID:            sections.NewID(),
		GroupingID:    grouping,
		SubgroupingID: subgrouping,
		Title:         title,
		Position:      pos,
	}
	if err := sections.Records().InsertChapter(ctx, ch); err != nil {
		return nil, fmt.Errorf("unable to create chapter %q: %w", title, err)
	}
	return ch, nil
}
