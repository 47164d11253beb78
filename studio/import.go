package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterdoc/archive"
	"chapterdoc/chapter"
	"chapterdoc/state"
	"chapterdoc/store"
)

// largest chapter source accepted
const maxSourceSize = 8 << 20

// Import creates chapters from markdown or HTML files. Source could be a
// single file, directory or zip archive with optional path inside it.
func Import(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	sections, err := openSections(env)
	if err != nil {
		return err
	}
	imp := &importer{
		sections:    sections,
		grouping:    cmd.String("grouping"),
		subgrouping: cmd.String("subgrouping"),
		log:         log,
	}

	log.Info("Import starting", zap.String("source", src))
	defer func(start time.Time) {
		log.Info("Import completed", zap.Duration("elapsed", time.Since(start)), zap.Int("chapters", len(imp.created)))
	}(time.Now())

	return imp.process(ctx, src)
}

type importer struct {
	sections    *store.Adapter
	grouping    string
	subgrouping string
	log         *zap.Logger

	created []string
}

// process determines whether source is a directory, an archive (possibly
// with path inside it) or a single file.
func (imp *importer) process(ctx context.Context, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return imp.processDir(ctx, head)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := imp.processArchive(ctx, head, inner); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) == 0 && isChapterSource(head) {
			data, err := os.ReadFile(head)
			if err != nil {
				return err
			}
			return imp.importChapter(ctx, filepath.Base(head), data)
		}
		return fmt.Errorf("input was not recognized as chapter source (%s)", head)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir imports every chapter source under directory, archives are
// looked into. Failures of single files are logged and skipped.
func (imp *importer) processDir(ctx context.Context, dir string) error {
	count := 0
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			imp.log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		isArchive, err := isArchiveFile(p)
		if err != nil {
			imp.log.Warn("Skipping file", zap.String("file", p), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := imp.processArchive(ctx, p, ""); err != nil {
				imp.log.Error("Unable to process archive", zap.String("file", p), zap.Error(err))
			}
			return nil
		}
		if !isChapterSource(p) {
			imp.log.Debug("Skipping file, not recognized as chapter source", zap.String("file", p))
			return nil
		}

		count++
		data, err := os.ReadFile(p)
		if err == nil {
			err = imp.importChapter(ctx, filepath.Base(p), data)
		}
		if err != nil {
			imp.log.Error("Unable to import file", zap.String("file", p), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		imp.log.Debug("Nothing to import", zap.String("dir", dir))
	}
	return err
}

func (imp *importer) processArchive(ctx context.Context, name, inner string) error {
	count := 0
	err := archive.Walk(name, inner, func(e *archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isChapterSource(e.Name) {
			imp.log.Debug("Skipping file, not recognized as chapter source", zap.String("archive", name), zap.String("file", e.Name))
			return nil
		}

		count++
		data, err := e.ReadAll(maxSourceSize)
		if err == nil {
			err = imp.importChapter(ctx, path.Base(e.Name), data)
		}
		if err != nil {
			imp.log.Error("Unable to import file in archive", zap.String("archive", name), zap.String("file", e.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		imp.log.Debug("Nothing to import", zap.String("archive", name))
	}
	return err
}

// importChapter creates chapter with single text section.
func (imp *importer) importChapter(ctx context.Context, name string, data []byte) error {
	if len(data) > maxSourceSize {
		return fmt.Errorf("source %s is too large (%d bytes)", name, len(data))
	}

	var (
		content string
		err     error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		if content, err = chapter.FromMarkdown(data); err != nil {
			return fmt.Errorf("unable to convert markdown: %w", err)
		}
	default:
		content = chapter.Sanitize(string(data))
	}

	ch, err := newChapter(ctx, imp.sections, titleOf(name, data), imp.grouping, imp.subgrouping)
	if err != nil {
		return err
	}
	s, err := imp.sections.CreateSection(ctx, ch.ID, chapter.SectionKindText, strings.TrimSpace(content), "")
	if err != nil {
		return fmt.Errorf("unable to create section of chapter %s: %w", ch.ID, err)
	}
	imp.created = append(imp.created, ch.ID)
	imp.log.Info("Chapter imported", zap.String("from", name), zap.String("chapter", ch.ID), zap.String("title", ch.Title), zap.String("section", s.ID))
	return nil
}

// titleOf takes title from the first markdown heading, falls back to file
// name.
func titleOf(name string, data []byte) string {
	if ext := strings.ToLower(path.Ext(name)); ext == ".md" || ext == ".markdown" {
		for line := range bytes.Lines(data) {
			line = bytes.TrimSpace(line)
			if rest, ok := bytes.CutPrefix(line, []byte("#")); ok {
				if title := strings.TrimSpace(strings.TrimLeft(string(rest), "#")); len(title) > 0 {
					return title
				}
			}
		}
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

func isChapterSource(name string) bool {
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".md", ".markdown", ".html", ".htm":
		return true
	}
	return false
}

func isArchiveFile(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		// empty file is not an archive
		return false, nil
	}
	return filetype.Is(head[:n], "zip"), nil
}
