package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"chapterdoc/chapter"
)

const schema = `
CREATE TABLE IF NOT EXISTS chapters (
	id             TEXT PRIMARY KEY,
	grouping_id    TEXT NOT NULL DEFAULT '',
	subgrouping_id TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL DEFAULT '',
	position       INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sections (
	id             TEXT PRIMARY KEY,
	chapter_id     TEXT NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
	section_number INTEGER NOT NULL,
	type           TEXT NOT NULL CHECK (type IN ('text', 'image')),
	content        TEXT,
	image_url      TEXT,
	UNIQUE (chapter_id, section_number)
);
CREATE INDEX IF NOT EXISTS sections_by_chapter ON sections (chapter_id, section_number);
`

const sectionColumns = `id, chapter_id, section_number, type, content, image_url`

// SQLite keeps records in a single SQLite database file.
type SQLite struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// OpenSQLite opens (creating if necessary) database and brings its schema up
// to date. Empty path or ":memory:" opens private in-memory database.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	var (
		conn *sqlite.Conn
		err  error
	)
	if len(path) == 0 || path == ":memory:" {
		conn, err = sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenMemory)
	} else {
		conn, err = sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open database '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to enable foreign keys: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare database schema: %w", err)
	}
	log.Debug("Database opened", zap.String("path", path))
	return &SQLite{conn: conn, log: log}, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// lock serializes access to the connection and makes pending statements
// interruptible by context.
func (s *SQLite) lock(ctx context.Context) func() {
	s.mu.Lock()
	old := s.conn.SetInterrupt(ctx.Done())
	return func() {
		s.conn.SetInterrupt(old)
		s.mu.Unlock()
	}
}

func nullable(v string) any {
	if len(v) == 0 {
		return nil
	}
	return v
}

func scanSection(stmt *sqlite.Stmt) (chapter.Section, error) {
	kind, err := chapter.ParseSectionKind(stmt.ColumnText(3))
	if err != nil {
		return chapter.Section{}, err
	}
	return chapter.Section{
		ID:        stmt.ColumnText(0),
		ChapterID: stmt.ColumnText(1),
		Number:    int(stmt.ColumnInt64(2)),
		Kind:      kind,
		Content:   stmt.ColumnText(4),
		ImageURL:  stmt.ColumnText(5),
	}, nil
}

func scanChapter(stmt *sqlite.Stmt) chapter.Chapter {
	return chapter.Chapter{
		ID:            stmt.ColumnText(0),
		GroupingID:    stmt.ColumnText(1),
		SubgroupingID: stmt.ColumnText(2),
		Title:         stmt.ColumnText(3),
		Position:      int(stmt.ColumnInt64(4)),
	}
}

func (s *SQLite) Chapter(ctx context.Context, id string) (*chapter.Chapter, error) {
	defer s.lock(ctx)()

	var res *chapter.Chapter
	err := sqlitex.Execute(s.conn, `SELECT id, grouping_id, subgrouping_id, title, position FROM chapters WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				c := scanChapter(stmt)
				res = &c
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read chapter %s: %w", id, err)
	}
	if res == nil {
		return nil, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
	}
	return res, nil
}

func (s *SQLite) Chapters(ctx context.Context) ([]chapter.Chapter, error) {
	defer s.lock(ctx)()

	var res []chapter.Chapter
	err := sqlitex.Execute(s.conn, `SELECT id, grouping_id, subgrouping_id, title, position FROM chapters ORDER BY position, id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				res = append(res, scanChapter(stmt))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to list chapters: %w", err)
	}
	return res, nil
}

func (s *SQLite) InsertChapter(ctx context.Context, c *chapter.Chapter) error {
	defer s.lock(ctx)()

	err := sqlitex.Execute(s.conn, `INSERT INTO chapters (id, grouping_id, subgrouping_id, title, position) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{c.ID, c.GroupingID, c.SubgroupingID, c.Title, c.Position}})
	if err != nil {
		return fmt.Errorf("unable to insert chapter %s: %w", c.ID, classify(err))
	}
	return nil
}

func (s *SQLite) sectionsOf(chapterID string) ([]chapter.Section, error) {
	var res []chapter.Section
	err := sqlitex.Execute(s.conn, `SELECT `+sectionColumns+` FROM sections WHERE chapter_id = ? ORDER BY section_number`,
		&sqlitex.ExecOptions{
			Args: []any{chapterID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				sec, err := scanSection(stmt)
				if err != nil {
					return err
				}
				res = append(res, sec)
				return nil
			},
		})
	return res, err
}

func (s *SQLite) SectionsByChapter(ctx context.Context, chapterID string) ([]chapter.Section, error) {
	defer s.lock(ctx)()

	res, err := s.sectionsOf(chapterID)
	if err != nil {
		return nil, fmt.Errorf("unable to read sections of chapter %s: %w", chapterID, err)
	}
	return res, nil
}

func (s *SQLite) insert(sec *chapter.Section) error {
	var found bool
	err := sqlitex.Execute(s.conn, `SELECT 1 FROM chapters WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{sec.ChapterID},
			ResultFunc: func(*sqlite.Stmt) error {
				found = true
				return nil
			},
		})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("chapter %s: %w", sec.ChapterID, ErrNotFound)
	}
	err = sqlitex.Execute(s.conn, `INSERT INTO sections (`+sectionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{sec.ID, sec.ChapterID, sec.Number, sec.Kind.String(), nullable(sec.Content), nullable(sec.ImageURL)}})
	return classify(err)
}

func (s *SQLite) InsertSection(ctx context.Context, sec *chapter.Section) error {
	defer s.lock(ctx)()

	if err := s.insert(sec); err != nil {
		return fmt.Errorf("unable to insert section %s: %w", sec.ID, err)
	}
	return nil
}

func (s *SQLite) InsertSectionIfEmpty(ctx context.Context, sec *chapter.Section) (inserted bool, err error) {
	defer s.lock(ctx)()
	defer sqlitex.Save(s.conn)(&err)

	var count int64
	err = sqlitex.Execute(s.conn, `SELECT count(*) FROM sections WHERE chapter_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{sec.ChapterID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("unable to count sections of chapter %s: %w", sec.ChapterID, err)
	}
	if count > 0 {
		return false, nil
	}
	if err = s.insert(sec); err != nil {
		return false, fmt.Errorf("unable to insert section %s: %w", sec.ID, err)
	}
	return true, nil
}

func (s *SQLite) updateColumn(column, id, value string) error {
	err := sqlitex.Execute(s.conn, `UPDATE sections SET `+column+` = ? WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{nullable(value), id}})
	if err != nil {
		return err
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) UpdateSectionContent(ctx context.Context, id, content string) error {
	defer s.lock(ctx)()

	if err := s.updateColumn("content", id, content); err != nil {
		return fmt.Errorf("unable to update section %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) UpdateSectionImage(ctx context.Context, id, url string) error {
	defer s.lock(ctx)()

	if err := s.updateColumn("image_url", id, url); err != nil {
		return fmt.Errorf("unable to update section %s: %w", id, err)
	}
	return nil
}

// UpdateContents applies all updates inside single savepoint.
func (s *SQLite) UpdateContents(ctx context.Context, updates []ContentUpdate) (err error) {
	defer s.lock(ctx)()
	defer sqlitex.Save(s.conn)(&err)

	for _, u := range updates {
		if err = s.updateColumn("content", u.SectionID, u.Content); err != nil {
			return fmt.Errorf("unable to update section %s: %w", u.SectionID, err)
		}
	}
	return nil
}

func (s *SQLite) NextSectionNumber(ctx context.Context, chapterID string) (int, error) {
	defer s.lock(ctx)()

	var next int
	err := sqlitex.Execute(s.conn, `SELECT coalesce(max(section_number) + 1, 0) FROM sections WHERE chapter_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{chapterID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				next = int(stmt.ColumnInt64(0))
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("unable to get next section number for chapter %s: %w", chapterID, err)
	}
	return next, nil
}

// classify maps constraint violations to package errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch sqlite.ErrCode(err) {
	case sqlite.ResultConstraintPrimaryKey, sqlite.ResultConstraintUnique:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
