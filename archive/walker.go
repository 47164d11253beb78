// Package archive reads chapter sources from zip archives and writes preview
// bundles.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// Entry is a regular file found in archive.
type Entry struct {
	// Archive is the path of archive passed to Walk.
	Archive string
	// Name is the slash separated path inside archive.
	Name string
	// NonUTF8 is set when archive does not declare name encoding.
	NonUTF8 bool
	Size    uint64

	file *zip.File
}

// Open returns reader for entry content.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.file.Open()
}

// ReadAll returns complete entry content refusing anything larger than
// limit bytes.
func (e *Entry) ReadAll(limit int64) ([]byte, error) {
	if limit > 0 && e.Size > uint64(limit) {
		return nil, fmt.Errorf("entry %s is too large (%d bytes)", e.Name, e.Size)
	}
	r, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WalkFunc is called for each entry visited by Walk. If an error is
// returned, processing stops.
type WalkFunc func(entry *Entry) error

// Walk visits regular files under prefix in archive in stored order.
// Whole archive is rejected when any entry name is absolute or escapes the
// archive root.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	prefix = strings.TrimPrefix(path.Clean("/"+prefix), "/")
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !under(f.Name, prefix) {
			continue
		}
		e := &Entry{Archive: archive, Name: f.Name, NonUTF8: f.NonUTF8, Size: f.UncompressedSize64, file: f}
		if err := walkFn(e); err != nil {
			return err
		}
	}
	return nil
}

// under reports whether name is prefix itself or lies in prefix directory.
func under(name, prefix string) bool {
	if len(prefix) == 0 || name == prefix {
		return true
	}
	return strings.HasPrefix(name, prefix+"/")
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}
