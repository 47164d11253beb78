package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
)

// Bundle is zip archive written next to its destination and moved into
// place on Close, so destination never holds partially written archive.
type Bundle struct {
	dst   string
	fix   bool
	tmp   *os.File
	zw    *zip.Writer
	names map[string]bool
}

// Create starts new bundle. When fix is set data descriptors are stripped
// from the final archive, some readers do not handle them.
func Create(dst string, fix bool) (*Bundle, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bundle-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create output file: %w", err)
	}
	return &Bundle{dst: dst, fix: fix, tmp: tmp, zw: zip.NewWriter(tmp), names: make(map[string]bool)}, nil
}

// Add writes single file into bundle.
func (b *Bundle) Add(name string, data []byte) error {
	if !isSafePath(name) {
		return fmt.Errorf("bundle entry %q: unsafe path", name)
	}
	if b.names[name] {
		return fmt.Errorf("bundle entry %q: already written", name)
	}
	b.names[name] = true

	w, err := b.zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Close finalizes archive and moves it to destination.
func (b *Bundle) Close() (err error) {
	tmpName := b.tmp.Name()
	defer os.Remove(tmpName)

	// make sure buffers are flushed before continuing
	if err := b.zw.Close(); err != nil {
		return multierr.Append(fmt.Errorf("unable to close output archive: %w", err), b.tmp.Close())
	}
	if err := b.tmp.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	if b.fix {
		return copyWithoutDataDescriptors(tmpName, b.dst)
	}
	return os.Rename(tmpName, b.dst)
}

// Abort drops everything written so far.
func (b *Bundle) Abort() error {
	err := multierr.Append(b.zw.Close(), b.tmp.Close())
	if er := os.Remove(b.tmp.Name()); er != nil && !errors.Is(er, os.ErrNotExist) {
		err = multierr.Append(err, er)
	}
	return err
}

func copyWithoutDataDescriptors(from, to string) (err error) {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return multierr.Append(fmt.Errorf("unable to write target file (%s): %w", to, err), w.Close())
		}
	}
	return w.Close()
}
