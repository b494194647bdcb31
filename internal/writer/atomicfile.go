package writer

import (
	"os"
	"path/filepath"

	"github.com/scigolib/gbf/internal/gbferr"
)

// WriteAtomic writes data to path by first writing to a sibling temp file
// in the same directory and then renaming it into place, so a crash or
// concurrent reader never observes a partially-written file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gbf-tmp-*")
	if err != nil {
		return gbferr.Wrap(gbferr.KindIO, "create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return gbferr.Wrap(gbferr.KindIO, "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return gbferr.Wrap(gbferr.KindIO, "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return gbferr.Wrap(gbferr.KindIO, "close temp file", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return gbferr.Wrap(gbferr.KindIO, "chmod temp file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return gbferr.Wrap(gbferr.KindIO, "rename temp file into place", err)
	}
	return nil
}
