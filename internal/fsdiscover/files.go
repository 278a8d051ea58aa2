// Package fsdiscover finds the documents to index under a root directory.
package fsdiscover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devancy/adsidx/internal/indexerr"
)

// Walk returns every regular file under root (recursively) whose extension
// equals ext (e.g. ".html"), as paths relative to root. Order follows
// filepath.WalkDir's lexical traversal: deterministic per filesystem, as
// the DocId assignment in the rest of the system requires, though not
// guaranteed stable across filesystems or operating systems.
func Walk(root string, ext string) ([]string, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", indexerr.ErrMissingDir, root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}
