// Package construct orchestrates the two ways to build an index: the
// simple in-memory path (GenIndex) and the external-memory merge-tree
// path (GenIndexLarge) that keeps peak memory independent of corpus size.
package construct

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devancy/adsidx/internal/fsdiscover"
	"github.com/devancy/adsidx/internal/indexerr"
	"github.com/devancy/adsidx/internal/invindex"
	"github.com/devancy/adsidx/internal/layout"
	"github.com/devancy/adsidx/internal/textproc"
)

// Logger is the minimal logging surface the construction driver needs to
// report skipped files and merge progress; *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// GenIndex builds an index for every ".html" file under dir entirely in
// memory: one builder, one AddFile per document, one Serialize call.
func GenIndex(dir string, filter *textproc.StopFilter, logger Logger) error {
	if logger == nil {
		logger = nopLogger{}
	}

	base, files, err := prepareBaseDir(dir, filter)
	if err != nil {
		return err
	}

	builder := invindex.NewBuilder()
	for i, rel := range files {
		full := filepath.Join(dir, rel)
		if err := builder.AddFile(full, uint32(i), filter); err != nil {
			logger.Printf("skipping unreadable file %s: %v", full, err)
		}
	}

	return serializeBuilder(builder, filepath.Join(base, layout.IndexFileName))
}

// GenIndexLarge builds the same logical index as GenIndex, but through
// one partial index per document combined pairwise by a balanced-binary
// merge tree, so resident memory is O(single-document builder) plus
// O(1) during merges, independent of corpus size.
func GenIndexLarge(dir string, filter *textproc.StopFilter, logger Logger) error {
	if logger == nil {
		logger = nopLogger{}
	}

	base, files, err := prepareBaseDir(dir, filter)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return serializeBuilder(invindex.NewBuilder(), filepath.Join(base, layout.IndexFileName))
	}

	for i, rel := range files {
		full := filepath.Join(dir, rel)
		builder := invindex.NewBuilder()
		if err := builder.AddFile(full, uint32(i), filter); err != nil {
			logger.Printf("skipping unreadable file %s: %v", full, err)
		}
		partPath := filepath.Join(base, layout.PartialName(uint32(i), uint32(i)))
		if err := serializeBuilder(builder, partPath); err != nil {
			return err
		}
	}

	last := uint32(len(files) - 1)
	if err := mergeTree(base, 0, last, logger); err != nil {
		return err
	}

	rootPart := filepath.Join(base, layout.PartialName(0, last))
	return os.Rename(rootPart, filepath.Join(base, layout.IndexFileName))
}

// mergeTree implements the recursive balanced-binary merge schedule:
// merge(l, m) and merge(m+1, r) first, then combine their outputs into
// [l, r], deleting both inputs the instant that combine completes.
func mergeTree(base string, l, r uint32, logger Logger) error {
	if l == r {
		return nil
	}
	m := (l + r) / 2
	if err := mergeTree(base, l, m, logger); err != nil {
		return err
	}
	if err := mergeTree(base, m+1, r, logger); err != nil {
		return err
	}

	left := filepath.Join(base, layout.PartialName(l, m))
	right := filepath.Join(base, layout.PartialName(m+1, r))
	out := filepath.Join(base, layout.PartialName(l, r))

	logger.Printf("merging %s and %s into %s", filepath.Base(left), filepath.Base(right), filepath.Base(out))
	if err := invindex.MergeFiles(left, right, out); err != nil {
		return err
	}
	if err := os.Remove(left); err != nil {
		return err
	}
	return os.Remove(right)
}

// prepareBaseDir validates dir, discovers its ".html" files, creates the
// hidden base directory, writes the file-list file, and — whenever a
// stop filter was supplied, regardless of construction mode — snapshots
// it. It returns the base directory path and the discovered files
// (relative to dir, in DocId order).
func prepareBaseDir(dir string, filter *textproc.StopFilter) (base string, files []string, err error) {
	info, statErr := os.Stat(dir)
	if statErr != nil || !info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s", indexerr.ErrMissingDir, dir)
	}

	files, err = fsdiscover.Walk(dir, ".html")
	if err != nil {
		return "", nil, err
	}

	base = filepath.Join(dir, layout.BaseDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", nil, err
	}

	if err := writeListFile(filepath.Join(base, layout.ListFileName), files); err != nil {
		return "", nil, err
	}

	if filter != nil {
		if err := writeStopSnapshot(filepath.Join(base, layout.StopFileName), filter); err != nil {
			return "", nil, err
		}
	}

	return base, files, nil
}

func writeListFile(path string, files []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, rel := range files {
		if _, err := fmt.Fprintln(f, rel); err != nil {
			return err
		}
	}
	return nil
}

func writeStopSnapshot(path string, filter *textproc.StopFilter) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = filter.WriteTo(f)
	return err
}

func serializeBuilder(b *invindex.Builder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Serialize(f)
}
