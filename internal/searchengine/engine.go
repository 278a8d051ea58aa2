// Package searchengine evaluates free-text queries against a previously
// constructed index directory: per-term offset lookup, sort-by-frequency,
// threshold-based term drop, and sorted-list intersection.
package searchengine

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devancy/adsidx/internal/indexerr"
	"github.com/devancy/adsidx/internal/invindex"
	"github.com/devancy/adsidx/internal/layout"
	"github.com/devancy/adsidx/internal/ordset"
	"github.com/devancy/adsidx/internal/textproc"
)

// SearchReport carries the notices a query evaluation produces — stop
// words dropped and terms pruned by the threshold, in the order they
// would have been written to an output stream — alongside the final
// sorted document paths.
type SearchReport struct {
	Notices []string
	Paths   []string
}

// Engine answers queries against a constructed index directory. Posting
// lists are not cached: every query re-reads them from disk.
type Engine struct {
	dir        string
	indexPath  string
	fileList   []string
	stopFilter *textproc.StopFilter
	offsets    map[string]int64
}

// New opens dir's index directory: the file list, an optional stop-word
// snapshot, and a single scan of the index file that records each term's
// byte offset (the entry body is read and discarded during this pass).
func New(dir string) (*Engine, error) {
	base := filepath.Join(dir, layout.BaseDir)
	indexPath := filepath.Join(base, layout.IndexFileName)

	fileList, err := readFileList(filepath.Join(base, layout.ListFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", indexerr.ErrMissingIndex, dir)
		}
		return nil, err
	}

	var stopFilter *textproc.StopFilter
	if _, statErr := os.Stat(filepath.Join(base, layout.StopFileName)); statErr == nil {
		stopFilter, err = textproc.LoadStopFilter(filepath.Join(base, layout.StopFileName))
		if err != nil {
			return nil, err
		}
	}

	offsets, err := buildOffsets(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", indexerr.ErrMissingIndex, dir)
		}
		return nil, err
	}

	return &Engine{
		dir:        dir,
		indexPath:  indexPath,
		fileList:   fileList,
		stopFilter: stopFilter,
		offsets:    offsets,
	}, nil
}

func readFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			files = append(files, line)
		}
	}
	return files, sc.Err()
}

func buildOffsets(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var n uint32
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: reading entry count: %v", indexerr.ErrCorruptEntry, err)
	}

	offsets := make(map[string]int64, n)
	for i := uint32(0); i < n; i++ {
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		term, _, ok, err := invindex.ReadEntry(f)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: index truncated after %d of %d entries", indexerr.ErrCorruptEntry, i, n)
		}
		offsets[term] = pos
	}
	return offsets, nil
}

type termHit struct {
	token string
	entry invindex.Entry
}

// Search tokenizes and stems query exactly as indexing did, looks up
// each surviving term's posting list, sorts the results by ascending
// frequency, keeps only the floor(n*threshold)+1 most selective terms,
// and intersects what remains.
func (e *Engine) Search(query string, threshold float64) (SearchReport, error) {
	var report SearchReport

	ts := textproc.NewTokenStream(strings.NewReader(query))
	var hits []termHit
	for {
		token, ok := ts.Next()
		if !ok {
			break
		}
		if e.stopFilter != nil && e.stopFilter.IsStop(token) {
			report.Notices = append(report.Notices, fmt.Sprintf("Stop word %q is ignored.", token))
			continue
		}

		entry, err := e.lookup(token)
		if err != nil {
			return report, err
		}
		hits = append(hits, termHit{token: token, entry: entry})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].entry.Freq < hits[j].entry.Freq
	})

	k := int(float64(len(hits)) * threshold)
	var result []uint32
	haveResult := false
	for i, hit := range hits {
		if i > k {
			report.Notices = append(report.Notices, fmt.Sprintf("%q is ignored due to threshold.", hit.token))
			continue
		}
		if !haveResult {
			result = hit.entry.Docs
			haveResult = true
		} else {
			result = ordset.Intersect(result, hit.entry.Docs)
		}
	}

	if !haveResult || len(result) == 0 {
		report.Notices = append(report.Notices, "No results found.")
		return report, nil
	}

	report.Paths = make([]string, 0, len(result))
	for _, docID := range result {
		if int(docID) < len(e.fileList) {
			report.Paths = append(report.Paths, e.fileList[docID])
		}
	}
	return report, nil
}

// lookup returns the Entry recorded for token, or a zero Entry if it was
// never indexed. A fresh file handle is opened per lookup, matching the
// "posting lists are not cached" contract.
func (e *Engine) lookup(token string) (invindex.Entry, error) {
	offset, ok := e.offsets[token]
	if !ok {
		return invindex.Entry{}, nil
	}

	f, err := os.Open(e.indexPath)
	if err != nil {
		return invindex.Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return invindex.Entry{}, err
	}
	if offset >= info.Size() {
		return invindex.Entry{}, fmt.Errorf("%w: term %q at offset %d", indexerr.ErrOffsetRange, token, offset)
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return invindex.Entry{}, err
	}

	_, entry, ok, err := invindex.ReadEntry(f)
	if err != nil {
		return invindex.Entry{}, err
	}
	if !ok {
		return invindex.Entry{}, fmt.Errorf("%w: term %q at offset %d", indexerr.ErrOffsetRange, token, offset)
	}
	return entry, nil
}
