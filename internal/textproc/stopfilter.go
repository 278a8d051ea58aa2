package textproc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

// StopFilter rejects tokens that are either shorter than three bytes or
// present in its word set. A nil *StopFilter means "no filter was
// configured"; callers check for nil themselves rather than relying on
// IsStop, since the short-token rule only applies once a filter exists
// (this mirrors the original engine's `filter && filter->is_stop(token)`
// short-circuit — an absent filter lets short tokens through).
type StopFilter struct {
	words map[string]struct{}
}

// LoadStopFilter reads whitespace-separated words from the file at path.
func LoadStopFilter(path string) (*StopFilter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStopFilter(f)
}

// ReadStopFilter reads whitespace-separated words from r into a new filter.
func ReadStopFilter(r io.Reader) (*StopFilter, error) {
	sf := &StopFilter{words: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if w := sc.Text(); w != "" {
			sf.words[w] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	return sf, nil
}

// NewStopFilter builds a filter directly from a word list, useful for
// tests and for constructing an empty (but non-nil) filter.
func NewStopFilter(words ...string) *StopFilter {
	sf := &StopFilter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		sf.words[w] = struct{}{}
	}
	return sf
}

// IsStop reports whether word should be excluded: true iff it is shorter
// than three bytes or is present in the loaded set.
func (sf *StopFilter) IsStop(word string) bool {
	if len(word) < 3 {
		return true
	}
	_, ok := sf.words[word]
	return ok
}

// WriteTo snapshots the stop-word set, whitespace-separated, one word per
// line, in sorted order so the snapshot is reproducible.
func (sf *StopFilter) WriteTo(w io.Writer) (int64, error) {
	sorted := make([]string, 0, len(sf.words))
	for word := range sf.words {
		sorted = append(sorted, word)
	}
	sort.Strings(sorted)

	bw := bufio.NewWriter(w)
	var n int64
	for _, word := range sorted {
		written, err := fmt.Fprintln(bw, word)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, nil
}
