package invindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/devancy/adsidx/internal/fsdiscover"
	"github.com/devancy/adsidx/internal/textproc"
)

// Builder accumulates a term -> *Entry mapping from a document stream in
// memory and emits a fully sorted, serialized index. It owns its mapping
// exclusively; nothing else may mutate it between AddFile calls.
type Builder struct {
	entries map[string]*Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]*Entry)}
}

// AddFile consumes path's token stream, folding each surviving term into
// the builder under docID. DocIds must be added in ascending order across
// a sequence of AddFile calls; the builder never re-sorts them.
func (b *Builder) AddFile(path string, docID uint32, filter *textproc.StopFilter) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ts := textproc.NewTokenStream(f)
	for {
		term, ok := ts.Next()
		if !ok {
			break
		}
		if filter != nil && filter.IsStop(term) {
			continue
		}

		entry := b.entries[term]
		if entry == nil {
			entry = &Entry{}
			b.entries[term] = entry
		}
		if len(entry.Docs) == 0 || entry.Docs[len(entry.Docs)-1] != docID {
			entry.Docs = append(entry.Docs, docID)
		}
		entry.Freq++
	}
	return nil
}

// AddDir discovers ".html" files under dir, assigns consecutive DocIds
// starting at idStart in discovery order, and indexes each in turn. A
// file that fails to open is reported to onSkip (if non-nil) and
// skipped — its DocId is still consumed, leaving a hole rather than a
// shift in later DocIds. It returns the next unused DocId and the
// discovered file list (paths relative to dir, in DocId order).
func (b *Builder) AddDir(dir string, idStart uint32, filter *textproc.StopFilter, onSkip func(path string, err error)) (nextID uint32, files []string, err error) {
	files, err = fsdiscover.Walk(dir, ".html")
	if err != nil {
		return idStart, nil, err
	}
	for i, rel := range files {
		docID := idStart + uint32(i)
		full := filepath.Join(dir, rel)
		if err := b.AddFile(full, docID, filter); err != nil && onSkip != nil {
			onSkip(full, err)
		}
	}
	return idStart + uint32(len(files)), files, nil
}

// Clear drops all accumulated state so the builder can be reused.
func (b *Builder) Clear() {
	b.entries = make(map[string]*Entry)
}

// Serialize writes the index envelope: a u32 entry count followed by each
// (term, Entry) record in strictly ascending term order, regardless of
// the underlying map's iteration order.
func (b *Builder) Serialize(w io.Writer) error {
	terms := make([]string, 0, len(b.entries))
	for term := range b.entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if err := binary.Write(w, binary.LittleEndian, uint32(len(terms))); err != nil {
		return err
	}
	for _, term := range terms {
		if err := WriteEntry(w, term, *b.entries[term]); err != nil {
			return fmt.Errorf("writing entry %q: %w", term, err)
		}
	}
	return nil
}
