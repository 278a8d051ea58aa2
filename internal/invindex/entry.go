// Package invindex implements the inverted-index binary format, the
// in-memory builder that produces it, and the external streaming merge
// that combines two index files without loading either fully.
package invindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/devancy/adsidx/internal/indexerr"
)

// Entry is the posting list for one term: a total occurrence count across
// the corpus, and the strictly ascending, duplicate-free set of DocIds it
// occurs in. Freq >= len(Docs) always; equality holds iff the term never
// occurs more than once in any single document.
type Entry struct {
	Freq uint32
	Docs []uint32
}

// WriteEntry emits a single (term, Entry) record in the fixed binary
// layout: u32 term_len, term bytes, u32 freq, u32 doc_count, u32
// docs[doc_count], all little-endian with no padding. A zero-length term
// is refused.
func WriteEntry(w io.Writer, term string, e Entry) error {
	if len(term) == 0 {
		return errors.New("invindex: refusing to write a zero-length term")
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(term))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, term); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.Freq); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Docs))); err != nil {
		return err
	}
	if len(e.Docs) == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, e.Docs)
}

// ReadEntry reads one (term, Entry) record. It returns ok=false, err=nil
// on a clean EOF at the term_len field; any other short read is reported
// as indexerr.ErrCorruptEntry.
func ReadEntry(r io.Reader) (term string, e Entry, ok bool, err error) {
	var termLen uint32
	if err := binary.Read(r, binary.LittleEndian, &termLen); err != nil {
		if err == io.EOF {
			return "", Entry{}, false, nil
		}
		return "", Entry{}, false, fmt.Errorf("%w: reading term length: %v", indexerr.ErrCorruptEntry, err)
	}

	termBytes := make([]byte, termLen)
	if _, err := io.ReadFull(r, termBytes); err != nil {
		return "", Entry{}, false, fmt.Errorf("%w: reading term bytes: %v", indexerr.ErrCorruptEntry, err)
	}

	var freq uint32
	if err := binary.Read(r, binary.LittleEndian, &freq); err != nil {
		return "", Entry{}, false, fmt.Errorf("%w: reading freq: %v", indexerr.ErrCorruptEntry, err)
	}

	var docCount uint32
	if err := binary.Read(r, binary.LittleEndian, &docCount); err != nil {
		return "", Entry{}, false, fmt.Errorf("%w: reading doc count: %v", indexerr.ErrCorruptEntry, err)
	}

	docs := make([]uint32, docCount)
	if docCount > 0 {
		if err := binary.Read(r, binary.LittleEndian, docs); err != nil {
			return "", Entry{}, false, fmt.Errorf("%w: reading docs: %v", indexerr.ErrCorruptEntry, err)
		}
	}

	return string(termBytes), Entry{Freq: freq, Docs: docs}, true, nil
}
