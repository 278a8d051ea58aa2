package invindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/devancy/adsidx/internal/ordset"
)

// MergeEntries combines two entries known to share a term: Freq is a
// pure sum, even when the document sets overlap; Docs is the ascending
// set-union, inserting any shared DocId exactly once.
func MergeEntries(a, b Entry) Entry {
	return Entry{
		Freq: a.Freq + b.Freq,
		Docs: ordset.Union(a.Docs, b.Docs),
	}
}

// MergeFiles reads two well-formed, term-sorted index files and writes
// their deep merge to pathOut: the classic two-pointer streaming merge,
// holding at most one entry from each input in memory at a time. This is
// what lets the external construction driver index corpora far larger
// than available memory.
func MergeFiles(pathA, pathB, pathOut string) error {
	fa, err := os.Open(pathA)
	if err != nil {
		return err
	}
	defer fa.Close()

	fb, err := os.Open(pathB)
	if err != nil {
		return err
	}
	defer fb.Close()

	fout, err := os.Create(pathOut)
	if err != nil {
		return err
	}
	defer fout.Close()

	return mergeStreams(fa, fb, fout)
}

func mergeStreams(a, b io.Reader, out *os.File) error {
	var remA, remB uint32
	if err := binary.Read(a, binary.LittleEndian, &remA); err != nil {
		return fmt.Errorf("reading left entry count: %w", err)
	}
	if err := binary.Read(b, binary.LittleEndian, &remB); err != nil {
		return fmt.Errorf("reading right entry count: %w", err)
	}

	var termA, termB string
	var entryA, entryB Entry
	var err error
	if remA > 0 {
		if termA, entryA, _, err = ReadEntry(a); err != nil {
			return err
		}
	}
	if remB > 0 {
		if termB, entryB, _, err = ReadEntry(b); err != nil {
			return err
		}
	}

	headerPos, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}

	var merged uint32
	for remA > 0 || remB > 0 {
		switch {
		case remA > 0 && (remB == 0 || termA < termB):
			if err := WriteEntry(out, termA, entryA); err != nil {
				return err
			}
			merged++
			remA--
			if termA, entryA, _, err = ReadEntry(a); err != nil {
				return err
			}
		case remB > 0 && (remA == 0 || termB < termA):
			if err := WriteEntry(out, termB, entryB); err != nil {
				return err
			}
			merged++
			remB--
			if termB, entryB, _, err = ReadEntry(b); err != nil {
				return err
			}
		default:
			if err := WriteEntry(out, termA, MergeEntries(entryA, entryB)); err != nil {
				return err
			}
			merged++
			remA--
			remB--
			if termA, entryA, _, err = ReadEntry(a); err != nil {
				return err
			}
			if termB, entryB, _, err = ReadEntry(b); err != nil {
				return err
			}
		}
	}

	endPos, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := out.Seek(headerPos, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, merged); err != nil {
		return err
	}
	if _, err := out.Seek(endPos, io.SeekStart); err != nil {
		return err
	}
	return nil
}
