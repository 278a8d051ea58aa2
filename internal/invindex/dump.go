package invindex

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Dump writes a human-readable listing of every (term, Entry) in r's
// index envelope to w, one line per term: "term: doc doc doc ...". This
// mirrors the original implementation's FileIndex::print_file; it is a
// diagnostic aid for inspecting an index.dat by hand, not used by
// indexing or querying.
func Dump(w io.Writer, r io.Reader) error {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("reading entry count: %w", err)
	}
	for i := uint32(0); i < n; i++ {
		term, entry, ok, err := ReadEntry(r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("index truncated after %d of %d entries", i, n)
		}
		if _, err := fmt.Fprintf(w, "%s:", term); err != nil {
			return err
		}
		for _, doc := range entry.Docs {
			if _, err := fmt.Fprintf(w, " %d", doc); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
