// Package layout names the on-disk files that make up an index directory.
package layout

import "fmt"

const (
	// BaseDir is the hidden folder created inside a target directory to
	// hold an index and its companion files.
	BaseDir = ".ADS_search_engine"

	// IndexFileName is the binary inverted index produced by construction.
	IndexFileName = "index.dat"

	// ListFileName holds one indexed file path per line, in DocId order.
	ListFileName = "list.txt"

	// StopFileName is the optional stop-word snapshot used during indexing.
	StopFileName = "stop_words.txt"
)

// PartialName returns the transient partial-index filename covering the
// inclusive DocId range [l, r], as used by the external construction driver.
func PartialName(l, r uint32) string {
	return fmt.Sprintf("index_part_%dto%d.tmp", l, r)
}
