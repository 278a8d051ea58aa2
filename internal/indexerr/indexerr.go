// Package indexerr defines the sentinel errors shared across the
// construction and query paths so the CLI layer can map a failure to the
// right exit code without string-matching messages.
package indexerr

import "errors"

var (
	// ErrMissingDir means the target directory does not exist.
	ErrMissingDir = errors.New("target directory does not exist")

	// ErrMissingIndex means search was invoked without an index directory.
	ErrMissingIndex = errors.New("index not found; run the index subcommand first")

	// ErrCorruptEntry means read_entry hit a short read past the term_len field.
	ErrCorruptEntry = errors.New("corrupt index entry")

	// ErrOffsetRange means a recorded term offset seeks past the end of the index file.
	ErrOffsetRange = errors.New("recorded offset past end of index file")

	// ErrCancelled means the user declined to rebuild an existing index.
	ErrCancelled = errors.New("rebuild cancelled by user")
)
