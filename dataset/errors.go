package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned by New when indexing the splits yields
	// no records at all.
	ErrEmptyDataset = errors.New("dataset contains no records")

	// ErrIndexOutOfRange is returned by Item for indices outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLabelNotFound reports a record label missing from the configured
	// class list. New validates labels up front, so hitting this during
	// retrieval means the index is inconsistent.
	ErrLabelNotFound = errors.New("label not in class list")
)

// AnnotationFileError reports a split directory that does not contain
// exactly one annotation spreadsheet.
type AnnotationFileError struct {
	// Split is the directory that failed the scan.
	Split string

	// Matches lists the spreadsheet paths found: empty, or more than one.
	Matches []string
}

func (e *AnnotationFileError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("no annotation spreadsheet found in split %s", e.Split)
	}
	return fmt.Sprintf("found %d annotation spreadsheets in split %s, want exactly one", len(e.Matches), e.Split)
}

// DecodeError reports a frame file that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode frame %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
