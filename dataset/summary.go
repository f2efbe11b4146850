package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ClassCount pairs a class label with its record count.
type ClassCount struct {
	Label string
	Count int
}

// Summary describes an assembled index in human terms.
type Summary struct {
	// Mode the index was assembled for.
	Mode Mode

	// Splits holds the base names of the indexed split directories.
	Splits []string

	// FramesPerItem is the frame count of the first record: 1 in training
	// mode, the annotation's frame count in eval mode.
	FramesPerItem int

	// Counts holds the per-class record counts, in class order.
	Counts []ClassCount

	// Total is the overall record count.
	Total int
}

// Summary reports which splits fed the index, how many frames one item
// carries and how the records spread over the classes.
func (d *Dataset) Summary() Summary {
	s := Summary{
		Mode:  d.mode,
		Total: len(d.records),
	}
	for _, split := range d.splits {
		s.Splits = append(s.Splits, filepath.Base(split))
	}
	if len(d.records) > 0 {
		s.FramesPerItem = len(d.records[0].Frames)
	}

	counts := make(map[string]int)
	for _, rec := range d.records {
		counts[rec.Label]++
	}
	for _, class := range d.classes {
		s.Counts = append(s.Counts, ClassCount{Label: class, Count: counts[class]})
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s dataset from splits %v: %s records, %d frames per item",
		s.Mode, s.Splits, humanize.Comma(int64(s.Total)), s.FramesPerItem)
	for _, c := range s.Counts {
		fmt.Fprintf(&b, "\n\t%s %s", c.Label, humanize.Comma(int64(c.Count)))
	}
	return b.String()
}
