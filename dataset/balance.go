package dataset

import (
	"fmt"
	"math/rand"
)

// classGroup holds one class's annotations in split-then-row order.
type classGroup struct {
	label   string
	entries []annotation
}

// groupByClass buckets the entries per label, with groups ordered by the
// configured class list. A label outside the list is a data error.
func groupByClass(entries []annotation, classes []string) ([]classGroup, error) {
	index := make(map[string]int, len(classes))
	groups := make([]classGroup, len(classes))
	for i, class := range classes {
		index[class] = i
		groups[i].label = class
	}

	for _, entry := range entries {
		i, ok := index[entry.label]
		if !ok {
			return nil, fmt.Errorf("annotation label %q is not one of the configured classes %v", entry.label, classes)
		}
		groups[i].entries = append(groups[i].entries, entry)
	}
	return groups, nil
}

// oversample assembles the training records. Every class is brought up to
// the size of the largest one: the group is shuffled, repeated with whole
// passes while they fit, and topped up with the first entries of the
// shuffled order. Each emitted annotation expands into one record per frame
// file.
func oversample(groups []classGroup, rng *rand.Rand) []Record {
	maxCount := 0
	for _, g := range groups {
		if len(g.entries) > maxCount {
			maxCount = len(g.entries)
		}
	}

	var records []Record
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}

		shuffled := append([]annotation(nil), g.entries...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		rep := maxCount / len(shuffled)
		rem := maxCount % len(shuffled)
		for range rep {
			records = appendFrameRecords(records, shuffled)
		}
		records = appendFrameRecords(records, shuffled[:rem])
	}
	return records
}

// appendFrameRecords expands each annotation into one record per frame file.
// Annotations with no frames on disk contribute nothing; readSplit already
// warned about them.
func appendFrameRecords(records []Record, entries []annotation) []Record {
	for _, entry := range entries {
		for _, path := range entry.frames {
			records = append(records, Record{
				Frames: []string{path},
				Label:  entry.label,
				OneHot: entry.oneHot,
			})
		}
	}
	return records
}

// groupRecords assembles the evaluation records: one per annotation,
// carrying all of its frames, classes in configured order.
func groupRecords(groups []classGroup) []Record {
	var records []Record
	for _, g := range groups {
		for _, entry := range g.entries {
			records = append(records, Record{
				Frames: entry.frames,
				Label:  entry.label,
				OneHot: entry.oneHot,
			})
		}
	}
	return records
}
