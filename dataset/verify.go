package dataset

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// VerifyFrames decodes every frame referenced by the index once, without
// transforming, and reports the files that cannot be read. Oversampled
// records share frame files, so each path is checked a single time. With
// progress set a progress bar is drawn while checking.
//
// The returned error joins one *DecodeError per unreadable frame.
func (d *Dataset) VerifyFrames(progress bool) error {
	seen := make(map[string]struct{})
	var paths []string
	for _, rec := range d.records {
		for _, path := range rec.Frames {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	var pbar *progressbar.ProgressBar
	if progress {
		pbar = progressbar.Default(int64(len(paths)), "Verifying frames")
	}

	var bad []error
	for _, path := range paths {
		if _, err := decodeFrame(path); err != nil {
			bad = append(bad, err)
		}
		if pbar != nil {
			_ = pbar.Add(1)
		}
	}
	if pbar != nil {
		_ = pbar.Finish()
	}

	if len(bad) > 0 {
		return fmt.Errorf("%d of %d frames failed to decode: %w", len(bad), len(paths), errors.Join(bad...))
	}
	return nil
}
