package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const defaultAnnotationGlob = "*.ods"

// Fixed spreadsheet columns; the remaining columns are one 0/1 column per
// class.
const (
	colAnnotation = "annotation"
	colRoverID    = "id_rov"
	colImageID    = "img_id"
)

// annotation is one spreadsheet row resolved against its split directory:
// the label, the one-hot columns and the frame files sharing the row's
// filename prefix.
type annotation struct {
	label  string
	prefix string
	frames []string
	oneHot []float32
}

// findAnnotationFile locates the single spreadsheet inside the split.
func findAnnotationFile(split, glob string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(split, glob))
	if err != nil {
		return "", fmt.Errorf("bad annotation glob %q: %w", glob, err)
	}
	if len(matches) != 1 {
		return "", &AnnotationFileError{Split: split, Matches: matches}
	}
	return matches[0], nil
}

// readSplit parses the split's annotation spreadsheet and resolves the frame
// files of every row. The spreadsheets are CSV-formatted regardless of their
// file extension.
func readSplit(split, glob string, classes []string) ([]annotation, error) {
	path, err := findAnnotationFile(split, glob)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	// Verify required columns exist
	required := append([]string{colAnnotation, colRoverID, colImageID}, classes...)
	for _, col := range required {
		if _, ok := colIndex[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("required column %q not found in %s", col, path)
		}
	}

	var entries []annotation
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		line++

		rov, err := parseInt(row[colIndex[colRoverID]])
		if err != nil {
			return nil, fmt.Errorf("bad %s on line %d of %s: %w", colRoverID, line, path, err)
		}
		img, err := parseInt(row[colIndex[colImageID]])
		if err != nil {
			return nil, fmt.Errorf("bad %s on line %d of %s: %w", colImageID, line, path, err)
		}

		oneHot := make([]float32, len(classes))
		for i, class := range classes {
			v, err := parseFloat32(row[colIndex[strings.ToLower(class)]])
			if err != nil {
				return nil, fmt.Errorf("bad %s value on line %d of %s: %w", class, line, path, err)
			}
			oneHot[i] = v
		}

		prefix := filepath.Join(split, fmt.Sprintf("%02d_%04d", rov, img))
		frames, err := filepath.Glob(prefix + "*")
		if err != nil {
			return nil, fmt.Errorf("failed to glob frames for %s: %w", prefix, err)
		}
		sort.Strings(frames)
		if len(frames) == 0 {
			klog.Warningf("no frames on disk matching %s*", prefix)
		}

		entries = append(entries, annotation{
			label:  strings.TrimSpace(row[colIndex[colAnnotation]]),
			prefix: prefix,
			frames: frames,
			oneHot: oneHot,
		})
	}
	return entries, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	return strconv.Atoi(s)
}

func parseFloat32(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
