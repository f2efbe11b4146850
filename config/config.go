// Package config loads the survey tooling configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/uwset/transform"
)

// Config describes where the survey footage lives and how to index it.
type Config struct {
	// DataDir is the directory holding the split subdirectories.
	DataDir string `yaml:"data_dir"`

	// TrainSplits and EvalSplits name split subdirectories of DataDir.
	TrainSplits []string `yaml:"train_splits"`
	EvalSplits  []string `yaml:"eval_splits"`

	// Species enumerates the class labels, in model output order.
	Species []string `yaml:"species"`

	// AnnotationGlob matches the annotation spreadsheet inside each split
	// directory. Defaults to "*.ods".
	AnnotationGlob string `yaml:"annotation_glob"`

	// ImageSize is the square side length frames are resized to.
	ImageSize int `yaml:"image_size"`

	// Seed fixes the oversampling and augmentation randomness when
	// non-zero; zero draws a time-based seed.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when a field is left unset.
func Default() Config {
	return Config{
		AnnotationGlob: "*.ods",
		ImageSize:      transform.DefaultSize,
	}
}

// Load reads a YAML configuration file, fills unset fields with defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration is complete enough to build a dataset.
func (c *Config) Validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("species list is empty")
	}
	if len(c.TrainSplits) == 0 && len(c.EvalSplits) == 0 {
		return fmt.Errorf("no train or eval splits configured")
	}
	if c.AnnotationGlob == "" {
		return fmt.Errorf("annotation_glob is empty")
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("image_size must be positive, got %d", c.ImageSize)
	}
	return nil
}

// SplitDirs resolves split names against DataDir.
func (c *Config) SplitDirs(names []string) []string {
	dirs := make([]string, len(names))
	for i, name := range names {
		dirs[i] = filepath.Join(c.DataDir, name)
	}
	return dirs
}
