package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data_dir: /data/surveys
train_splits: [week1, week2]
eval_splits: [week3]
species: [posidonia, sand, rock]
image_size: 128
seed: 42
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/data/surveys" {
		t.Errorf("DataDir = %q, want /data/surveys", cfg.DataDir)
	}
	if !slices.Equal(cfg.TrainSplits, []string{"week1", "week2"}) {
		t.Errorf("TrainSplits = %v", cfg.TrainSplits)
	}
	if !slices.Equal(cfg.Species, []string{"posidonia", "sand", "rock"}) {
		t.Errorf("Species = %v", cfg.Species)
	}
	if cfg.ImageSize != 128 {
		t.Errorf("ImageSize = %d, want 128", cfg.ImageSize)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.AnnotationGlob != "*.ods" {
		t.Errorf("AnnotationGlob = %q, want default *.ods", cfg.AnnotationGlob)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /data
train_splits: [week1]
species: [sand]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AnnotationGlob != "*.ods" {
		t.Errorf("AnnotationGlob = %q, want *.ods", cfg.AnnotationGlob)
	}
	if cfg.ImageSize != 224 {
		t.Errorf("ImageSize = %d, want 224", cfg.ImageSize)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "species: [unbalanced")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	} else if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("err = %v, want parse failure", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "no species",
			body: "train_splits: [week1]",
			want: "species list is empty",
		},
		{
			name: "no splits",
			body: "species: [sand]",
			want: "no train or eval splits",
		},
		{
			name: "bad image size",
			body: "species: [sand]\ntrain_splits: [week1]\nimage_size: -3",
			want: "image_size must be positive",
		},
		{
			name: "empty glob",
			body: "species: [sand]\ntrain_splits: [week1]\nannotation_glob: \"\"",
			want: "annotation_glob is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestSplitDirs(t *testing.T) {
	cfg := Config{DataDir: "/data/surveys"}
	got := cfg.SplitDirs([]string{"week1", "week2"})
	want := []string{
		filepath.Join("/data/surveys", "week1"),
		filepath.Join("/data/surveys", "week2"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("SplitDirs = %v, want %v", got, want)
	}
}
