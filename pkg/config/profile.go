// Package config holds the comparison threshold profile: a small YAML file
// that tunes the engine without rebuilding, plus a store that can hot-reload
// it while the server runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/epubdiff/pkg/align"
)

// Profile is the YAML-serializable threshold configuration. Absent fields
// keep their defaults on load.
type Profile struct {
	// ModificationThreshold is the minimum similarity for a paired
	// paragraph to count as modified rather than deleted plus added.
	ModificationThreshold float64 `yaml:"modification_threshold"`

	// ChapterMatchThreshold is the minimum content-prefix similarity for a
	// chapter match when titles differ.
	ChapterMatchThreshold float64 `yaml:"chapter_match_threshold"`

	// ChapterPrefixLength is how many characters of chapter text feed the
	// chapter similarity score.
	ChapterPrefixLength int `yaml:"chapter_prefix_length"`

	// NoveltyThreshold is the sentence-match ratio below which a paragraph
	// is classified as new content.
	NoveltyThreshold float64 `yaml:"novelty_threshold"`

	// NoveltyScanCap bounds the baseline paragraphs scanned per sentence.
	NoveltyScanCap int `yaml:"novelty_scan_cap"`

	// ShowSame includes unchanged paragraphs in reports.
	ShowSame bool `yaml:"show_same"`

	// MaxRows caps rendered novelty rows (0 means no cap).
	MaxRows int `yaml:"max_rows"`
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		ModificationThreshold: 0.5,
		ChapterMatchThreshold: 0.3,
		ChapterPrefixLength:   500,
		NoveltyThreshold:      0.5,
		NoveltyScanCap:        500,
		ShowSame:              false,
		MaxRows:               300,
	}
}

// Options converts the profile into engine options.
func (p Profile) Options() align.Options {
	return align.Options{
		ModificationThreshold: p.ModificationThreshold,
		ChapterMatchThreshold: p.ChapterMatchThreshold,
		ChapterPrefixLength:   p.ChapterPrefixLength,
		NoveltyThreshold:      p.NoveltyThreshold,
		NoveltyScanCap:        p.NoveltyScanCap,
	}
}

// Validate checks that thresholds are in [0,1] and lengths are positive.
func (p Profile) Validate() error {
	for name, v := range map[string]float64{
		"modification_threshold":  p.ModificationThreshold,
		"chapter_match_threshold": p.ChapterMatchThreshold,
		"novelty_threshold":       p.NoveltyThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, v)
		}
	}
	if p.ChapterPrefixLength <= 0 {
		return fmt.Errorf("chapter_prefix_length must be positive, got %d", p.ChapterPrefixLength)
	}
	if p.NoveltyScanCap <= 0 {
		return fmt.Errorf("novelty_scan_cap must be positive, got %d", p.NoveltyScanCap)
	}
	if p.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", p.MaxRows)
	}
	return nil
}

// Load reads a profile file, applying defaults for absent fields.
func Load(path string) (Profile, error) {
	profile := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return profile, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return profile, nil
}

// Save writes the profile as YAML.
func (p Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}
	return nil
}
