package config

import "time"

// DatasetConfig describes the recording set being converted.
type DatasetConfig struct {
	Name string `yaml:"name" validate:"required"`

	// TrustedMMSIs are stations whose radio-word UTC submessage may be
	// used for timestamp recovery.
	TrustedMMSIs []uint32 `yaml:"trustedMMSIs"`

	// Timezone is the recording computer's local zone, for PuTTY log
	// headers and file names. Empty means UTC.
	Timezone string `yaml:"timezone" validate:"omitempty,timezone"`

	// RecorderPrefix is the log file name prefix the recorder writes.
	RecorderPrefix string `yaml:"recorderPrefix"`
}

// Location resolves the dataset timezone.
func (d DatasetConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(d.Timezone)
}

// ExportConfig controls the generated documents.
type ExportConfig struct {
	// GapSeconds is the reception gap that ends a track segment.
	GapSeconds int `yaml:"gapSeconds" validate:"gte=0"`

	OutputDir string `yaml:"outputDir"`

	// LineWidth is the KML track line width in pixels.
	LineWidth int `yaml:"lineWidth" validate:"gte=0"`

	// DayIndex selects the color of the per-day line rotation.
	DayIndex int `yaml:"dayIndex" validate:"gte=0"`
}

// StoreConfig points at the optional SQLite archive.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Dataset DatasetConfig `yaml:"dataset" validate:"required"`
	Export  ExportConfig  `yaml:"export"`
	Store   StoreConfig   `yaml:"store"`
}
