package converter

import (
	"fmt"
	"os"
	"time"

	"github.com/globetrotter-project/globetrotter/ais"
	"github.com/globetrotter-project/globetrotter/config"
	"github.com/globetrotter-project/globetrotter/gpx"
	"github.com/globetrotter-project/globetrotter/kml"
	"github.com/globetrotter-project/globetrotter/photo"
	"github.com/globetrotter-project/globetrotter/store"
	"github.com/globetrotter-project/globetrotter/track"
)

// Export formats accepted by Export.
const (
	FormatKML      = "kml"
	FormatKMLTrack = "kml-track"
	FormatKMLPath  = "kml-path"
	FormatGPX      = "gpx"
)

// Converter coordinates the format adapters and configuration to turn
// source files into tracks and tracks into documents.
type Converter struct {
	Cfg      config.AppConfig
	Warnings *WarningAggregator
}

// NewConverter creates a new converter instance
func NewConverter(cfg config.AppConfig) *Converter {
	return &Converter{Cfg: cfg, Warnings: NewWarningAggregator()}
}

// ConvertAIS reads a set of AIS recording logs and returns one track
// per vessel heard. Files are read in recording order so the carried
// clock flows forward across file boundaries.
func (c *Converter) ConvertAIS(paths []string) ([]*track.Track, error) {
	loc, err := c.Cfg.Dataset.Location()
	if err != nil {
		return nil, fmt.Errorf("dataset timezone: %w", err)
	}
	r := ais.NewReader(ais.Config{
		TrustedMMSIs:   c.Cfg.Dataset.TrustedMMSIs,
		Location:       loc,
		RecorderPrefix: c.Cfg.Dataset.RecorderPrefix,
	}, c.Warnings)
	r.SortFilesByStartTime(paths)
	for _, p := range paths {
		if err := r.ReadFile(p); err != nil {
			return nil, err
		}
	}
	return r.Tracks()
}

// ConvertPhotos scans a directory of geotagged JPEGs into one track
// named after the dataset.
func (c *Converter) ConvertPhotos(dir string) (*track.Track, error) {
	return photo.NewScanner(c.Warnings).ReadDir(dir, c.Cfg.Dataset.Name)
}

// ConvertKML reads an existing KML document back into a track.
func (c *Converter) ConvertKML(path string) (*track.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open KML: %w", err)
	}
	defer f.Close()
	return kml.Read(f, c.Warnings)
}

// Export serializes a track in the requested format.
func (c *Converter) Export(t *track.Track, format string) ([]byte, error) {
	switch format {
	case FormatKML:
		return kml.Placemarks(t)
	case FormatKMLTrack:
		return kml.TrackDocument(t, c.gap(), kml.TrackStyle{
			DayIndex:  c.Cfg.Export.DayIndex,
			LineWidth: c.Cfg.Export.LineWidth,
		})
	case FormatKMLPath:
		return kml.Path(t)
	case FormatGPX:
		return gpx.Document(t, c.gap())
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Archive saves tracks to the configured SQLite archive. A conversion
// run without an archive path configured is a no-op.
func (c *Converter) Archive(tracks []*track.Track, source string) error {
	if c.Cfg.Store.Path == "" {
		return nil
	}
	s, err := store.Open(c.Cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	for _, t := range tracks {
		if t.Len() == 0 {
			continue
		}
		if _, err := s.SaveTrack(t, source); err != nil {
			return fmt.Errorf("archive track %s: %w", t.Name, err)
		}
	}
	return nil
}

func (c *Converter) gap() time.Duration {
	return time.Duration(c.Cfg.Export.GapSeconds) * time.Second
}
