package photo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/globetrotter-project/globetrotter/track"
)

// ErrMissingGPSTag reports an image whose EXIF data carries no GPS fix.
var ErrMissingGPSTag = errors.New("no GPS tags in image")

// ErrMissingTimestamp reports a geotagged image with no usable time.
var ErrMissingTimestamp = errors.New("no timestamp in image")

// Reporter receives per-image skip events. The zero Reporter of the
// warning aggregator satisfies it; nil discards.
type Reporter interface {
	Add(warningType, exampleID string)
}

// Warning types emitted while scanning image directories.
const (
	WarningMissingGPSTag   = "missing_gps_tag"
	WarningNoTimestamp     = "no_timestamp"
	WarningUnreadableImage = "unreadable_image"
)

// ReadPosition extracts the geotag of one image file.
func ReadPosition(path string) (track.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return track.Position{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return track.Position{}, fmt.Errorf("decode EXIF in %s: %w", path, err)
	}
	lat, lon, err := x.LatLong()
	if err != nil {
		return track.Position{}, fmt.Errorf("%s: %w", path, ErrMissingGPSTag)
	}
	t, ok := gpsTime(x)
	if !ok {
		if t, err = x.DateTime(); err != nil {
			return track.Position{}, fmt.Errorf("%s: %w", path, ErrMissingTimestamp)
		}
		t = t.UTC()
	}

	p := track.Position{Time: t, Lat: lat, Lon: lon, ImageRef: path}
	if alt, ok := altitude(x); ok {
		p.AltM = &alt
	}
	if err := p.Validate(); err != nil {
		return track.Position{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// gpsTime assembles the UTC time the GPS receiver stamped, which is
// preferable to the camera clock.
func gpsTime(x *exif.Exif) (time.Time, bool) {
	dateTag, err := x.Get(exif.GPSDateStamp)
	if err != nil {
		return time.Time{}, false
	}
	date, err := dateTag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	day, err := time.Parse("2006:01:02", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	timeTag, err := x.Get(exif.GPSTimeStamp)
	if err != nil {
		return time.Time{}, false
	}
	var hms [3]float64
	for i := range hms {
		num, den, err := timeTag.Rat2(i)
		if err != nil || den == 0 {
			return time.Time{}, false
		}
		hms[i] = float64(num) / float64(den)
	}
	d := time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2]*float64(time.Second))
	return day.Add(d), true
}

// altitude reads GPSAltitude in meters; GPSAltitudeRef 1 means below
// sea level.
func altitude(x *exif.Exif) (float64, bool) {
	tag, err := x.Get(exif.GPSAltitude)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	alt := float64(num) / float64(den)
	if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return alt, true
}

// Scanner walks image directories and accumulates a track.
type Scanner struct {
	warnings Reporter
}

// NewScanner returns a Scanner. rep may be nil to discard warnings.
func NewScanner(rep Reporter) *Scanner {
	return &Scanner{warnings: rep}
}

func (s *Scanner) warn(warningType, exampleID string) {
	if s.warnings != nil {
		s.warnings.Add(warningType, exampleID)
	}
}

// ReadDir scans dir for JPEG files and builds one chronological track
// named name from their geotags. Images without a fix or a time are
// skipped and reported. Only an unreadable directory is fatal.
func (s *Scanner) ReadDir(dir, name string) (*track.Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan image directory: %w", err)
	}
	var positions []track.Position
	for _, e := range entries {
		if e.IsDir() || !isJPEG(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := ReadPosition(path)
		switch {
		case err == nil:
			positions = append(positions, p)
		case errors.Is(err, ErrMissingGPSTag):
			s.warn(WarningMissingGPSTag, e.Name())
		case errors.Is(err, ErrMissingTimestamp):
			s.warn(WarningNoTimestamp, e.Name())
		default:
			s.warn(WarningUnreadableImage, e.Name())
		}
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Time.Before(positions[j].Time)
	})
	return track.FromPositions(name, positions)
}

func isJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
