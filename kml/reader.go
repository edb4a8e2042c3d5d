package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/globetrotter-project/globetrotter/track"
	"github.com/globetrotter-project/globetrotter/utils"
)

// Reporter receives per-placemark skip events. nil discards.
type Reporter interface {
	Add(warningType, exampleID string)
}

// Warning types emitted while reading a document.
const (
	WarningUnsupportedGeometry = "unsupported_geometry"
	WarningNoTimestamp         = "no_timestamp"
	WarningBadCoordinates      = "bad_coordinates"
)

type kmlFile struct {
	XMLName  xml.Name     `xml:"kml"`
	Document kmlContainer `xml:"Document"`
}

type kmlContainer struct {
	Name       string         `xml:"name"`
	Folders    []kmlContainer `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	When        string    `xml:"TimeStamp>when"`
	Point       *kmlPoint `xml:"Point"`
	LineString  *struct{} `xml:"LineString"`
	Track       *gxTrack  `xml:"Track"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type gxTrack struct {
	When  []string `xml:"when"`
	Coord []string `xml:"coord"`
}

type reader struct {
	warnings  Reporter
	positions []track.Position
}

func (r *reader) warn(warningType, exampleID string) {
	if r.warnings != nil {
		r.warnings.Add(warningType, exampleID)
	}
}

// Read parses a KML document into a track. Both Placemark/Point and
// gx:Track shapes are accepted, in the Document or nested in Folders;
// LineString placemarks carry no timestamps and are skipped. rep may be
// nil to discard warnings.
func Read(in io.Reader, rep Reporter) (*track.Track, error) {
	var doc kmlFile
	if err := xml.NewDecoder(in).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse KML: %w", err)
	}
	r := &reader{warnings: rep}
	r.container(doc.Document)
	return track.FromPositions(doc.Document.Name, r.positions)
}

func (r *reader) container(c kmlContainer) {
	for _, pm := range c.Placemarks {
		r.placemark(pm)
	}
	for _, f := range c.Folders {
		r.container(f)
	}
}

func (r *reader) placemark(pm kmlPlacemark) {
	switch {
	case pm.Track != nil:
		n := len(pm.Track.When)
		if len(pm.Track.Coord) != n {
			r.warn(WarningBadCoordinates, pm.Name)
			if len(pm.Track.Coord) < n {
				n = len(pm.Track.Coord)
			}
		}
		for i := 0; i < n; i++ {
			t, err := utils.ParseUTC(strings.TrimSpace(pm.Track.When[i]))
			if err != nil {
				r.warn(WarningNoTimestamp, pm.Name)
				continue
			}
			p, err := parseCoord(pm.Track.Coord[i], " ")
			if err != nil {
				r.warn(WarningBadCoordinates, pm.Name)
				continue
			}
			p.Time = t
			if err := p.Validate(); err != nil {
				r.warn(WarningBadCoordinates, pm.Name)
				continue
			}
			r.positions = append(r.positions, p)
		}
	case pm.Point != nil:
		if strings.TrimSpace(pm.When) == "" {
			r.warn(WarningNoTimestamp, pm.Name)
			return
		}
		t, err := utils.ParseUTC(strings.TrimSpace(pm.When))
		if err != nil {
			r.warn(WarningNoTimestamp, pm.Name)
			return
		}
		p, err := parseCoord(pm.Point.Coordinates, ",")
		if err != nil {
			r.warn(WarningBadCoordinates, pm.Name)
			return
		}
		p.Time = t
		p.ImageRef = pm.Description
		if err := p.Validate(); err != nil {
			r.warn(WarningBadCoordinates, pm.Name)
			return
		}
		r.positions = append(r.positions, p)
	default:
		// LineString paths have no per-position times to recover.
		r.warn(WarningUnsupportedGeometry, pm.Name)
	}
}

// parseCoord parses "lon<sep>lat[<sep>alt]" with either the Point comma
// separator or the gx:coord space separator.
func parseCoord(s, sep string) (track.Position, error) {
	fields := strings.Split(strings.TrimSpace(s), sep)
	if len(fields) < 2 {
		return track.Position{}, fmt.Errorf("coordinate %q: want lon%slat", s, sep)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return track.Position{}, fmt.Errorf("longitude %q: %w", fields[0], err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return track.Position{}, fmt.Errorf("latitude %q: %w", fields[1], err)
	}
	p := track.Position{Lat: lat, Lon: lon}
	if len(fields) >= 3 {
		if alt, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err == nil && alt != 0 {
			p.AltM = &alt
		}
	}
	return p, nil
}
