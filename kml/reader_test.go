package kml_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/globetrotter-project/globetrotter/kml"
	"github.com/globetrotter-project/globetrotter/track"
)

type countReporter map[string]int

func (c countReporter) Add(warningType, exampleID string) { c[warningType]++ }

func TestPlacemarksRoundTrip(t *testing.T) {
	alt := 3.25
	in := mustTrack(t, "Roll", []track.Position{
		{Time: time.Date(2022, 7, 4, 12, 0, 1, 0, time.UTC), Lat: 40.712345, Lon: -74.005678,
			ImageRef: "photos/IMG_0001.jpg"},
		{Time: time.Date(2022, 7, 4, 12, 0, 2, 0, time.UTC), Lat: 41.0, Lon: -73.0, AltM: &alt},
	})
	doc, err := kml.Placemarks(in)
	if err != nil {
		t.Fatalf("Placemarks: %v", err)
	}

	out, err := kml.Read(bytes.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Name != "Roll" {
		t.Errorf("Name = %q, want Roll", out.Name)
	}
	if out.Len() != in.Len() {
		t.Fatalf("round trip has %d positions, want %d", out.Len(), in.Len())
	}
	for i := 0; i < in.Len(); i++ {
		a, b := in.At(i), out.At(i)
		if !a.Time.Equal(b.Time) {
			t.Errorf("position %d time = %v, want %v", i, b.Time, a.Time)
		}
		if math.Abs(a.Lat-b.Lat) > 1e-6 || math.Abs(a.Lon-b.Lon) > 1e-6 {
			t.Errorf("position %d = %v,%v, want %v,%v", i, b.Lat, b.Lon, a.Lat, a.Lon)
		}
	}
	if out.At(0).ImageRef != "photos/IMG_0001.jpg" {
		t.Errorf("ImageRef = %q, not preserved", out.At(0).ImageRef)
	}
	if out.At(1).AltM == nil || math.Abs(*out.At(1).AltM-alt) > 1e-6 {
		t.Errorf("AltM = %v, want %v", out.At(1).AltM, alt)
	}
}

func TestTrackDocumentRoundTrip(t *testing.T) {
	base := time.Date(2023, 5, 20, 8, 0, 0, 0, time.UTC)
	in := mustTrack(t, "DREAM", []track.Position{
		{Time: base, Lat: 25.123456, Lon: -77.654321},
		{Time: base.Add(30 * time.Second), Lat: 25.13, Lon: -77.66},
		{Time: base.Add(10 * time.Minute), Lat: 25.25, Lon: -77.75},
	})
	doc, err := kml.TrackDocument(in, time.Minute, kml.TrackStyle{})
	if err != nil {
		t.Fatalf("TrackDocument: %v", err)
	}

	out, err := kml.Read(bytes.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Len() != in.Len() {
		t.Fatalf("round trip has %d positions, want %d (across segments)", out.Len(), in.Len())
	}
	for i := 0; i < in.Len(); i++ {
		a, b := in.At(i), out.At(i)
		if !a.Time.Equal(b.Time) {
			t.Errorf("position %d time = %v, want %v", i, b.Time, a.Time)
		}
		if math.Abs(a.Lat-b.Lat) > 1e-6 || math.Abs(a.Lon-b.Lon) > 1e-6 {
			t.Errorf("position %d = %v,%v, want %v,%v", i, b.Lat, b.Lon, a.Lat, a.Lon)
		}
	}
}

func TestReadFolderNesting(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
<Document><name>Nested</name>
<Folder><name>outer</name>
<Folder><name>inner</name>
<Placemark><name>p1</name>
<TimeStamp><when>2022-07-04T12:00:00Z</when></TimeStamp>
<Point><coordinates>-74.0,40.0</coordinates></Point>
</Placemark>
</Folder>
</Folder>
</Document></kml>`
	out, err := kml.Read(strings.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("got %d positions, want 1 from nested folder", out.Len())
	}
	if out.At(0).Lat != 40.0 || out.At(0).Lon != -74.0 {
		t.Errorf("position = %v,%v, want 40,-74", out.At(0).Lat, out.At(0).Lon)
	}
}

func TestReadSkipsAndWarns(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document><name>Mixed</name>
<Placemark><name>path</name>
<LineString><coordinates>-74.0,40.0,0</coordinates></LineString>
</Placemark>
<Placemark><name>untimed</name>
<Point><coordinates>-74.0,40.0</coordinates></Point>
</Placemark>
<Placemark><name>offworld</name>
<TimeStamp><when>2022-07-04T12:00:00Z</when></TimeStamp>
<Point><coordinates>-74.0,95.0</coordinates></Point>
</Placemark>
<Placemark><name>good</name>
<TimeStamp><when>2022-07-04T12:00:00Z</when></TimeStamp>
<Point><coordinates>-74.0,40.0</coordinates></Point>
</Placemark>
</Document></kml>`
	warnings := countReporter{}
	out, err := kml.Read(strings.NewReader(doc), warnings)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("got %d positions, want only the valid one", out.Len())
	}
	if warnings[kml.WarningUnsupportedGeometry] != 1 {
		t.Errorf("unsupported geometry warnings = %d, want 1", warnings[kml.WarningUnsupportedGeometry])
	}
	if warnings[kml.WarningNoTimestamp] != 1 {
		t.Errorf("no timestamp warnings = %d, want 1", warnings[kml.WarningNoTimestamp])
	}
	if warnings[kml.WarningBadCoordinates] != 1 {
		t.Errorf("bad coordinate warnings = %d, want 1", warnings[kml.WarningBadCoordinates])
	}
}
