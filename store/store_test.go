package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/globetrotter-project/globetrotter/store"
	"github.com/globetrotter-project/globetrotter/track"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)

	speed := 12.3
	heading := 271.0
	alt := -2.5
	base := time.Date(2023, 5, 20, 8, 0, 0, 0, time.UTC)
	in, err := track.FromPositions("DREAM", []track.Position{
		{Time: base, Lat: 25.123456, Lon: -77.654321, SpeedKt: &speed, HeadingDeg: &heading},
		{Time: base.Add(10 * time.Second), Lat: 25.13, Lon: -77.66, AltM: &alt, ImageRef: "photos/IMG_1.jpg"},
	})
	if err != nil {
		t.Fatalf("FromPositions: %v", err)
	}

	id, err := s.SaveTrack(in, "ais")
	if err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}

	out, err := s.LoadTrack(id)
	if err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	if out.Name != "DREAM" {
		t.Errorf("Name = %q, want DREAM", out.Name)
	}
	if out.Len() != in.Len() {
		t.Fatalf("loaded %d positions, want %d", out.Len(), in.Len())
	}
	for i := 0; i < in.Len(); i++ {
		a, b := in.At(i), out.At(i)
		if !a.Time.Equal(b.Time) {
			t.Errorf("position %d time = %v, want %v", i, b.Time, a.Time)
		}
		if a.Lat != b.Lat || a.Lon != b.Lon {
			t.Errorf("position %d = %v,%v, want %v,%v", i, b.Lat, b.Lon, a.Lat, a.Lon)
		}
	}
	p := out.At(0)
	if p.SpeedKt == nil || *p.SpeedKt != speed {
		t.Errorf("SpeedKt = %v, want %v", p.SpeedKt, speed)
	}
	if p.HeadingDeg == nil || *p.HeadingDeg != heading {
		t.Errorf("HeadingDeg = %v, want %v", p.HeadingDeg, heading)
	}
	if p.AltM != nil {
		t.Errorf("AltM = %v, want nil", *p.AltM)
	}
	p = out.At(1)
	if p.AltM == nil || *p.AltM != alt {
		t.Errorf("AltM = %v, want %v", p.AltM, alt)
	}
	if p.ImageRef != "photos/IMG_1.jpg" {
		t.Errorf("ImageRef = %q, not preserved", p.ImageRef)
	}
}

func TestSaveEmptyTrack(t *testing.T) {
	s := openStore(t)
	if _, err := s.SaveTrack(track.New("empty"), "kml"); !errors.Is(err, track.ErrEmptyTrack) {
		t.Errorf("err = %v, want ErrEmptyTrack", err)
	}
}

func TestListTracks(t *testing.T) {
	s := openStore(t)
	base := time.Date(2023, 5, 20, 8, 0, 0, 0, time.UTC)
	one, err := track.FromPositions("ONE", []track.Position{{Time: base, Lat: 1, Lon: 1}})
	if err != nil {
		t.Fatal(err)
	}
	two, err := track.FromPositions("TWO", []track.Position{
		{Time: base, Lat: 2, Lon: 2},
		{Time: base.Add(time.Second), Lat: 2.1, Lon: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveTrack(one, "ais"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveTrack(two, "photos"); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListTracks()
	if err != nil {
		t.Fatalf("ListTracks: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d tracks, want 2", len(infos))
	}
	if infos[0].Name != "ONE" || infos[0].Source != "ais" || infos[0].Positions != 1 {
		t.Errorf("first track = %+v", infos[0])
	}
	if infos[1].Name != "TWO" || infos[1].Source != "photos" || infos[1].Positions != 2 {
		t.Errorf("second track = %+v", infos[1])
	}
}
