package ais_test

import (
	"strings"
	"testing"
	"time"

	"github.com/globetrotter-project/globetrotter/ais"
	"github.com/globetrotter-project/globetrotter/tests/helpers"
)

type countReporter map[string]int

func (c countReporter) Add(warningType, exampleID string) { c[warningType]++ }

func positionSentence(mmsi uint32, second int, radio uint64) string {
	var w helpers.BitWriter
	w.Put(6, 1)
	w.Put(2, 0)
	w.Put(30, uint64(mmsi))
	w.Put(4, 0)
	w.PutInt(8, -128)
	w.Put(10, 1023) // speed not available
	w.Put(1, 0)
	w.PutInt(28, -74.5*600000)
	w.PutInt(27, 40.25*600000)
	w.Put(12, 3600)
	w.Put(9, 511) // heading not available
	w.Put(6, uint64(second))
	w.Put(2, 0)
	w.Put(3, 0)
	w.Put(1, 0)
	w.Put(19, radio)
	return w.Sentence()
}

func baseStationSentence() string {
	var w helpers.BitWriter
	w.Put(6, 4)
	w.Put(2, 0)
	w.Put(30, 3669970)
	w.Put(14, 2022)
	w.Put(4, 7)
	w.Put(5, 4)
	w.Put(5, 18)
	w.Put(6, 30)
	w.Put(6, 59)
	w.Put(1, 0)
	w.PutInt(28, -74.5*600000)
	w.PutInt(27, 40.25*600000)
	w.Put(4, 7)
	w.Put(10, 0)
	w.Put(1, 0)
	w.Put(19, 0)
	return w.Sentence()
}

func staticVoyageSentences(mmsi uint32, name string) []string {
	var w helpers.BitWriter
	w.Put(6, 5)
	w.Put(2, 0)
	w.Put(30, uint64(mmsi))
	w.Put(2, 0)
	w.Put(30, 9074729)
	w.PutText(42, "WDE1234")
	w.PutText(120, name)
	w.Put(8, 70)
	w.Put(9, 100)
	w.Put(9, 300)
	w.Put(6, 10)
	w.Put(6, 48)
	w.Put(4, 1)
	w.Put(4, 7)
	w.Put(5, 4)
	w.Put(5, 12)
	w.Put(6, 0)
	w.Put(8, 85)
	w.PutText(120, "ROTTERDAM")
	w.Put(1, 0)
	w.Put(1, 0)
	return w.MultiSentence(2, 7)
}

func classBNoFixSentence(mmsi uint32) string {
	var w helpers.BitWriter
	w.Put(6, 18)
	w.Put(2, 0)
	w.Put(30, uint64(mmsi))
	w.Put(8, 0)
	w.Put(10, 1023)
	w.Put(1, 0)
	w.PutInt(28, 181*600000) // lon not available
	w.PutInt(27, 91*600000)  // lat not available
	w.Put(12, 3600)
	w.Put(9, 511)
	w.Put(6, 60)
	w.Put(29, 0)
	return w.Sentence()
}

func classBSentence(mmsi uint32, second int) string {
	var w helpers.BitWriter
	w.Put(6, 18)
	w.Put(2, 0)
	w.Put(30, uint64(mmsi))
	w.Put(8, 0)
	w.Put(10, 57)
	w.Put(1, 0)
	w.PutInt(28, 4.99*600000)
	w.PutInt(27, 51.9*600000)
	w.Put(12, 2118)
	w.Put(9, 511)
	w.Put(6, uint64(second))
	w.Put(29, 0)
	return w.Sentence()
}

func binaryBroadcastSentence() string {
	var w helpers.BitWriter
	w.Put(6, 8)
	w.Put(2, 0)
	w.Put(30, 111111111)
	w.Put(16, 0)
	return w.Sentence()
}

func TestReaderStream(t *testing.T) {
	const trustedMMSI = 366999000
	warnings := countReporter{}
	r := ais.NewReader(ais.Config{TrustedMMSIs: []uint32{trustedMMSI}}, warnings)

	static := staticVoyageSentences(367123456, "EVER GIVEN")
	lines := []string{
		// Position before any clock reference: no recoverable time.
		classBSentence(338123456, 33),
		// Recorder stamp with a dead-battery century, then a base
		// station report refining the clock to 18:30:59.
		"0022-07-04T18:30:00 " + baseStationSentence(),
		static[0],
		static[1],
		// Untrusted station: rides the carried clock unchanged.
		positionSentence(367123456, 41, 0),
		// Trusted station: hour and minute come from the radio word.
		positionSentence(trustedMMSI, 10, 1<<14|18<<9|35<<2),
		// Trusted station without a UTC radio word: second-only
		// recovery onto the carried minute.
		positionSentence(trustedMMSI, 20, 0),
		"!AIVDM,1,1,,A,xx,0*00",
		binaryBroadcastSentence(),
		classBNoFixSentence(338123456),
		"Radio: channel B rssi -97dBm",
	}
	err := r.Read("test.nmea", time.Time{}, strings.NewReader(strings.Join(lines, "\r\n")+"\r\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	for _, want := range []struct {
		warning string
		count   int
	}{
		{ais.WarningNoTimestamp, 1},
		{ais.WarningMalformedRecord, 1},
		{ais.WarningUnsupportedMessage, 1},
		{ais.WarningNoLatLon, 1},
	} {
		if warnings[want.warning] != want.count {
			t.Errorf("warning %s count = %d, want %d", want.warning, warnings[want.warning], want.count)
		}
	}

	tracks, err := r.Tracks()
	if err != nil {
		t.Fatalf("Tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("Tracks() returned %d tracks, want 2", len(tracks))
	}

	trusted := tracks[0]
	if trusted.Name != "MMSI 366999000" {
		t.Errorf("trusted track name = %q, want MMSI fallback", trusted.Name)
	}
	if trusted.Len() != 2 {
		t.Fatalf("trusted track has %d positions, want 2", trusted.Len())
	}
	wantTime := time.Date(2022, 7, 4, 18, 35, 10, 0, time.UTC)
	if got := trusted.At(0).Time; !got.Equal(wantTime) {
		t.Errorf("trusted position time = %v, want %v (radio-word recovery)", got, wantTime)
	}
	wantTime = time.Date(2022, 7, 4, 18, 35, 20, 0, time.UTC)
	if got := trusted.At(1).Time; !got.Equal(wantTime) {
		t.Errorf("trusted position time = %v, want %v (second-only recovery)", got, wantTime)
	}

	named := tracks[1]
	if named.Name != "EVER_GIVEN" {
		t.Errorf("track name = %q, want EVER_GIVEN", named.Name)
	}
	if named.Len() != 1 {
		t.Fatalf("named track has %d positions, want 1", named.Len())
	}
	p := named.At(0)
	wantTime = time.Date(2022, 7, 4, 18, 30, 59, 0, time.UTC)
	if !p.Time.Equal(wantTime) {
		t.Errorf("position time = %v, want %v (carried clock)", p.Time, wantTime)
	}
	if p.Lat != 40.25 || p.Lon != -74.5 {
		t.Errorf("position = %v,%v, want 40.25,-74.5", p.Lat, p.Lon)
	}
	if p.SpeedKt != nil {
		t.Errorf("SpeedKt = %v, want nil for unavailable speed", *p.SpeedKt)
	}
	if p.HeadingDeg != nil {
		t.Errorf("HeadingDeg = %v, want nil for unavailable heading", *p.HeadingDeg)
	}
}

func TestUntrustedVesselRidesCarriedClock(t *testing.T) {
	r := ais.NewReader(ais.Config{}, nil)

	// The second field of an untrusted vessel must not pull the clock
	// into the previous minute.
	lines := []string{
		"2023-05-08T12:00:00 " + positionSentence(338123456, 41, 0),
		positionSentence(338123456, 5, 0),
	}
	err := r.Read("test.nmea", time.Time{}, strings.NewReader(strings.Join(lines, "\r\n")+"\r\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	tracks, err := r.Tracks()
	if err != nil {
		t.Fatalf("Tracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Len() != 2 {
		t.Fatalf("expected 1 track with 2 positions, got %v", tracks)
	}
	want := time.Date(2023, 5, 8, 12, 0, 0, 0, time.UTC)
	for i := 0; i < tracks[0].Len(); i++ {
		if got := tracks[0].At(i).Time; !got.Equal(want) {
			t.Errorf("position %d time = %v, want carried %v", i, got, want)
		}
	}
}

func TestFileStartTime(t *testing.T) {
	mdt := time.FixedZone("MDT", -6*3600)
	r := ais.NewReader(ais.Config{Location: mdt}, nil)

	tests := []struct {
		name    string
		path    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "ttycat",
			path: "logs/daisy_220704_183000.nmea.bz2",
			want: time.Date(2022, 7, 4, 18, 30, 0, 0, time.UTC),
		},
		{
			name: "putty",
			path: "daisy2022-07-04T123456.log",
			want: time.Date(2022, 7, 4, 12, 34, 56, 0, mdt),
		},
		{name: "wrong prefix", path: "notes_220704_183000.nmea", wantErr: true},
		{name: "no pattern", path: "daisy.txt", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.FileStartTime(tc.path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("FileStartTime(%q) = %v, want error", tc.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FileStartTime(%q): %v", tc.path, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("FileStartTime(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestSortFilesByStartTime(t *testing.T) {
	r := ais.NewReader(ais.Config{}, nil)
	paths := []string{
		"daisy_220705_000000.nmea",
		"random.log",
		"daisy_220704_183000.nmea",
	}
	r.SortFilesByStartTime(paths)
	want := []string{
		"daisy_220704_183000.nmea",
		"daisy_220705_000000.nmea",
		"random.log",
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", paths, want)
		}
	}
}
