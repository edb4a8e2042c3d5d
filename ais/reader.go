package ais

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/globetrotter-project/globetrotter/track"
)

// Config carries the receiving-station parameters a recording set was
// made under.
type Config struct {
	// TrustedMMSIs are base or repeater stations whose radio-word UTC
	// submessage is believed, allowing hour and minute recovery.
	TrustedMMSIs []uint32

	// Location is the recording computer's local zone, used for PuTTY
	// log headers and PuTTY log file names.
	Location *time.Location

	// RecorderPrefix is the file name prefix the recorder writes,
	// "daisy" when empty.
	RecorderPrefix string
}

func (c Config) prefix() string {
	if c.RecorderPrefix == "" {
		return "daisy"
	}
	return c.RecorderPrefix
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Config) trusted(mmsi uint32) bool {
	for _, m := range c.TrustedMMSIs {
		if m == mmsi {
			return true
		}
	}
	return false
}

type vessel struct {
	name      string
	positions []track.Position
}

// Reader consumes AIS log files and accumulates per-vessel positions.
// One Reader may read many files; call Tracks when done.
type Reader struct {
	cfg      Config
	warnings Reporter
	frags    *assembler
	vessels  map[uint32]*vessel

	// now is the wall time carried across records, advanced by line
	// stamps, log headers and station reports.
	now time.Time
}

// NewReader returns a Reader. rep may be nil to discard warnings.
func NewReader(cfg Config, rep Reporter) *Reader {
	return &Reader{
		cfg:      cfg,
		warnings: rep,
		frags:    newAssembler(),
		vessels:  make(map[uint32]*vessel),
	}
}

func (r *Reader) warn(warningType, exampleID string) {
	if r.warnings != nil {
		r.warnings.Add(warningType, exampleID)
	}
}

var (
	// Line stamps written by the recorder ahead of each sentence. A
	// recorder with a dead clock battery writes years like 0022; those
	// get folded into the 2000s.
	lineStampRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})`)

	// Session header PuTTY writes at the top of a log, in local time.
	puttyHeaderRe = regexp.MustCompile(`PuTTY log (\d{4})\.(\d{2})\.(\d{2}) (\d{2}):(\d{2}):(\d{2})`)

	ttycatNameRe = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})\.nmea(?:\.bz2|\.gz)?$`)
	puttyNameRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2})(\d{2})(\d{2})\.log(?:\.bz2|\.gz)?$`)
)

// FileStartTime recovers the recording start time encoded in a log file
// name. Two recorder conventions are recognized: ttycat files named
// <prefix>_YYMMDD_HHMMSS.nmea (UTC) and PuTTY logs named
// <prefix>YYYY-MM-DDTHHMMSS.log (local time).
func (r *Reader) FileStartTime(path string) (time.Time, error) {
	base := filepath.Base(path)
	prefix := r.cfg.prefix()
	if !strings.HasPrefix(base, prefix) {
		return time.Time{}, fmt.Errorf("file %q: no %q prefix", base, prefix)
	}
	rest := base[len(prefix):]
	if m := ttycatNameRe.FindStringSubmatch(strings.TrimPrefix(rest, "_")); m != nil {
		return time.Date(2000+atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]),
			atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, time.UTC), nil
	}
	if m := puttyNameRe.FindStringSubmatch(rest); m != nil {
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]),
			atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, r.cfg.location()), nil
	}
	return time.Time{}, fmt.Errorf("file %q: unrecognized name pattern", base)
}

// SortFilesByStartTime orders log paths chronologically by the time in
// their names so carried wall time flows forward across files. Paths
// without a recognizable time sort last, by name.
func (r *Reader) SortFilesByStartTime(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ti, erri := r.FileStartTime(paths[i])
		tj, errj := r.FileStartTime(paths[j])
		if erri != nil || errj != nil {
			if erri == nil {
				return true
			}
			if errj == nil {
				return false
			}
			return paths[i] < paths[j]
		}
		return ti.Before(tj)
	})
}

// ReadFile reads one log file, transparently decompressing .bz2 and .gz
// files, seeding the carried clock from the file name when possible.
func (r *Reader) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open AIS log: %w", err)
	}
	defer f.Close()

	var in io.Reader = f
	switch {
	case strings.HasSuffix(path, ".bz2"):
		in = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open AIS log %s: %w", path, err)
		}
		defer gz.Close()
		in = gz
	}

	start, err := r.FileStartTime(path)
	if err != nil {
		start = time.Time{}
	}
	return r.Read(filepath.Base(path), start, in)
}

// Read consumes one log stream. name labels warnings; start seeds the
// carried clock and may be zero when unknown.
func (r *Reader) Read(name string, start time.Time, in io.Reader) error {
	if !start.IsZero() {
		r.now = start.UTC()
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		r.readLine(fmt.Sprintf("%s:%d", name, lineNo), sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read AIS log %s: %w", name, err)
	}
	return nil
}

func (r *Reader) readLine(id, line string) {
	if m := puttyHeaderRe.FindStringSubmatch(line); m != nil {
		r.now = time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]),
			atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, r.cfg.location()).UTC()
		return
	}
	if m := lineStampRe.FindStringSubmatch(line); m != nil {
		year := atoi(m[1])
		if year < 2000 {
			year = 2000 + year%100
		}
		r.now = time.Date(year, time.Month(atoi(m[2])), atoi(m[3]),
			atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, time.UTC)
	}

	i := strings.Index(line, "!AIVDM")
	if i < 0 {
		// Receiver debug chatter and blank lines.
		return
	}
	s, err := ParseSentence(line[i:])
	if err != nil {
		r.warn(WarningMalformedRecord, id)
		return
	}
	payload, pad, done := r.frags.add(s)
	if !done {
		return
	}
	msg, err := DecodePayload(payload, pad)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedMessage):
			r.warn(WarningUnsupportedMessage, id)
		default:
			r.warn(WarningMalformedRecord, id)
		}
		return
	}
	r.consume(id, msg)
}

func (r *Reader) consume(id string, msg Message) {
	switch m := msg.(type) {
	case *PositionReport:
		t, ok := r.messageTime(m.MMSI, m.Second, m.Radio)
		if !ok {
			r.warn(WarningNoTimestamp, id)
			return
		}
		r.addPosition(id, m.MMSI, t, m.Lat, m.Lon, m.SpeedKt, m.HeadingDeg)
	case *PositionReportB:
		t, ok := r.messageTime(m.MMSI, m.Second, RadioStatus{UTCHour: -1, UTCMinute: -1})
		if !ok {
			r.warn(WarningNoTimestamp, id)
			return
		}
		r.addPosition(id, m.MMSI, t, m.Lat, m.Lon, m.SpeedKt, m.HeadingDeg)
	case *BaseStationReport:
		if !m.Time.IsZero() {
			r.now = m.Time
		}
	case *StaticVoyage:
		if m.Shipname != "" {
			r.vessel(m.MMSI).name = m.Shipname
		}
	case *StaticDataA:
		if m.Shipname != "" {
			r.vessel(m.MMSI).name = m.Shipname
		}
	}
}

func (r *Reader) vessel(mmsi uint32) *vessel {
	v := r.vessels[mmsi]
	if v == nil {
		v = &vessel{}
		r.vessels[mmsi] = v
	}
	return v
}

func (r *Reader) addPosition(id string, mmsi uint32, t time.Time, lat, lon, speedKt float64, headingDeg int) {
	if lat == latNotAvailable || lon == lonNotAvailable {
		r.warn(WarningNoLatLon, id)
		return
	}
	p := track.Position{Time: t, Lat: lat, Lon: lon}
	if speedKt != speedNotAvailable {
		s := speedKt
		p.SpeedKt = &s
	}
	if headingDeg != headingNotAvailable {
		h := float64(headingDeg)
		p.HeadingDeg = &h
	}
	if err := p.Validate(); err != nil {
		r.warn(WarningNoLatLon, id)
		return
	}
	v := r.vessel(mmsi)
	v.positions = append(v.positions, p)
}

// messageTime recovers the UTC time of a position report from the
// carried clock and whatever the message itself carries. Only trusted
// stations refine the clock: their radio word supplies hour and minute,
// or failing that the UTC-second field picks the nearest minute.
// Untrusted stations ride the carried clock unchanged. Candidates more
// than an hour from the carried clock are rejected.
func (r *Reader) messageTime(mmsi uint32, second int, radio RadioStatus) (time.Time, bool) {
	if r.now.IsZero() {
		return time.Time{}, false
	}
	if !r.cfg.trusted(mmsi) {
		return r.now, true
	}
	if second >= 60 {
		// Timestamp not available; the carried clock is the best guess.
		return r.now, true
	}

	if radio.UTCHour >= 0 && radio.UTCHour < 24 &&
		radio.UTCMinute >= 0 && radio.UTCMinute < 60 {
		y, mo, d := r.now.Date()
		cand := time.Date(y, mo, d, radio.UTCHour, radio.UTCMinute, second, 0, time.UTC)
		// The carried day may be off by one around midnight.
		best := cand
		for _, adj := range []time.Duration{-24 * time.Hour, 24 * time.Hour} {
			if c := cand.Add(adj); absDelta(c, r.now) < absDelta(best, r.now) {
				best = c
			}
		}
		if absDelta(best, r.now) <= time.Hour {
			r.now = best
			return best, true
		}
		return time.Time{}, false
	}

	// Second-only recovery: keep the carried minute unless an adjacent
	// minute lands the second field closer to the carried clock.
	y, mo, d := r.now.Date()
	h, mi, _ := r.now.Clock()
	cand := time.Date(y, mo, d, h, mi, second, 0, time.UTC)
	best := cand
	for _, adj := range []time.Duration{-time.Minute, time.Minute} {
		if c := cand.Add(adj); absDelta(c, r.now) < absDelta(best, r.now) {
			best = c
		}
	}
	if absDelta(best, r.now) > time.Hour {
		return time.Time{}, false
	}
	r.now = best
	return best, true
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

// Tracks builds one chronological track per vessel seen so far. Vessels
// without any usable position are omitted. Names come from static data
// messages, falling back to the MMSI.
func (r *Reader) Tracks() ([]*track.Track, error) {
	mmsis := make([]uint32, 0, len(r.vessels))
	for mmsi := range r.vessels {
		mmsis = append(mmsis, mmsi)
	}
	sort.Slice(mmsis, func(i, j int) bool { return mmsis[i] < mmsis[j] })

	var out []*track.Track
	for _, mmsi := range mmsis {
		v := r.vessels[mmsi]
		if len(v.positions) == 0 {
			continue
		}
		name := sanitizeName(v.name)
		if name == "" {
			name = "MMSI " + strconv.FormatUint(uint64(mmsi), 10)
		}
		tr, err := track.FromPositions(name, v.positions)
		if err != nil {
			return nil, fmt.Errorf("track for MMSI %d: %w", mmsi, err)
		}
		out = append(out, tr)
	}
	return out, nil
}

// sanitizeName makes a vessel name safe for use in file names.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
