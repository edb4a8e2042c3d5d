package track

import (
	"fmt"
	"iter"
	"sort"
	"time"
)

// Position is a single reading: a required UTC timestamp and coordinates
// in decimal degrees, plus optional fields whose presence varies by
// ingestion format. Optional numeric fields are nil when the source did
// not carry them.
type Position struct {
	Time time.Time
	Lat  float64
	Lon  float64

	// AltM is altitude above the ellipsoid in meters.
	AltM *float64
	// HeadingDeg is true heading in degrees, 0=north.
	HeadingDeg *float64
	// SpeedKt is speed over ground in knots.
	SpeedKt *float64
	// ImageRef references the source image for photo-derived positions.
	ImageRef string
}

// Validate reports whether the position satisfies the model invariants:
// a non-zero timestamp and coordinates inside the valid ranges.
func (p Position) Validate() error {
	if p.Time.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidPosition)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidPosition, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidPosition, p.Lon)
	}
	return nil
}

// Track is an ordered sequence of positions, order = chronological order
// of timestamps. The zero value is not usable; create tracks with New or
// FromPositions.
type Track struct {
	// Name labels the track in exported documents (ship name, dataset
	// case, photo roll).
	Name string

	positions []Position
}

// New creates an empty track.
func New(name string) *Track {
	return &Track{Name: name}
}

// FromPositions builds a track from positions that are not necessarily
// sorted. The input slice is copied; the caller keeps ownership of it.
func FromPositions(name string, ps []Position) (*Track, error) {
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	cp := make([]Position, len(ps))
	copy(cp, ps)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time.Before(cp[j].Time) })
	return &Track{Name: name, positions: cp}, nil
}

// Append adds a position at the end of the track. The track does not
// sort: a position whose timestamp precedes the last stored timestamp is
// rejected with ErrOutOfOrder, so adapters must sort their input before
// building. Equal timestamps are accepted (non-decreasing order).
func (t *Track) Append(p Position) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if n := len(t.positions); n > 0 && p.Time.Before(t.positions[n-1].Time) {
		return fmt.Errorf("%w: %s before %s", ErrOutOfOrder,
			p.Time.UTC().Format(time.RFC3339), t.positions[n-1].Time.UTC().Format(time.RFC3339))
	}
	t.positions = append(t.positions, p)
	return nil
}

// Merge combines two tracks into a new chronologically ordered track.
// Both inputs must be non-empty; neither is modified. The result carries
// the receiver's name.
func (t *Track) Merge(other *Track) (*Track, error) {
	if t.Len() == 0 || other == nil || other.Len() == 0 {
		return nil, ErrEmptyTrack
	}
	merged := make([]Position, 0, len(t.positions)+len(other.positions))
	i, j := 0, 0
	for i < len(t.positions) && j < len(other.positions) {
		if other.positions[j].Time.Before(t.positions[i].Time) {
			merged = append(merged, other.positions[j])
			j++
		} else {
			merged = append(merged, t.positions[i])
			i++
		}
	}
	merged = append(merged, t.positions[i:]...)
	merged = append(merged, other.positions[j:]...)
	return &Track{Name: t.Name, positions: merged}, nil
}

// Positions yields the positions in chronological order. The sequence is
// lazy, finite, and restartable: ranging over it twice yields the same
// positions.
func (t *Track) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, p := range t.positions {
			if !yield(p) {
				return
			}
		}
	}
}

// Len is the number of positions.
func (t *Track) Len() int { return len(t.positions) }

// At returns the i-th position in chronological order.
func (t *Track) At(i int) Position { return t.positions[i] }

// Start returns the timestamp of the first position, or the zero time
// for an empty track.
func (t *Track) Start() time.Time {
	if len(t.positions) == 0 {
		return time.Time{}
	}
	return t.positions[0].Time
}

// End returns the timestamp of the last position, or the zero time for
// an empty track.
func (t *Track) End() time.Time {
	if len(t.positions) == 0 {
		return time.Time{}
	}
	return t.positions[len(t.positions)-1].Time
}

// SplitGaps splits the track into sub-tracks wherever two consecutive
// positions are further apart in time than gap. Recorders stop while in
// port or powered down; exporters render each segment separately so the
// viewer does not draw a chord across the gap.
func (t *Track) SplitGaps(gap time.Duration) []*Track {
	if len(t.positions) == 0 {
		return nil
	}
	var out []*Track
	seg := &Track{Name: t.Name}
	for i, p := range t.positions {
		if i > 0 && p.Time.Sub(t.positions[i-1].Time) > gap {
			out = append(out, seg)
			seg = &Track{Name: t.Name}
		}
		seg.positions = append(seg.positions, p)
	}
	return append(out, seg)
}
