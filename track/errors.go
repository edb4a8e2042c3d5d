package track

import "errors"

var (
	// ErrOutOfOrder is returned by Append when a position's timestamp
	// precedes the last stored timestamp.
	ErrOutOfOrder = errors.New("track: position out of chronological order")

	// ErrEmptyTrack is returned by operations that require at least one
	// position (Merge inputs, BoundingRegion).
	ErrEmptyTrack = errors.New("track: empty track")

	// ErrInvalidPosition is returned when a position has a zero timestamp
	// or coordinates outside [-90,90] latitude / [-180,180] longitude.
	ErrInvalidPosition = errors.New("track: invalid position")
)
