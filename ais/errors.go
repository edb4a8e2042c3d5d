package ais

import "errors"

var (
	// ErrMalformedRecord marks a sentence or payload that cannot be
	// decoded. Callers skip the record and continue.
	ErrMalformedRecord = errors.New("ais: malformed record")

	// ErrUnsupportedMessage marks a structurally valid payload whose
	// message type this package does not decode.
	ErrUnsupportedMessage = errors.New("ais: unsupported message type")
)

// Reporter collects per-record skip events during ingestion. The
// converter's warning aggregator satisfies this; a nil Reporter is
// allowed and discards events.
type Reporter interface {
	Add(warningType, exampleID string)
}

// Warning type constants reported during ingestion.
const (
	WarningMalformedRecord    = "malformed_record"
	WarningUnsupportedMessage = "unsupported_message"
	WarningNoTimestamp        = "no_timestamp"
	WarningNoLatLon           = "no_lat_lon"
)
