package converter

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Warning type constants
const (
	// AIS warnings
	WarningMalformedRecord    = "malformed_record"
	WarningUnsupportedMessage = "unsupported_message"
	WarningNoTimestamp        = "no_timestamp"
	WarningNoLatLon           = "no_lat_lon"

	// Photo warnings
	WarningMissingGPSTag   = "missing_gps_tag"
	WarningUnreadableImage = "unreadable_image"

	// KML warnings
	WarningUnsupportedGeometry = "unsupported_geometry"
	WarningBadCoordinates      = "bad_coordinates"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects warnings during conversion and outputs consolidated summaries
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count reports how many records hit the given warning type
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(dataset, source string) {
	if len(w.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(w.warnings))
	for warningType := range w.warnings {
		types = append(types, warningType)
	}
	sort.Strings(types)
	for _, warningType := range types {
		message := w.formatWarningMessage(warningType, dataset, source, w.warnings[warningType])
		log.Printf("%s", message)
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, dataset, source string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningMalformedRecord:
		description = "records that could not be parsed"
		action = "Skipping the record"
	case WarningUnsupportedMessage:
		description = "message types outside the decoded set"
		action = "Skipping the message"
	case WarningNoTimestamp:
		description = "records with no recoverable timestamp"
		action = "Skipping the position"
	case WarningNoLatLon:
		description = "position reports with no valid lat/lon"
		action = "Skipping the position"
	case WarningMissingGPSTag:
		description = "images with no GPS tags"
		action = "Skipping the image"
	case WarningUnreadableImage:
		description = "images whose EXIF data could not be read"
		action = "Skipping the image"
	case WarningUnsupportedGeometry:
		description = "placemarks without per-position timestamps"
		action = "Skipping the placemark"
	case WarningBadCoordinates:
		description = "placemarks with unparsable coordinates"
		action = "Skipping the position"
	default:
		description = "unknown issue"
		action = "Skipping the record"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("Dataset %s source %s has %s (%d occurrences). %s. Examples: %s",
		dataset, source, description, info.count, action, examplesStr)
}
