// Package converter is the main entry point for track conversion.
//
// This package coordinates the format adapters and configuration to
// turn a recording set into tracks and tracks into documents:
//   - AIS recording logs via ais.Reader
//   - geotagged photo directories via photo.Scanner
//   - existing KML documents via kml.Read
//
// Per-record problems encountered by the adapters are aggregated in a
// WarningAggregator and logged as consolidated summaries at the end of
// a run rather than one line per record.
package converter
