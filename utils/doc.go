// Package utils provides internal utility functions for the globetrotter
// converters. This package is not intended to be imported by external code.
//
// It contains:
//   - Time formatting and parsing for KML/GPX timestamps
//   - Distance conversion and formatting
package utils
