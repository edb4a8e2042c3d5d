// Package kml serializes tracks to KML documents and reads them back.
//
// This package is organized into:
// - writer.go: manual XML serialization of the three document shapes
//   (placemark-per-position, LineString path, gx:Track)
// - reader.go: encoding/xml ingestion of Placemark/Point and gx:Track
//   documents
//
// Serialization is done manually for precise control over the output
// format, which mirrors documents Google Earth itself writes.
package kml
