// Package photo extracts geotags from JPEG images.
//
// Each image yields at most one position: latitude and longitude from
// the EXIF GPS directory, altitude when the camera recorded one, and a
// timestamp preferably from the GPS clock (GPSDateStamp/GPSTimeStamp,
// already UTC) with the camera's DateTime as a fallback. The position
// carries the image path so exporters can link back to the photo.
// Images without GPS tags are skipped and counted, never fatal.
package photo
