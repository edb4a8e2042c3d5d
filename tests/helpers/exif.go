package helpers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TIFF field types used below.
const (
	tiffByte     = 1
	tiffASCII    = 2
	tiffRational = 5
	tiffLong     = 4
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

// GPSTIFF builds a minimal little-endian TIFF stream whose GPS
// directory geotags an image at lat/lon at the given UTC time. hasAlt
// adds a GPSAltitude record (negative altM means below sea level).
// EXIF readers accept the bare TIFF the same way they accept the APP1
// segment of a JPEG.
func GPSTIFF(lat, lon float64, altM float64, hasAlt bool, t time.Time) []byte {
	latRef, lonRef := "N", "E"
	if lat < 0 {
		latRef = "S"
	}
	if lon < 0 {
		lonRef = "W"
	}
	gps := []ifdEntry{
		{tag: 0x0001, typ: tiffASCII, count: 2, value: append([]byte(latRef), 0)},
		{tag: 0x0002, typ: tiffRational, count: 3, value: degreeRats(lat)},
		{tag: 0x0003, typ: tiffASCII, count: 2, value: append([]byte(lonRef), 0)},
		{tag: 0x0004, typ: tiffRational, count: 3, value: degreeRats(lon)},
	}
	if hasAlt {
		ref := byte(0)
		if altM < 0 {
			ref = 1
			altM = -altM
		}
		gps = append(gps,
			ifdEntry{tag: 0x0005, typ: tiffByte, count: 1, value: []byte{ref}},
			ifdEntry{tag: 0x0006, typ: tiffRational, count: 1, value: rational(uint32(math.Round(altM*100)), 100)},
		)
	}
	gps = append(gps,
		ifdEntry{tag: 0x0007, typ: tiffRational, count: 3, value: bytes.Join([][]byte{
			rational(uint32(t.Hour()), 1),
			rational(uint32(t.Minute()), 1),
			rational(uint32(t.Second()), 1),
		}, nil)},
		ifdEntry{tag: 0x001D, typ: tiffASCII, count: 11, value: append([]byte(t.Format("2006:01:02")), 0)},
	)

	// Header, then IFD0 holding only the GPS sub-IFD pointer, then the
	// GPS IFD with its out-of-line values.
	const ifd0Off = 8
	gpsOff := uint32(ifd0Off + 2 + 1*12 + 4)

	var buf bytes.Buffer
	buf.WriteString("II")
	le(&buf, uint16(42))
	le(&buf, uint32(ifd0Off))
	gpsPointer := make([]byte, 4)
	binary.LittleEndian.PutUint32(gpsPointer, gpsOff)
	writeIFD(&buf, ifd0Off, []ifdEntry{
		{tag: 0x8825, typ: tiffLong, count: 1, value: gpsPointer},
	})
	writeIFD(&buf, gpsOff, gps)
	return buf.Bytes()
}

// WriteGeotaggedImage drops a GPSTIFF stream into dir under name and
// returns its path.
func WriteGeotaggedImage(t *testing.T, dir, name string, lat, lon float64, altM float64, hasAlt bool, at time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, GPSTIFF(lat, lon, altM, hasAlt, at), 0o644); err != nil {
		t.Fatalf("write image fixture: %v", err)
	}
	return path
}

// WriteUntaggedImage drops a TIFF with no GPS directory into dir.
func WriteUntaggedImage(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("II")
	le(&buf, uint16(42))
	le(&buf, uint32(8))
	writeIFD(&buf, 8, []ifdEntry{
		{tag: 0x0132, typ: tiffASCII, count: 20, value: append([]byte("2022:07:04 12:00:00"), 0)},
	})
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write image fixture: %v", err)
	}
	return path
}

func writeIFD(buf *bytes.Buffer, off uint32, entries []ifdEntry) {
	dataOff := off + 2 + uint32(len(entries))*12 + 4
	var data bytes.Buffer
	le(buf, uint16(len(entries)))
	for _, e := range entries {
		le(buf, e.tag)
		le(buf, e.typ)
		le(buf, e.count)
		if len(e.value) <= 4 {
			v := make([]byte, 4)
			copy(v, e.value)
			buf.Write(v)
		} else {
			le(buf, dataOff+uint32(data.Len()))
			data.Write(e.value)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
	}
	le(buf, uint32(0))
	buf.Write(data.Bytes())
}

// degreeRats encodes |deg| as degree/minute/second rationals, seconds
// in thousandths.
func degreeRats(deg float64) []byte {
	deg = math.Abs(deg)
	d := math.Floor(deg)
	m := math.Floor((deg - d) * 60)
	s := ((deg-d)*60 - m) * 60
	return bytes.Join([][]byte{
		rational(uint32(d), 1),
		rational(uint32(m), 1),
		rational(uint32(math.Round(s*1000)), 1000),
	}, nil)
}

func rational(num, den uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b, num)
	binary.LittleEndian.PutUint32(b[4:], den)
	return b
}

func le(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("encode TIFF fixture: %v", err))
	}
}
