package kml

import (
	"strconv"
	"strings"
	"time"

	"github.com/globetrotter-project/globetrotter/track"
	"github.com/globetrotter-project/globetrotter/utils"
)

const (
	xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	kmlOpen   = `<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2" xmlns:kml="http://www.opengis.net/kml/2.2" xmlns:atom="http://www.w3.org/2005/Atom">`
	kmlClose  = "</kml>\n"

	pushpinIcon = "http://maps.google.com/mapfiles/kml/pushpin/ylw-pushpin.png"
	trackIcon   = "http://earth.google.com/images/kml-icons/track-directional/track-0.png"
)

// dayColors is the line color rotation, one RGB value per day of a
// multi-day recording set.
var dayColors = [...]string{
	"000000",
	"aa5500",
	"ff0000",
	"ffaa00",
	"ffff00",
	"00ff00",
	"0000ff",
	"aa00ff",
	"888888",
	"ffffff",
}

// TrackStyle selects the line styling of a gx:Track document.
type TrackStyle struct {
	// DayIndex picks the color from the day rotation.
	DayIndex int
	// LineWidth is the normal-state line width in pixels; the
	// highlight style is drawn two pixels wider. Zero means 6.
	LineWidth int
}

func (s TrackStyle) width() int {
	if s.LineWidth <= 0 {
		return 6
	}
	return s.LineWidth
}

// lineColor converts the day's RGB rotation entry to the aabbggrr byte
// order KML uses, at 0x99 opacity.
func lineColor(dayIndex int) string {
	rgb := dayColors[((dayIndex%len(dayColors))+len(dayColors))%len(dayColors)]
	return "99" + rgb[4:6] + rgb[2:4] + rgb[0:2]
}

// coord formats a coordinate with full precision, always keeping a
// decimal point so whole degrees read as "-74.0" rather than "-74".
func coord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Placemarks serializes a track as one Placemark with a Point per
// position. Positions carrying an image reference get it as their
// description so the viewer can link back to the photo.
func Placemarks(t *track.Track) ([]byte, error) {
	if t.Len() == 0 {
		return nil, track.ErrEmptyTrack
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(kmlOpen)
	b.WriteString("<Document><name>")
	b.WriteString(xmlEscape(t.Name))
	b.WriteString("</name>")
	writePushpinStyles(&b)
	for p := range t.Positions() {
		b.WriteString("<Placemark><name>")
		b.WriteString(utils.FormatUTC(p.Time))
		b.WriteString("</name><styleUrl>#m_ylw-pushpin</styleUrl>")
		if p.ImageRef != "" {
			b.WriteString("<description>")
			b.WriteString(xmlEscape(p.ImageRef))
			b.WriteString("</description>")
		}
		b.WriteString("<TimeStamp><when>")
		b.WriteString(utils.FormatUTC(p.Time))
		b.WriteString("</when></TimeStamp>")
		b.WriteString("<Point><coordinates>")
		b.WriteString(coord(p.Lon))
		b.WriteString(",")
		b.WriteString(coord(p.Lat))
		if p.AltM != nil {
			b.WriteString(",")
			b.WriteString(coord(*p.AltM))
		}
		b.WriteString("</coordinates></Point></Placemark>")
	}
	b.WriteString("</Document>")
	b.WriteString(kmlClose)
	return []byte(b.String()), nil
}

// Path serializes a track as a single tessellated LineString, the
// lightest document shape for a quick look at a route.
func Path(t *track.Track) ([]byte, error) {
	if t.Len() == 0 {
		return nil, track.ErrEmptyTrack
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(kmlOpen)
	b.WriteString("<Document><name>")
	b.WriteString(xmlEscape(t.Name))
	b.WriteString("</name>")
	writePushpinStyles(&b)
	b.WriteString("<Placemark><name>")
	b.WriteString(xmlEscape(t.Name))
	b.WriteString("</name><styleUrl>#m_ylw-pushpin</styleUrl>")
	b.WriteString("<LineString><tessellate>1</tessellate><coordinates>")
	for p := range t.Positions() {
		b.WriteString(coord(p.Lon))
		b.WriteString(",")
		b.WriteString(coord(p.Lat))
		b.WriteString(",0\n")
	}
	b.WriteString("</coordinates></LineString></Placemark>")
	b.WriteString("</Document>")
	b.WriteString(kmlClose)
	return []byte(b.String()), nil
}

// TrackDocument serializes a track as gx:Track placemarks, one per
// segment after splitting on reception gaps longer than gap.
func TrackDocument(t *track.Track, gap time.Duration, style TrackStyle) ([]byte, error) {
	if t.Len() == 0 {
		return nil, track.ErrEmptyTrack
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(kmlOpen)
	b.WriteString("<Document><name>")
	b.WriteString(xmlEscape(t.Name))
	b.WriteString("</name>")
	writeTrackStyles(&b, style)
	for _, seg := range t.SplitGaps(gap) {
		b.WriteString("<Placemark><name>")
		b.WriteString(xmlEscape(seg.Name))
		b.WriteString("</name><styleUrl>#multiTrack</styleUrl>")
		b.WriteString("<gx:balloonVisibility>1</gx:balloonVisibility>")
		b.WriteString("<gx:Track>")
		b.WriteString("<gx:altitudeMode>clampToSeaFloor</gx:altitudeMode>")
		for p := range seg.Positions() {
			b.WriteString("<when>")
			b.WriteString(utils.FormatUTC(p.Time))
			b.WriteString("</when>")
		}
		for p := range seg.Positions() {
			b.WriteString("<gx:coord>")
			b.WriteString(coord(p.Lon))
			b.WriteString(" ")
			b.WriteString(coord(p.Lat))
			b.WriteString(" ")
			if p.AltM != nil {
				b.WriteString(coord(*p.AltM))
			} else {
				b.WriteString("0")
			}
			b.WriteString("</gx:coord>")
		}
		b.WriteString("</gx:Track></Placemark>")
	}
	b.WriteString("</Document>")
	b.WriteString(kmlClose)
	return []byte(b.String()), nil
}

func writePushpinStyles(b *strings.Builder) {
	b.WriteString(`<Style id="s_ylw-pushpin"><IconStyle><scale>1.1</scale><Icon><href>`)
	b.WriteString(pushpinIcon)
	b.WriteString(`</href></Icon><hotSpot x="20" y="2" xunits="pixels" yunits="pixels"/></IconStyle></Style>`)
	b.WriteString(`<Style id="s_ylw-pushpin_hl"><IconStyle><scale>1.3</scale><Icon><href>`)
	b.WriteString(pushpinIcon)
	b.WriteString(`</href></Icon><hotSpot x="20" y="2" xunits="pixels" yunits="pixels"/></IconStyle></Style>`)
	b.WriteString(`<StyleMap id="m_ylw-pushpin">`)
	b.WriteString(`<Pair><key>normal</key><styleUrl>#s_ylw-pushpin</styleUrl></Pair>`)
	b.WriteString(`<Pair><key>highlight</key><styleUrl>#s_ylw-pushpin_hl</styleUrl></Pair>`)
	b.WriteString(`</StyleMap>`)
}

func writeTrackStyles(b *strings.Builder, style TrackStyle) {
	color := lineColor(style.DayIndex)
	b.WriteString(`<Style id="multiTrack_n"><IconStyle><Icon><href>`)
	b.WriteString(trackIcon)
	b.WriteString(`</href></Icon></IconStyle><LineStyle><color>`)
	b.WriteString(color)
	b.WriteString(`</color><width>`)
	b.WriteString(strconv.Itoa(style.width()))
	b.WriteString(`</width></LineStyle></Style>`)
	b.WriteString(`<Style id="multiTrack_h"><IconStyle><scale>1.2</scale><Icon><href>`)
	b.WriteString(trackIcon)
	b.WriteString(`</href></Icon></IconStyle><LineStyle><color>`)
	b.WriteString(color)
	b.WriteString(`</color><width>`)
	b.WriteString(strconv.Itoa(style.width() + 2))
	b.WriteString(`</width></LineStyle></Style>`)
	b.WriteString(`<StyleMap id="multiTrack">`)
	b.WriteString(`<Pair><key>normal</key><styleUrl>#multiTrack_n</styleUrl></Pair>`)
	b.WriteString(`<Pair><key>highlight</key><styleUrl>#multiTrack_h</styleUrl></Pair>`)
	b.WriteString(`</StyleMap>`)
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
