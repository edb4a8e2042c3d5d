// Package gpx serializes tracks as GPX 1.1 documents, the exchange
// format most handheld and sports devices accept.
package gpx

import (
	"strconv"
	"strings"
	"time"

	"github.com/globetrotter-project/globetrotter/track"
	"github.com/globetrotter-project/globetrotter/utils"
)

const (
	gpxHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\" ?>\n" +
		`<gpx xmlns="http://www.topografix.com/GPX/1/1" creator="globetrotter">`
	gpxFooter = "</gpx>\n"
)

// Document serializes a track as one <trk> with a <trkseg> per segment
// after splitting on reception gaps longer than gap.
func Document(t *track.Track, gap time.Duration) ([]byte, error) {
	if t.Len() == 0 {
		return nil, track.ErrEmptyTrack
	}
	var b strings.Builder
	b.WriteString(gpxHeader)
	b.WriteString("<trk><name>")
	b.WriteString(xmlEscape(t.Name))
	b.WriteString("</name>")
	for _, seg := range t.SplitGaps(gap) {
		b.WriteString("<trkseg>")
		for p := range seg.Positions() {
			b.WriteString(`<trkpt lat="`)
			b.WriteString(formatDeg(p.Lat))
			b.WriteString(`" lon="`)
			b.WriteString(formatDeg(p.Lon))
			b.WriteString(`">`)
			if p.AltM != nil {
				b.WriteString("<ele>")
				b.WriteString(formatDeg(*p.AltM))
				b.WriteString("</ele>")
			}
			b.WriteString("<time>")
			b.WriteString(utils.FormatUTC(p.Time))
			b.WriteString("</time></trkpt>")
		}
		b.WriteString("</trkseg>")
	}
	b.WriteString("</trk>")
	b.WriteString(gpxFooter)
	return []byte(b.String()), nil
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
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
