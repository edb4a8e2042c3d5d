/*
Package track holds the common in-memory representation that every
ingestion format converts into and every exporter reads from.

A Track is an ordered sequence of timestamped positions describing one
continuous path. Adapters build tracks during ingestion (sorting their
input first; Append rejects out-of-order timestamps), hand them over,
and do not retain references. Exporters treat a Track as read-only.

# Basic Usage

	trk := track.New("MY SHIP 2023-05-08")
	for _, p := range decoded {
	    if err := trk.Append(p); err != nil {
	        // out of order or invalid coordinates
	    }
	}
	for p := range trk.Positions() {
	    // chronological order, restartable
	}
*/
package track
