/*
Package ais reads shipboard AIS recordings and converts them into tracks.

Sentence grammar follows the AIVDM/AIVDO description published with gpsd
(https://gpsd.gitlab.io/gpsd/AIVDM.html). On top of that, recordings made
by the shipboard receiver carry a few extra layers, inconsistently
applied:

 1. Files are roughly ten-minute chunks, optionally bzip2 or gzip
    compressed, named after their start time in either the ttycat
    pattern (prefix_YYMMDD_HHNNSS.nmea[.bz2], UTC) or the PuTTY log
    pattern (prefixYYYY-MM-DDTHHNNSS.log, recorder local time).
 2. Lines are CRLF delimited.
 3. Most lines carry a prepended ISO timestamp. Some have a bad century
    (year 01xx instead of 20xx); all data was recorded after AD 2000, so
    the century is reconstructed as 2000 + year mod 100.
 4. Between sentences the receiver emits debug lines of the form
    "Radio1  Channel=A RSSI=-75dBm MsgType=1 MMSI=311042900", and PuTTY
    session headers stamped in local time.
 5. AIVDM payloads are six-bit ASCII armored; multi-fragment messages
    are reassembled by fragment ID before decoding.

Malformed sentences are skipped and reported, never fatal. Messages with
no recoverable timestamp or no valid coordinates are likewise skipped
and reported.
*/
package ais
