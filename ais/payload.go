package ais

import (
	"fmt"
	"math"
	"strings"
)

// payloadBits is a de-armored AIVDM payload: a bit string addressed the
// way the message tables are documented, MSB of the payload = bit 0.
type payloadBits struct {
	nbits int
	b     []byte // packed MSB-first
}

// dearmor removes the six-bit ASCII armor. Each character encodes six
// bits: take the code point, subtract 48, and if the result is greater
// than 40 subtract 8 more. pad is the number of fill bits at the end of
// the payload (the last field of the sentence); those are dropped.
func dearmor(armored string, pad int) (payloadBits, error) {
	p := payloadBits{b: make([]byte, 0, (len(armored)*6+7)/8)}
	var acc uint
	accBits := 0
	for i := 0; i < len(armored); i++ {
		v := int(armored[i]) - 48
		if v > 40 {
			v -= 8
		}
		if v < 0 || v > 63 {
			return payloadBits{}, fmt.Errorf("%w: armor character %q", ErrMalformedRecord, armored[i])
		}
		acc = acc<<6 | uint(v)
		accBits += 6
		for accBits >= 8 {
			accBits -= 8
			p.b = append(p.b, byte(acc>>accBits))
		}
	}
	if accBits > 0 {
		p.b = append(p.b, byte(acc<<(8-accBits)))
	}
	p.nbits = len(armored)*6 - pad
	if p.nbits <= 0 {
		return payloadBits{}, fmt.Errorf("%w: %d pad bits leave no payload", ErrMalformedRecord, pad)
	}
	return p, nil
}

// uint extracts an unsigned bitfield. start is numbered such that MSB=0.
// A field that runs off the end of the payload reports ok=false; short
// payloads are common and the field is simply absent.
func (p payloadBits) uint(start, width int) (uint64, bool) {
	if width <= 0 || width > 64 || start < 0 || start+width > p.nbits {
		return 0, false
	}
	var v uint64
	for i := start; i < start+width; i++ {
		v = v<<1 | uint64(p.b[i>>3]>>(7-uint(i&7))&1)
	}
	return v, true
}

// int extracts a two's-complement signed bitfield.
func (p payloadBits) int(start, width int) (int64, bool) {
	v, ok := p.uint(start, width)
	if !ok {
		return 0, false
	}
	if v&(1<<(width-1)) != 0 {
		return int64(v) - int64(1)<<width, true
	}
	return int64(v), true
}

// sixbitChars is the AIS text character table, indexed by six-bit value.
const sixbitChars = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

// text extracts a six-bit text field. The field ends at the first `@`
// (value 0) or at the declared width; trailing spaces are trimmed.
func (p payloadBits) text(start, width int) (string, bool) {
	var sb strings.Builder
	for i := 0; i < width/6; i++ {
		c, ok := p.uint(start+i*6, 6)
		if !ok {
			return "", false
		}
		if c == 0 {
			break
		}
		sb.WriteByte(sixbitChars[c])
	}
	return strings.TrimRight(sb.String(), " "), true
}

func (p payloadBits) flag(start int) (bool, bool) {
	v, ok := p.uint(start, 1)
	return v != 0, ok
}

// latlon scales a raw coordinate field: signed value in 1/10000 minute.
func (p payloadBits) latlon(start, width int) (float64, bool) {
	v, ok := p.int(start, width)
	if !ok {
		return 0, false
	}
	return float64(v) / (60 * 10000), true
}

// tenth scales an unsigned field recorded in tenths (speed, course, draft).
func (p payloadBits) tenth(start, width int) (float64, bool) {
	v, ok := p.uint(start, width)
	if !ok {
		return 0, false
	}
	return float64(v) / 10, true
}

// scaleTurn converts the raw rate-of-turn field to degrees per minute:
// 0 is no turn, magnitudes up to 126 map through 4.733*sqrt, 127 means
// turning faster than the scale (reported as +/-Inf), and -128 means no
// turn information (reported as NaN).
func scaleTurn(raw int64) float64 {
	switch {
	case raw == 0:
		return 0
	case raw >= -126 && raw <= 126:
		s := 1.0
		if raw < 0 {
			s = -1
		}
		return 4.733 * math.Sqrt(math.Abs(float64(raw))) * s
	case raw == 127:
		return math.Inf(1)
	case raw == -127:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
}
