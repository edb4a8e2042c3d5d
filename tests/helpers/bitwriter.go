package helpers

import (
	"fmt"
	"strings"
)

// BitWriter builds AIS payloads bit by bit for tests: append MSB-first
// fields, then armor the result into the six-bit ASCII a receiver would
// emit.
type BitWriter struct {
	bits []byte
}

// Put appends val as a width-bit big-endian field.
func (w *BitWriter) Put(width int, val uint64) {
	for i := width - 1; i >= 0; i-- {
		w.bits = append(w.bits, byte(val>>uint(i)&1))
	}
}

// PutInt appends a signed two's-complement field.
func (w *BitWriter) PutInt(width int, val int64) {
	w.Put(width, uint64(val)&(1<<uint(width)-1))
}

// PutText appends s in the AIS six-bit character set, padded with '@'
// to fill width bits. width must be a multiple of 6.
func (w *BitWriter) PutText(width int, s string) {
	n := width / 6
	for i := 0; i < n; i++ {
		var c byte
		if i < len(s) {
			c = s[i]
		} else {
			c = '@'
		}
		switch {
		case c >= 64 && c < 96:
			w.Put(6, uint64(c-64))
		case c >= 32 && c < 64:
			w.Put(6, uint64(c))
		default:
			panic(fmt.Sprintf("character %q not in six-bit set", c))
		}
	}
}

// Armor packs the accumulated bits into payload armoring, returning the
// armored string and the fill-bit count.
func (w *BitWriter) Armor() (payload string, pad int) {
	bits := w.bits
	pad = (6 - len(bits)%6) % 6
	for i := 0; i < pad; i++ {
		bits = append(bits, 0)
	}
	var b strings.Builder
	for i := 0; i < len(bits); i += 6 {
		var v byte
		for j := 0; j < 6; j++ {
			v = v<<1 | bits[i+j]
		}
		if v < 40 {
			v += 48
		} else {
			v += 56
		}
		b.WriteByte(v)
	}
	return b.String(), pad
}

// Sentence armors the payload into a single checksummed !AIVDM sentence.
func (w *BitWriter) Sentence() string {
	payload, pad := w.Armor()
	return AIVDMSentence(1, 1, "", "A", payload, pad)
}

// MultiSentence splits the armored payload into n checksummed fragments
// sharing fragment id.
func (w *BitWriter) MultiSentence(n, fragID int) []string {
	payload, pad := w.Armor()
	per := (len(payload) + n - 1) / n
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lo := i * per
		hi := lo + per
		if hi > len(payload) {
			hi = len(payload)
		}
		p := 0
		if i == n-1 {
			p = pad
		}
		out = append(out, AIVDMSentence(n, i+1, fmt.Sprintf("%d", fragID), "A", payload[lo:hi], p))
	}
	return out
}

// AIVDMSentence assembles one !AIVDM sentence with a valid checksum.
func AIVDMSentence(fragCount, fragIndex int, fragID, channel, payload string, pad int) string {
	body := fmt.Sprintf("AIVDM,%d,%d,%s,%s,%s,%d", fragCount, fragIndex, fragID, channel, payload, pad)
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return fmt.Sprintf("!%s*%02X", body, sum)
}
