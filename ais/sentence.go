package ais

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentence is one parsed !AIVDM NMEA sentence. A message may span
// several sentences; FragCount/FragIndex/FragID describe the split.
type Sentence struct {
	FragCount int
	FragIndex int
	FragID    int
	Channel   string
	Payload   string
	PadBits   int
}

// ParseSentence parses a raw !AIVDM sentence and verifies its checksum.
// The input must start at the '!' and may carry trailing CR/LF.
func ParseSentence(raw string) (Sentence, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if !strings.HasPrefix(raw, "!AIVDM,") {
		return Sentence{}, fmt.Errorf("%w: not an AIVDM sentence", ErrMalformedRecord)
	}
	star := strings.LastIndexByte(raw, '*')
	if star < 0 || star+3 > len(raw) {
		return Sentence{}, fmt.Errorf("%w: missing checksum", ErrMalformedRecord)
	}
	want, err := strconv.ParseUint(raw[star+1:star+3], 16, 8)
	if err != nil {
		return Sentence{}, fmt.Errorf("%w: bad checksum field %q", ErrMalformedRecord, raw[star+1:])
	}
	var sum byte
	for i := 1; i < star; i++ {
		sum ^= raw[i]
	}
	if sum != byte(want) {
		return Sentence{}, fmt.Errorf("%w: checksum 0x%02X, computed 0x%02X", ErrMalformedRecord, want, sum)
	}

	fields := strings.Split(raw[:star], ",")
	if len(fields) != 7 {
		return Sentence{}, fmt.Errorf("%w: %d fields", ErrMalformedRecord, len(fields))
	}
	var s Sentence
	if s.FragCount, err = strconv.Atoi(fields[1]); err != nil {
		return Sentence{}, fmt.Errorf("%w: fragment count %q", ErrMalformedRecord, fields[1])
	}
	if s.FragIndex, err = strconv.Atoi(fields[2]); err != nil {
		return Sentence{}, fmt.Errorf("%w: fragment index %q", ErrMalformedRecord, fields[2])
	}
	if fields[3] != "" {
		if s.FragID, err = strconv.Atoi(fields[3]); err != nil {
			return Sentence{}, fmt.Errorf("%w: fragment id %q", ErrMalformedRecord, fields[3])
		}
	}
	s.Channel = fields[4]
	s.Payload = fields[5]
	if s.PadBits, err = strconv.Atoi(fields[6]); err != nil {
		return Sentence{}, fmt.Errorf("%w: pad bits %q", ErrMalformedRecord, fields[6])
	}
	if s.FragCount < 1 || s.FragIndex < 1 || s.FragIndex > s.FragCount {
		return Sentence{}, fmt.Errorf("%w: fragment %d of %d", ErrMalformedRecord, s.FragIndex, s.FragCount)
	}
	if s.PadBits < 0 || s.PadBits > 5 {
		return Sentence{}, fmt.Errorf("%w: %d pad bits", ErrMalformedRecord, s.PadBits)
	}
	return s, nil
}

// assembler joins multi-sentence messages keyed by fragment id.
// Fragments are expected in order within an id; an out-of-order or
// restarted sequence discards the partial message.
type assembler struct {
	partial map[int][]Sentence
}

func newAssembler() *assembler {
	return &assembler{partial: make(map[int][]Sentence)}
}

// add takes the next sentence and returns the complete armored payload
// with its pad-bit count once a message is whole. done is false while
// fragments are still outstanding.
func (a *assembler) add(s Sentence) (payload string, pad int, done bool) {
	if s.FragCount == 1 {
		return s.Payload, s.PadBits, true
	}
	have := a.partial[s.FragID]
	if s.FragIndex != len(have)+1 {
		// Restarted or out-of-order sequence. Keep this fragment only
		// if it begins a new message.
		delete(a.partial, s.FragID)
		if s.FragIndex == 1 {
			a.partial[s.FragID] = []Sentence{s}
		}
		return "", 0, false
	}
	have = append(have, s)
	if len(have) < s.FragCount {
		a.partial[s.FragID] = have
		return "", 0, false
	}
	delete(a.partial, s.FragID)
	var b strings.Builder
	for _, frag := range have {
		b.WriteString(frag.Payload)
	}
	// Only the final fragment is padded.
	return b.String(), have[len(have)-1].PadBits, true
}
