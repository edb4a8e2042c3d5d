package unit

import (
	"strings"
	"testing"
	"time"

	"github.com/globetrotter-project/globetrotter/utils"
)

func TestFormatUTC(t *testing.T) {
	in := time.Date(2022, 7, 4, 18, 30, 41, 500_000_000, time.FixedZone("MDT", -6*3600))
	if got := utils.FormatUTC(in); got != "2022-07-05T00:30:41Z" {
		t.Errorf("FormatUTC = %q, want 2022-07-05T00:30:41Z", got)
	}
}

func TestParseUTC(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2022-07-04T18:30:41Z", time.Date(2022, 7, 4, 18, 30, 41, 0, time.UTC)},
		{"2022-07-04T18:30:41.25Z", time.Date(2022, 7, 4, 18, 30, 41, 250_000_000, time.UTC)},
		{"2022-07-04T12:30:41-06:00", time.Date(2022, 7, 4, 18, 30, 41, 0, time.UTC)},
		{"2022-07-04T18:30:41", time.Date(2022, 7, 4, 18, 30, 41, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := utils.ParseUTC(tc.in)
		if err != nil {
			t.Errorf("ParseUTC(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseUTC(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := utils.ParseUTC("last tuesday"); err == nil {
		t.Error("garbage timestamp accepted")
	}
}

func TestPresentableDistance(t *testing.T) {
	if got := utils.PresentableDistance(0.5); got != "500 m" {
		t.Errorf("PresentableDistance(0.5) = %q, want 500 m", got)
	}
	got := utils.PresentableDistance(18.52)
	if !strings.HasPrefix(got, "10.0 nm") {
		t.Errorf("PresentableDistance(18.52) = %q, want 10.0 nm prefix", got)
	}
}
