package distance

import "testing"

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{0, "0.0 mi"},
		{1609, "1.0 mi"},     // 1609/1609.344 = 0.9998
		{19956, "12.4 mi"},   // 19956/1609.344 = 12.4001
		{160934, "100.0 mi"}, // 160934/1609.344 = 99.9997
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%d) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0 min"},
		{-5, "0 min"},
		{1, "1 min"},
		{60, "1 min"},
		{61, "2 min"},
		{1800, "30 min"},
		{3600, "1 hr"},
		{3660, "1 hr 1 min"},
		{5400, "1 hr 30 min"},
		{7200, "2 hr"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
