package ffmpeg

import "testing"

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		want  float64
		found bool
	}{
		{
			"single block us",
			"frame=100\nout_time_us=1500000\nprogress=continue\n",
			1.5, true,
		},
		{
			"last block wins",
			"out_time_us=1000000\nprogress=continue\nout_time_us=2500000\nprogress=end\n",
			2.5, true,
		},
		{
			"ms synonym is microseconds",
			"out_time_ms=3000000\n",
			3.0, true,
		},
		{
			"clock fallback",
			"out_time=00:01:30.500000\nprogress=continue\n",
			90.5, true,
		},
		{
			"negative value skipped",
			"out_time_us=-9223372036854775808\n",
			0, false,
		},
		{
			"no markers",
			"frame=1\nfps=25\n",
			0, false,
		},
		{
			"empty",
			"",
			0, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ParseProgress([]byte(tt.data))
			if got != tt.want || found != tt.found {
				t.Errorf("ParseProgress = %v, %v; want %v, %v", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		elapsed, total float64
		want           int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{1, 3, 33},   // truncates, never rounds up
		{99.9, 100, 99},
		{150, 100, 100}, // clamped
		{-5, 100, 0},
		{10, 0, -1}, // unknown total is indeterminate
		{10, -1, -1},
	}
	for _, tt := range tests {
		if got := Percentage(tt.elapsed, tt.total); got != tt.want {
			t.Errorf("Percentage(%v, %v) = %d, want %d", tt.elapsed, tt.total, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"00:00:00.000000", 0, true},
		{"01:02:03.500000", 3723.5, true},
		{"N/A", 0, false},
		{"12:34", 0, false},
		{"-1:00:00.0", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if got != tt.want || ok != tt.valid {
			t.Errorf("parseClock(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}
