package timeparsing

import (
	"testing"
	"time"
)

// Wednesday
var now = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

func TestParseCompactDuration(t *testing.T) {
	tests := []struct {
		in   string
		dir  Direction
		want time.Time
	}{
		{"+6h", Forward, now.Add(6 * time.Hour)},
		{"-1d", Forward, now.AddDate(0, 0, -1)},
		{"2w", Forward, now.AddDate(0, 0, 14)},
		{"2w", Backward, now.AddDate(0, 0, -14)},
		{"+2w", Backward, now.AddDate(0, 0, 14)},
		{"3m", Backward, now.AddDate(0, -3, 0)},
		{"1y", Forward, now.AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		got, err := ParseCompactDuration(tt.in, now, tt.dir)
		if err != nil {
			t.Errorf("ParseCompactDuration(%q) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseCompactDuration(%q, %v) = %v, want %v", tt.in, tt.dir, got, tt.want)
		}
	}
}

func TestCompactDurationRejects(t *testing.T) {
	for _, in := range []string{"", "d", "6", "+6x", "6 d", "1.5d", "--1d"} {
		if IsCompactDuration(in) {
			t.Errorf("IsCompactDuration(%q) = true", in)
		}
		if _, err := ParseCompactDuration(in, now, Forward); err == nil {
			t.Errorf("ParseCompactDuration(%q) succeeded", in)
		}
	}
}

func TestParseSinceDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := ParseSince("2024-01-31", now.In(loc))
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSinceRFC3339(t *testing.T) {
	got, err := ParseSince("2024-02-01T08:30:00Z", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSinceDurationIsInThePast(t *testing.T) {
	got, err := ParseSince("2w", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Before(now) {
		t.Errorf("ParseSince(2w) = %v, want a time before %v", got, now)
	}
	fwd, err := ParseRelativeTime("2w", now)
	if err != nil {
		t.Fatal(err)
	}
	if !fwd.After(now) {
		t.Errorf("ParseRelativeTime(2w) = %v, want a time after %v", fwd, now)
	}
}

func TestParseNaturalLanguage(t *testing.T) {
	tests := []struct {
		in      string
		wantDay time.Time
	}{
		{"yesterday", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"3 days ago", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseSince(tt.in, now)
		if err != nil {
			t.Errorf("ParseSince(%q) error: %v", tt.in, err)
			continue
		}
		y, m, d := got.Date()
		if y != tt.wantDay.Year() || m != tt.wantDay.Month() || d != tt.wantDay.Day() {
			t.Errorf("ParseSince(%q) = %v, want day %v", tt.in, got, tt.wantDay.Format("2006-01-02"))
		}
	}
}

func TestParseRejectsNonsense(t *testing.T) {
	for _, in := range []string{"", "   ", "banana"} {
		if _, err := ParseSince(in, now); err == nil {
			t.Errorf("ParseSince(%q) succeeded", in)
		}
	}
}
