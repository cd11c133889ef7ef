package engine

import (
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in string
		y  int
		m  time.Month
		d  int
	}{
		{"15.12.2024", 2024, time.December, 15},
		{"15.12.24", 2024, time.December, 15},
		{"15/12/2024", 2024, time.December, 15},
		{"2024-12-15", 2024, time.December, 15},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", c.in, err)
			continue
		}
		if got.Year() != c.y || got.Month() != c.m || got.Day() != c.d {
			t.Errorf("ParseDate(%q) = %v, want %d-%02d-%02d", c.in, got, c.y, c.m, c.d)
		}
		if got.Hour() != 12 || got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) not pinned to noon UTC: %v", c.in, got)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "32.13.2024"} {
		if _, err := ParseDate(in); !IsValidation(err) {
			t.Errorf("ParseDate(%q): got %v, want validation error", in, err)
		}
	}
}

func TestValidateDateRejectsPast(t *testing.T) {
	past := time.Now().UTC().AddDate(0, 0, -1).Format("02.01.2006")
	if _, err := ValidateDate(past); !IsValidation(err) {
		t.Fatalf("yesterday accepted: %v", err)
	}

	today := time.Now().UTC().Format("02.01.2006")
	if _, err := ValidateDate(today); err != nil {
		t.Fatalf("today rejected: %v", err)
	}
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2024, time.March, 5, 17, 42, 0, 0, time.UTC)
	start, end := dayWindow(at)
	if start.Hour() != 0 || start.Day() != 5 {
		t.Fatalf("start = %v", start)
	}
	if end.Day() != 5 || end.Hour() != 23 {
		t.Fatalf("end = %v", end)
	}
	if !end.After(at) || !start.Before(at) {
		t.Fatalf("window [%v, %v] does not contain %v", start, end, at)
	}
}
