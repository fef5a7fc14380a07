package temporal

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

var now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func sec(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

func TestIsValidDuration(t *testing.T) {
	p := config.DefaultPolicy()
	p.TierBound = 24 * time.Hour
	v := NewValidator(p)

	testCases := []struct {
		d    time.Duration
		want bool
	}{
		{d: 0, want: false},
		{d: sec(59), want: false},
		{d: sec(60), want: true},
		{d: time.Hour, want: true},
		{d: 24 * time.Hour, want: true},
		{d: 24*time.Hour + time.Second, want: false},
		{d: -time.Minute, want: false},
	}
	for _, c := range testCases {
		if got := v.IsValidDuration(c.d); got != c.want {
			t.Errorf("IsValidDuration(%v) = %v, want %v", c.d, got, c.want)
		}
		if err := v.CheckDuration(c.d); (err == nil) != c.want {
			t.Errorf("CheckDuration(%v) = %v", c.d, err)
		} else if err != nil && !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("CheckDuration(%v) returned %v, want ErrInvalidDuration", c.d, err)
		}
	}
}

func TestValidateRange(t *testing.T) {
	v := NewValidator(config.DefaultPolicy())
	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "future range",
			start: now.Add(sec(10)),
			end:   now.Add(sec(20)),
			want:  true,
		},
		{
			name:  "start not in the future",
			start: now.Add(-sec(10)),
			end:   now.Add(sec(20)),
			want:  false,
		},
		{
			name:  "start equals now",
			start: now,
			end:   now.Add(sec(20)),
			want:  false,
		},
		{
			name:  "end before start",
			start: now.Add(sec(10)),
			end:   now.Add(sec(5)),
			want:  false,
		},
		{
			name:  "empty range",
			start: now.Add(sec(10)),
			end:   now.Add(sec(10)),
			want:  false,
		},
		{
			name:  "exactly the tier bound",
			start: now.Add(sec(1)),
			end:   now.Add(sec(1) + config.DefaultMaxDuration),
			want:  true,
		},
		{
			name:  "beyond the tier bound",
			start: now.Add(sec(1)),
			end:   now.Add(sec(2) + config.DefaultMaxDuration),
			want:  false,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			if got := v.ValidateRange(c.start, c.end, now); got != c.want {
				t.Errorf("ValidateRange = %v, want %v", got, c.want)
			}
			err := v.CheckRange(c.start, c.end, now)
			if c.want && err != nil {
				t.Errorf("CheckRange returned %v", err)
			}
			if !c.want && !errors.Is(err, ErrInvalidTimeRange) {
				t.Errorf("CheckRange returned %v, want ErrInvalidTimeRange", err)
			}
		})
	}
}

func TestValidateRangeUsesTierBound(t *testing.T) {
	p := config.DefaultPolicy()
	p.TierBound = time.Hour
	v := NewValidator(p)

	if v.ValidateRange(now.Add(sec(1)), now.Add(sec(1)+time.Hour+time.Second), now) {
		t.Errorf("range longer than the tier bound accepted")
	}
	if !v.ValidateRange(now.Add(sec(1)), now.Add(sec(1)+time.Hour), now) {
		t.Errorf("range equal to the tier bound rejected")
	}
}

func TestValidateSlice(t *testing.T) {
	v := NewValidator(config.DefaultPolicy())
	testCases := []struct {
		name    string
		slice   asset.TimeSlice
		wantErr error
	}{
		{
			name:  "future slice",
			slice: asset.TimeSlice{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		},
		{
			name:    "ended",
			slice:   asset.TimeSlice{StartTime: now.Add(-2 * time.Hour), EndTime: now},
			wantErr: ErrSliceExpired,
		},
		{
			name:    "running",
			slice:   asset.TimeSlice{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
			wantErr: ErrSliceNotAvailable,
		},
		{
			name: "longer than a year",
			slice: asset.TimeSlice{
				StartTime: now.Add(time.Hour),
				EndTime:   now.Add(time.Hour + config.DefaultMaxDuration + time.Second),
			},
			wantErr: ErrInvalidDuration,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			err := v.ValidateSlice(c.slice, now)
			if c.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("got %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestContains(t *testing.T) {
	start, end := now, now.Add(time.Hour)
	testCases := []struct {
		name       string
		inStart    time.Time
		inEnd      time.Time
		wantInside bool
	}{
		{name: "whole interval", inStart: start, inEnd: end, wantInside: true},
		{name: "strictly inside", inStart: start.Add(time.Minute), inEnd: end.Add(-time.Minute), wantInside: true},
		{name: "starts before", inStart: start.Add(-time.Second), inEnd: end, wantInside: false},
		{name: "ends after", inStart: start, inEnd: end.Add(time.Second), wantInside: false},
		{name: "empty", inStart: start.Add(time.Minute), inEnd: start.Add(time.Minute), wantInside: false},
		{name: "inverted", inStart: end, inEnd: start, wantInside: false},
	}
	for _, c := range testCases {
		if got := Contains(start, end, c.inStart, c.inEnd); got != c.wantInside {
			t.Errorf("%s: Contains = %v, want %v", c.name, got, c.wantInside)
		}
	}
}
