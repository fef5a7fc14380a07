package rarity

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

func TestScore(t *testing.T) {
	e := NewEngine(config.DefaultPolicy())
	testCases := []struct {
		name       string
		d          time.Duration
		historical uint64
		special    uint64
		want       uint64
	}{
		{name: "one hour no events", d: time.Hour, want: 60},
		{name: "one hour with events", d: time.Hour, historical: 2, special: 1, want: 102},
		{name: "minimum duration", d: time.Minute, want: 1},
		{name: "below minimum floors to zero", d: 59 * time.Second, want: 0},
		{name: "fraction floors", d: 90 * time.Second, historical: 1, want: 1},
		{name: "special events", d: 2 * time.Minute, special: 3, want: 5},
		{name: "historical adds tenths", d: 10 * time.Minute, historical: 3, want: 13},
		{name: "zero duration", d: 0, historical: 10, want: 0},
		{name: "negative duration", d: -time.Hour, want: 0},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, e.Score(c.d, c.historical, c.special))
		})
	}
}

func TestScoreSaturates(t *testing.T) {
	e := NewEngine(config.DefaultPolicy())
	require.Equal(t, uint64(math.MaxUint64), e.Score(config.DefaultMaxDuration, math.MaxUint64, math.MaxUint64))
}

func TestScoreUsesPolicyUnit(t *testing.T) {
	p := config.DefaultPolicy()
	p.MinDuration = time.Hour
	e := NewEngine(p)
	require.Equal(t, uint64(24), e.Score(24*time.Hour, 0, 0))
}

func TestEstimateValue(t *testing.T) {
	e := NewEngine(config.DefaultPolicy())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		d      time.Duration
		rarity uint64
		want   string
	}{
		{name: "two minutes rarity five", d: 2 * time.Minute, rarity: 5, want: "3"},
		{name: "one hour common", d: time.Hour, rarity: 0, want: "60"},
		{name: "ninety seconds", d: 90 * time.Second, rarity: 1, want: "1.65"},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			got := e.EstimateValue(asset.TimeSlice{
				StartTime:   start,
				EndTime:     start.Add(c.d),
				RarityScore: c.rarity,
			})
			require.True(t, got.Equal(decimal.RequireFromString(c.want)), "got %s want %s", got, c.want)
		})
	}
}
