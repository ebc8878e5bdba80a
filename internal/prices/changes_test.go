package prices

import (
	"math"
	"testing"
	"time"

	"cryptofolio/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		oldPrice float64
		newPrice float64
		want     float64
	}{
		{name: "increase", oldPrice: 100, newPrice: 125, want: 25},
		{name: "decrease", oldPrice: 200, newPrice: 150, want: -25},
		{name: "unchanged", oldPrice: 50, newPrice: 50, want: 0},
		{name: "zero_baseline_guard", oldPrice: 0, newPrice: 42, want: 0},
		{name: "to_zero", oldPrice: 80, newPrice: 0, want: -100},
		{name: "fractional", oldPrice: 3, newPrice: 4, want: 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.oldPrice, tt.newPrice)
			if !almostEqual(got, tt.want) {
				t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.oldPrice, tt.newPrice, got, tt.want)
			}
		})
	}
}

func TestRollWindowsInitializesUnsetSnapshots(t *testing.T) {
	a := &models.Asset{Kind: models.AssetKindCrypto, MiddlePrice: 100}
	now := time.Now()

	RollWindows(a, 110, now)

	for _, p := range models.Periods {
		price, ts := a.SnapshotFor(p)
		if price == nil || ts == nil {
			t.Fatalf("window %s not initialized", p)
		}
		if *price != 110 {
			t.Errorf("window %s snapshot price = %v, want 110", p, *price)
		}
		if !ts.Equal(now) {
			t.Errorf("window %s snapshot time = %v, want %v", p, *ts, now)
		}
		if got := a.ChangeFor(p); got != 0 {
			t.Errorf("window %s change recorded on initialization: %v", p, got)
		}
	}

	if !almostEqual(a.TotalChange, 10) {
		t.Errorf("TotalChange = %v, want 10", a.TotalChange)
	}
}

func TestRollWindowsNoPrematureRollover(t *testing.T) {
	now := time.Now()
	past := now.Add(-23 * time.Hour)

	a := &models.Asset{Kind: models.AssetKindCrypto, MiddlePrice: 100}
	RollWindows(a, 100, past)

	RollWindows(a, 150, now)

	for _, p := range models.Periods {
		price, ts := a.SnapshotFor(p)
		if *price != 100 {
			t.Errorf("window %s rolled early: snapshot price = %v, want 100", p, *price)
		}
		if !ts.Equal(past) {
			t.Errorf("window %s timestamp advanced early", p)
		}
		if got := a.ChangeFor(p); got != 0 {
			t.Errorf("window %s change recorded early: %v", p, got)
		}
	}

	if !almostEqual(a.TotalChange, 50) {
		t.Errorf("TotalChange = %v, want 50", a.TotalChange)
	}
}

func TestRollWindowsRollsElapsedWindowsOnly(t *testing.T) {
	now := time.Now()
	// Daily and weekly have elapsed, the longer windows have not.
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)

	a := &models.Asset{Kind: models.AssetKindNFT, MiddlePrice: 10}
	RollWindows(a, 10, eightDaysAgo)

	RollWindows(a, 12, now)

	for _, p := range []models.Period{models.PeriodDaily, models.PeriodWeekly} {
		price, ts := a.SnapshotFor(p)
		if *price != 12 {
			t.Errorf("window %s snapshot price = %v, want 12", p, *price)
		}
		if !ts.Equal(now) {
			t.Errorf("window %s timestamp not rolled", p)
		}
		if change := a.ChangeFor(p); !almostEqual(change, 20) {
			t.Errorf("window %s change = %v, want 20", p, change)
		}
	}

	for _, p := range []models.Period{models.PeriodMonthly, models.PeriodQuarterly, models.PeriodYearly} {
		price, ts := a.SnapshotFor(p)
		if *price != 10 {
			t.Errorf("window %s rolled early: snapshot price = %v, want 10", p, *price)
		}
		if !ts.Equal(eightDaysAgo) {
			t.Errorf("window %s timestamp advanced early", p)
		}
		if got := a.ChangeFor(p); got != 0 {
			t.Errorf("window %s change recorded early: %v", p, got)
		}
	}
}

func TestRollWindowsZeroSnapshotBaseline(t *testing.T) {
	now := time.Now()
	twoDaysAgo := now.Add(-48 * time.Hour)

	a := &models.Asset{Kind: models.AssetKindCrypto}
	RollWindows(a, 0, twoDaysAgo)

	RollWindows(a, 100, now)

	// Zero baseline rolls forward without a divide-by-zero blowup.
	if change := a.ChangeFor(models.PeriodDaily); change != 0 {
		t.Errorf("daily change = %v, want 0 for zero baseline", change)
	}
	price, _ := a.SnapshotFor(models.PeriodDaily)
	if *price != 100 {
		t.Errorf("daily snapshot price = %v, want 100 after roll", *price)
	}
}
