package prices

import (
	"time"

	"cryptofolio/internal/models"
)

// PercentChange returns the percentage change from oldPrice to newPrice.
// A zero baseline yields 0 rather than a division by zero.
func PercentChange(oldPrice, newPrice float64) float64 {
	if oldPrice == 0 {
		return 0
	}
	return (newPrice - oldPrice) / oldPrice * 100
}

// RollWindows advances the asset's rolling windows against a freshly
// observed market price. For each window in fixed order:
//
//   - an unset snapshot is initialized to current/now without recording a
//     change;
//   - an elapsed snapshot has its change percent recomputed and its
//     baseline rolled forward;
//   - anything else is left untouched.
//
// TotalChange is recomputed against MiddlePrice on every call regardless of
// window timing. RollWindows is the only writer of snapshot state; the
// report generator reads these fields but never advances them.
func RollWindows(a *models.Asset, current float64, now time.Time) {
	for _, p := range models.Periods {
		snapPrice, snapTS := a.SnapshotFor(p)
		switch {
		case snapPrice == nil || snapTS == nil:
			a.SetSnapshot(p, current, now)
		case now.Sub(*snapTS) >= models.PeriodDurations[p]:
			a.SetChange(p, PercentChange(*snapPrice, current))
			a.SetSnapshot(p, current, now)
		}
	}

	a.TotalChange = PercentChange(a.MiddlePrice, current)
}
