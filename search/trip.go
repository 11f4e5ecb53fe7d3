package search

import (
	"cmp"
	"slices"
	"time"

	"github.com/poiesic/glimpse/core"
)

// byDateDesc orders assets newest first, breaking ties by ID.
func byDateDesc(a, b *core.Asset) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// MostRecentTrip splits assets into runs whose consecutive creation dates
// are at most maxGap apart and returns the IDs of the newest run.
func MostRecentTrip(assets []*core.Asset, maxGap time.Duration) core.IDSet {
	trip := core.NewIDSet()
	if len(assets) == 0 {
		return trip
	}

	sorted := slices.Clone(assets)
	slices.SortFunc(sorted, byDateDesc)

	trip.Add(sorted[0].ID)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].CreatedAt.Sub(sorted[i].CreatedAt) > maxGap {
			break
		}
		trip.Add(sorted[i].ID)
	}
	return trip
}
