package rollup

import (
	"sort"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

// RemainingAtWeekEnd computes the ending headcount for a week, clamped at
// zero: a retroactive edit can push the arithmetic negative but a barn
// never holds a negative flock.
func RemainingAtWeekEnd(depart, mortalite, sorties int) int {
	remaining := depart - mortalite - sorties
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WeekHistoryEntry is one week of a single (lot, batiment, sexe) dimension,
// as needed to chain starting headcounts. EffectifDepart is the explicitly
// saved value, nil when the week has none.
type WeekHistoryEntry struct {
	Semaine        string
	EffectifDepart *int
	MortaliteNbre  int
	Sorties        int
}

// DeriveStartingHeadcounts re-derives the effective starting headcount of
// every week in a dimension's history. A week without an explicit value
// inherits the previous week's ending headcount; the earliest week falls
// back to the placement headcount when a setup exists. Derivation runs over
// the full history on every call so retroactive edits can never leave a
// stale chained value behind.
func DeriveStartingHeadcounts(history []WeekHistoryEntry, misEnPlace *int) map[string]*int {
	ordered := make([]WeekHistoryEntry, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return models.CompareWeekLabels(ordered[i].Semaine, ordered[j].Semaine) < 0
	})

	departs := make(map[string]*int, len(ordered))
	var carried *int
	for i, week := range ordered {
		effective := week.EffectifDepart
		if effective == nil {
			if i == 0 {
				effective = misEnPlace
			} else {
				effective = carried
			}
		}
		departs[week.Semaine] = effective

		if effective != nil {
			remaining := RemainingAtWeekEnd(*effective, week.MortaliteNbre, week.Sorties)
			carried = &remaining
		} else {
			carried = nil
		}
	}
	return departs
}

// LastActiveStockAliment walks the dimension chain order (buildings as
// given, Mâle before Femelle within each) and returns the feed stock of
// the last dimension that has a saved setup. The value is a carried
// snapshot, never a sum. Nil when no dimension has a setup, or when the
// authoritative dimension has no stock record.
func LastActiveStockAliment(batiments []string, setups map[models.Dimension]*models.SetupRecord, stocks map[models.Dimension]*models.StockRecord) *float64 {
	var last *models.Dimension
	for _, dim := range models.Dimensions(batiments) {
		if setups[dim] != nil {
			d := dim
			last = &d
		}
	}
	if last == nil {
		return nil
	}
	stock := stocks[*last]
	if stock == nil {
		return nil
	}
	return stock.StockAliment
}
