package rollup

import (
	"github.com/seydifall/dindetrack/internal/domain/models"
)

// DimensionData bundles everything fetched for one (building, sex)
// dimension. Any field may be nil/empty: a missing or failed fetch
// contributes zero to every sum and is otherwise ignored.
type DimensionData struct {
	Setup      *models.SetupRecord
	Daily      []models.DailyTrackingRecord
	Production *models.ProductionRecord
	Stock      *models.StockRecord

	// EffectifDepart is the resolved starting headcount for the week,
	// after first-by-date extraction and carry-forward chaining.
	EffectifDepart *int
}

// FirstDepart extracts the starting headcount a dimension's tracking rows
// declare for the week. The value may repeat on every daily row; only the
// first row by date counts, so a repeated value is never re-summed.
func FirstDepart(daily []models.DailyTrackingRecord) *int {
	var first *int
	var firstDate string
	for _, rec := range daily {
		if rec.EffectifDepart == nil {
			continue
		}
		if first == nil || rec.RecordDate < firstDate {
			first = rec.EffectifDepart
			firstDate = rec.RecordDate
		}
	}
	return first
}

// Merge collapses per-dimension data into the lot-level weekly summary.
// Buildings must be in chain order (defaults first, extras in creation
// order); the order drives the last-active-setup rule for feed stock.
func Merge(farmID, lot, semaine string, batiments []string, data map[models.Dimension]DimensionData) *models.WeeklySummary {
	summary := &models.WeeklySummary{
		FarmID:         farmID,
		Lot:            lot,
		Semaine:        semaine,
		Setups:         []models.SetupRecord{},
		AggregatedRows: []models.AggregatedRow{},
	}

	var points []DailyPoint
	var totalDepart *int
	setups := make(map[models.Dimension]*models.SetupRecord, len(data))
	stocks := make(map[models.Dimension]*models.StockRecord, len(data))

	for _, dim := range models.Dimensions(batiments) {
		dd, ok := data[dim]
		if !ok {
			continue
		}
		setups[dim] = dd.Setup
		stocks[dim] = dd.Stock

		if dd.Setup != nil {
			summary.Setups = append(summary.Setups, *dd.Setup)
		}
		for _, rec := range dd.Daily {
			points = append(points, DailyPoint{
				Date:          rec.RecordDate,
				AgeJour:       rec.AgeJour,
				MortaliteNbre: int(rec.MortaliteNbre),
				ConsoEauL:     float64(rec.ConsoEauL),
			})
		}
		if dd.Production != nil {
			summary.Production.Add(*dd.Production)
		}
		if dd.Stock != nil {
			summary.Stock.PoidsVifProduitKg += float64(dd.Stock.PoidsVifProduitKg)
		}
		if dd.EffectifDepart != nil {
			if totalDepart == nil {
				totalDepart = new(int)
			}
			*totalDepart += *dd.EffectifDepart
		}
	}

	summary.EffectifDepart = totalDepart
	summary.AggregatedRows = CumulateMortality(points, totalDepart)

	totalMortalite := 0
	for _, p := range MergeByDate(points) {
		totalMortalite += p.MortaliteNbre
		summary.WeeklyTotals.ConsoEauL += p.ConsoEauL
	}
	summary.WeeklyTotals.MortaliteNbre = totalMortalite
	if totalDepart != nil && *totalDepart > 0 {
		summary.WeeklyTotals.MortalitePct = ptr(percent(totalMortalite, *totalDepart))
	}

	// The ending headcount comes from merged totals, never from summing
	// each dimension's own stock snapshot: per-dimension chains would
	// double-count after a retroactive edit.
	depart := 0
	if totalDepart != nil {
		depart = *totalDepart
	}
	summary.Stock.EffectifRestantFinSemaine = RemainingAtWeekEnd(depart, totalMortalite, summary.Production.Sorties())
	summary.Stock.StockAliment = LastActiveStockAliment(batiments, setups, stocks)

	return summary
}
