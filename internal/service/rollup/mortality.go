package rollup

import (
	"math"
	"sort"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

// DailyPoint is the minimal per-date input of the cumulative mortality
// calculation, after any cross-dimension merge.
type DailyPoint struct {
	Date          string
	AgeJour       *int
	MortaliteNbre int
	ConsoEauL     float64
}

// CumulateMortality turns a per-date mortality series into aggregated rows
// with daily percentage, running cumulative count and cumulative
// percentage. Rows sharing a date are summed before cumulation. Percentage
// fields stay nil when effectifDepart is nil or not strictly positive; the
// cumulative count is computed regardless.
func CumulateMortality(points []DailyPoint, effectifDepart *int) []models.AggregatedRow {
	merged := MergeByDate(points)

	var depart int
	havePct := effectifDepart != nil && *effectifDepart > 0
	if havePct {
		depart = *effectifDepart
	}

	rows := make([]models.AggregatedRow, 0, len(merged))
	cumul := 0
	for _, p := range merged {
		cumul += p.MortaliteNbre
		row := models.AggregatedRow{
			Date:           p.Date,
			AgeJour:        p.AgeJour,
			MortaliteNbre:  p.MortaliteNbre,
			MortaliteCumul: cumul,
			ConsoEauL:      p.ConsoEauL,
		}
		if havePct {
			row.MortalitePct = ptr(percent(p.MortaliteNbre, depart))
			row.MortaliteCumulPct = ptr(percent(cumul, depart))
		}
		rows = append(rows, row)
	}
	return rows
}

// MergeByDate groups points by their ISO date, summing mortality and water
// consumption and keeping the minimum known age. Output is in ascending
// date order; lexicographic order on YYYY-MM-DD strings is chronological.
func MergeByDate(points []DailyPoint) []DailyPoint {
	byDate := make(map[string]*DailyPoint, len(points))
	for _, p := range points {
		existing, ok := byDate[p.Date]
		if !ok {
			cp := p
			byDate[p.Date] = &cp
			continue
		}
		existing.MortaliteNbre += p.MortaliteNbre
		existing.ConsoEauL += p.ConsoEauL
		if p.AgeJour != nil && (existing.AgeJour == nil || *p.AgeJour < *existing.AgeJour) {
			existing.AgeJour = p.AgeJour
		}
	}

	merged := make([]DailyPoint, 0, len(byDate))
	for _, p := range byDate {
		merged = append(merged, *p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
	return merged
}

// percent computes count/total*100 rounded to two decimals.
func percent(count, total int) float64 {
	rate := float64(count) / float64(total) * 100
	return math.Round(rate*100) / 100
}

func ptr(v float64) *float64 { return &v }
