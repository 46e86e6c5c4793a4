package rollup

import (
	"reflect"
	"testing"
)

func intp(v int) *int { return &v }

func TestCumulateMortality(t *testing.T) {
	// Single dimension, effectifDepart 50, mortality [1, 0, 2] over three
	// consecutive dates.
	points := []DailyPoint{
		{Date: "2025-03-01", MortaliteNbre: 1, ConsoEauL: 120},
		{Date: "2025-03-02", MortaliteNbre: 0, ConsoEauL: 115},
		{Date: "2025-03-03", MortaliteNbre: 2, ConsoEauL: 130},
	}

	rows := CumulateMortality(points, intp(50))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantCumul := []int{1, 1, 3}
	wantCumulPct := []float64{2.00, 2.00, 6.00}
	for i, row := range rows {
		if row.MortaliteCumul != wantCumul[i] {
			t.Errorf("day %d cumul = %d, want %d", i+1, row.MortaliteCumul, wantCumul[i])
		}
		if row.MortaliteCumulPct == nil || *row.MortaliteCumulPct != wantCumulPct[i] {
			t.Errorf("day %d cumul pct = %v, want %.2f", i+1, row.MortaliteCumulPct, wantCumulPct[i])
		}
	}

	if rows[0].MortalitePct == nil || *rows[0].MortalitePct != 2.00 {
		t.Errorf("day 1 pct = %v, want 2.00", rows[0].MortalitePct)
	}
}

func TestCumulateMortalityUnsortedInput(t *testing.T) {
	points := []DailyPoint{
		{Date: "2025-03-03", MortaliteNbre: 2},
		{Date: "2025-03-01", MortaliteNbre: 1},
		{Date: "2025-03-02", MortaliteNbre: 0},
	}

	rows := CumulateMortality(points, intp(50))
	if rows[0].Date != "2025-03-01" || rows[2].Date != "2025-03-03" {
		t.Errorf("rows not in ascending date order: %v, %v, %v", rows[0].Date, rows[1].Date, rows[2].Date)
	}
	if rows[2].MortaliteCumul != 3 {
		t.Errorf("final cumul = %d, want 3", rows[2].MortaliteCumul)
	}
}

func TestCumulateMortalityWithoutDepart(t *testing.T) {
	points := []DailyPoint{
		{Date: "2025-03-01", MortaliteNbre: 4},
		{Date: "2025-03-02", MortaliteNbre: 1},
	}

	for _, depart := range []*int{nil, intp(0), intp(-5)} {
		rows := CumulateMortality(points, depart)
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		// Counts are still computed, percentages stay undefined.
		if rows[1].MortaliteCumul != 5 {
			t.Errorf("cumul = %d, want 5", rows[1].MortaliteCumul)
		}
		if rows[0].MortalitePct != nil || rows[1].MortaliteCumulPct != nil {
			t.Errorf("expected nil percentages for depart=%v", depart)
		}
	}
}

func TestCumulateMortalityDuplicateDates(t *testing.T) {
	// Duplicate dates within one scope are summed before cumulation.
	points := []DailyPoint{
		{Date: "2025-03-01", MortaliteNbre: 2, ConsoEauL: 50},
		{Date: "2025-03-01", MortaliteNbre: 3, ConsoEauL: 60},
		{Date: "2025-03-02", MortaliteNbre: 1, ConsoEauL: 55},
	}

	rows := CumulateMortality(points, intp(100))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].MortaliteNbre != 5 || rows[0].ConsoEauL != 110 {
		t.Errorf("merged day 1 = %d deaths, %.0f L; want 5, 110", rows[0].MortaliteNbre, rows[0].ConsoEauL)
	}
	if rows[1].MortaliteCumul != 6 {
		t.Errorf("day 2 cumul = %d, want 6", rows[1].MortaliteCumul)
	}
}

func TestCumulateMortalityIdempotent(t *testing.T) {
	points := []DailyPoint{
		{Date: "2025-03-02", AgeJour: intp(9), MortaliteNbre: 1, ConsoEauL: 80},
		{Date: "2025-03-01", AgeJour: intp(8), MortaliteNbre: 3, ConsoEauL: 75},
	}

	first := CumulateMortality(points, intp(200))
	second := CumulateMortality(points, intp(200))
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output on identical input")
	}
}

func TestMergeByDateMinAge(t *testing.T) {
	points := []DailyPoint{
		{Date: "2025-03-01", AgeJour: intp(10)},
		{Date: "2025-03-01", AgeJour: nil},
		{Date: "2025-03-01", AgeJour: intp(8)},
	}

	merged := MergeByDate(points)
	if len(merged) != 1 {
		t.Fatalf("got %d merged points, want 1", len(merged))
	}
	if merged[0].AgeJour == nil || *merged[0].AgeJour != 8 {
		t.Errorf("merged age = %v, want 8 (minimum non-null)", merged[0].AgeJour)
	}
}
