package rollup

import (
	"testing"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

func TestRemainingAtWeekEnd(t *testing.T) {
	if got := RemainingAtWeekEnd(100, 3, 50); got != 47 {
		t.Errorf("remaining = %d, want 47", got)
	}
	// Clamped at zero, never negative.
	if got := RemainingAtWeekEnd(10, 8, 5); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
	if got := RemainingAtWeekEnd(0, 0, 0); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}

func TestDeriveStartingHeadcountsChaining(t *testing.T) {
	// Week 2 has no explicit value; week 1 ends at 47.
	history := []WeekHistoryEntry{
		{Semaine: "S1", EffectifDepart: intp(50), MortaliteNbre: 3, Sorties: 0},
		{Semaine: "S2"},
	}

	departs := DeriveStartingHeadcounts(history, nil)
	if departs["S2"] == nil || *departs["S2"] != 47 {
		t.Errorf("S2 depart = %v, want 47", departs["S2"])
	}
}

func TestDeriveStartingHeadcountsExplicitWins(t *testing.T) {
	history := []WeekHistoryEntry{
		{Semaine: "S1", EffectifDepart: intp(50), MortaliteNbre: 3},
		{Semaine: "S2", EffectifDepart: intp(60)},
	}

	departs := DeriveStartingHeadcounts(history, nil)
	if departs["S2"] == nil || *departs["S2"] != 60 {
		t.Errorf("S2 depart = %v, want explicit 60", departs["S2"])
	}
}

func TestDeriveStartingHeadcountsMultiWeekChain(t *testing.T) {
	// Chain runs through several implicit weeks; entries arrive unsorted
	// and S10 must come after S2.
	history := []WeekHistoryEntry{
		{Semaine: "S10"},
		{Semaine: "S2", MortaliteNbre: 2, Sorties: 10},
		{Semaine: "S1", EffectifDepart: intp(100), MortaliteNbre: 5},
	}

	departs := DeriveStartingHeadcounts(history, nil)
	if departs["S2"] == nil || *departs["S2"] != 95 {
		t.Errorf("S2 depart = %v, want 95", departs["S2"])
	}
	if departs["S10"] == nil || *departs["S10"] != 83 {
		t.Errorf("S10 depart = %v, want 83", departs["S10"])
	}
}

func TestDeriveStartingHeadcountsPlacementFallback(t *testing.T) {
	history := []WeekHistoryEntry{
		{Semaine: "S1", MortaliteNbre: 2},
		{Semaine: "S2"},
	}

	// First week without an explicit value falls back to the placement
	// headcount from the setup.
	departs := DeriveStartingHeadcounts(history, intp(500))
	if departs["S1"] == nil || *departs["S1"] != 500 {
		t.Errorf("S1 depart = %v, want 500", departs["S1"])
	}
	if departs["S2"] == nil || *departs["S2"] != 498 {
		t.Errorf("S2 depart = %v, want 498", departs["S2"])
	}

	// No setup either: the whole chain stays unknown.
	departs = DeriveStartingHeadcounts(history, nil)
	if departs["S1"] != nil || departs["S2"] != nil {
		t.Errorf("expected unknown departs, got S1=%v S2=%v", departs["S1"], departs["S2"])
	}
}

func TestLastActiveStockAliment(t *testing.T) {
	b1m := models.Dimension{Batiment: "B1", Sexe: models.SexeMale}
	b2f := models.Dimension{Batiment: "B2", Sexe: models.SexeFemelle}
	b3m := models.Dimension{Batiment: "B3", Sexe: models.SexeMale}

	feed240 := 240.5
	feed100 := 100.0
	setups := map[models.Dimension]*models.SetupRecord{
		b1m: {Batiment: "B1", Sexe: models.SexeMale},
		b2f: {Batiment: "B2", Sexe: models.SexeFemelle},
	}
	stocks := map[models.Dimension]*models.StockRecord{
		b1m: {StockAliment: &feed100},
		b2f: {StockAliment: &feed240},
		b3m: {StockAliment: &feed100},
	}

	// B2/Femelle is the last dimension in chain order with a saved setup;
	// B3's stock is ignored because it has no setup.
	got := LastActiveStockAliment([]string{"B1", "B2", "B3"}, setups, stocks)
	if got == nil || *got != 240.5 {
		t.Errorf("stock aliment = %v, want 240.5", got)
	}
}

func TestLastActiveStockAlimentNoSetup(t *testing.T) {
	stocks := map[models.Dimension]*models.StockRecord{
		{Batiment: "B1", Sexe: models.SexeMale}: {StockAliment: new(float64)},
	}

	// No saved setup anywhere: nil, not zero.
	got := LastActiveStockAliment([]string{"B1", "B2"}, map[models.Dimension]*models.SetupRecord{}, stocks)
	if got != nil {
		t.Errorf("stock aliment = %v, want nil", *got)
	}
}
