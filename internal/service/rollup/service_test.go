package rollup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

type scopeKey struct {
	semaine  string
	batiment string
	sexe     string
}

// stubStore is an in-memory RecordStore; failProduction lists dimensions
// whose production fetch errors out.
type stubStore struct {
	setups         map[scopeKey]*models.SetupRecord
	weekly         map[scopeKey][]models.DailyTrackingRecord
	production     map[scopeKey]*models.ProductionRecord
	stocks         map[scopeKey]*models.StockRecord
	weeks          []string
	failProduction map[scopeKey]bool
	calls          atomic.Int64
}

func (s *stubStore) GetSetup(ctx context.Context, farmID, lot, batiment, sexe string) (*models.SetupRecord, error) {
	s.calls.Add(1)
	return s.setups[scopeKey{batiment: batiment, sexe: sexe}], nil
}

func (s *stubStore) GetWeekly(ctx context.Context, farmID, lot, semaine, batiment, sexe string) ([]models.DailyTrackingRecord, error) {
	s.calls.Add(1)
	return s.weekly[scopeKey{semaine, batiment, sexe}], nil
}

func (s *stubStore) GetProduction(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.ProductionRecord, error) {
	s.calls.Add(1)
	key := scopeKey{semaine, batiment, sexe}
	if s.failProduction[key] {
		return nil, errors.New("upstream 502")
	}
	return s.production[key], nil
}

func (s *stubStore) GetStock(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.StockRecord, error) {
	s.calls.Add(1)
	return s.stocks[scopeKey{semaine, batiment, sexe}], nil
}

func (s *stubStore) ListWeeks(ctx context.Context, farmID, lot, batiment, sexe string) ([]string, error) {
	s.calls.Add(1)
	return s.weeks, nil
}

func TestComputeWeeklySummary(t *testing.T) {
	store := &stubStore{
		setups: map[scopeKey]*models.SetupRecord{
			{batiment: "B1", sexe: models.SexeMale}: {Batiment: "B1", Sexe: models.SexeMale, EffectifMisEnPlace: 100, Souche: "BUT 6"},
		},
		weekly: map[scopeKey][]models.DailyTrackingRecord{
			{"S1", "B1", models.SexeMale}: {
				{RecordDate: "2025-03-01", MortaliteNbre: 2, ConsoEauL: 100, EffectifDepart: intp(100)},
				{RecordDate: "2025-03-02", MortaliteNbre: 1, ConsoEauL: 95, EffectifDepart: intp(100)},
			},
			{"S1", "B2", models.SexeMale}: {
				{RecordDate: "2025-03-01", MortaliteNbre: 3, ConsoEauL: 90, EffectifDepart: intp(100)},
			},
		},
	}

	svc := NewService(store, zap.NewNop())
	summary := svc.ComputeWeeklySummary(context.Background(), "F1", "L7", "S1", []string{"B1", "B2"})

	if summary == nil {
		t.Fatal("expected a summary")
	}
	if summary.EffectifDepart == nil || *summary.EffectifDepart != 200 {
		t.Errorf("total depart = %v, want 200", summary.EffectifDepart)
	}
	if len(summary.AggregatedRows) != 2 {
		t.Fatalf("got %d rows, want 2", len(summary.AggregatedRows))
	}
	if summary.AggregatedRows[0].MortaliteNbre != 5 {
		t.Errorf("day-1 merged mortality = %d, want 5", summary.AggregatedRows[0].MortaliteNbre)
	}
	if len(summary.Setups) != 1 || summary.Setups[0].Souche != "BUT 6" {
		t.Errorf("setups = %+v, want the single saved B1 setup", summary.Setups)
	}
}

func TestComputeWeeklySummaryPartialFailure(t *testing.T) {
	// The (B2, Femelle) production fetch fails; its contribution drops to
	// zero and nothing reaches the caller as an error.
	store := &stubStore{
		production: map[scopeKey]*models.ProductionRecord{
			{"S4", "B1", models.SexeMale}:    {VenteNbre: 40, VentePoids: 500},
			{"S4", "B2", models.SexeFemelle}: {VenteNbre: 99, VentePoids: 999},
		},
		failProduction: map[scopeKey]bool{
			{"S4", "B2", models.SexeFemelle}: true,
		},
	}

	svc := NewService(store, zap.NewNop())
	summary := svc.ComputeWeeklySummary(context.Background(), "F1", "L7", "S4", []string{"B1", "B2"})

	if summary.Production.TotalNbre() != 40 {
		t.Errorf("total nbre = %d, want 40 (failed dimension excluded)", summary.Production.TotalNbre())
	}
	if summary.Production.TotalPoids() != 500 {
		t.Errorf("total poids = %.0f, want 500", summary.Production.TotalPoids())
	}
}

func TestComputeWeeklySummaryChainsDepart(t *testing.T) {
	// S2 has tracking rows but no explicit depart; S1 ends at 47, so S2
	// starts there.
	store := &stubStore{
		weekly: map[scopeKey][]models.DailyTrackingRecord{
			{"S1", "B1", models.SexeMale}: {
				{RecordDate: "2025-03-01", MortaliteNbre: 3, EffectifDepart: intp(50)},
			},
			{"S2", "B1", models.SexeMale}: {
				{RecordDate: "2025-03-08", MortaliteNbre: 1},
			},
		},
		weeks: []string{"S1", "S2"},
	}

	svc := NewService(store, zap.NewNop())
	summary := svc.ComputeWeeklySummary(context.Background(), "F1", "L7", "S2", []string{"B1"})

	if summary.EffectifDepart == nil || *summary.EffectifDepart != 47 {
		t.Errorf("chained depart = %v, want 47", summary.EffectifDepart)
	}
	// Percentages now derive from the chained headcount.
	row := summary.AggregatedRows[0]
	if row.MortalitePct == nil || *row.MortalitePct != 2.13 {
		t.Errorf("pct = %v, want 2.13 (1/47)", row.MortalitePct)
	}
}

func TestComputeWeeklySummaryDefaultBuildings(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, zap.NewNop())

	summary := svc.ComputeWeeklySummary(context.Background(), "F1", "L7", "S1", nil)
	if summary == nil {
		t.Fatal("expected a summary")
	}

	// 4 default buildings x 2 sexes x 4 endpoints fanned out, plus a
	// ListWeeks per dimension for chaining since nothing had a depart.
	if got := store.calls.Load(); got != 4*2*4+4*2 {
		t.Errorf("store calls = %d, want %d", got, 4*2*4+4*2)
	}
}
