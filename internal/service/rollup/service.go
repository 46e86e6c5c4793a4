package rollup

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

// RecordStore is the collaborator owning every farm record. Implementations
// return (nil, nil) or an empty list when a scope simply has no data.
type RecordStore interface {
	GetSetup(ctx context.Context, farmID, lot, batiment, sexe string) (*models.SetupRecord, error)
	GetWeekly(ctx context.Context, farmID, lot, semaine, batiment, sexe string) ([]models.DailyTrackingRecord, error)
	GetProduction(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.ProductionRecord, error)
	GetStock(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.StockRecord, error)
	ListWeeks(ctx context.Context, farmID, lot, batiment, sexe string) ([]string, error)
}

// Service orchestrates the weekly/lot rollup: fan out fetches per
// (building, sex) dimension, join, then aggregate. It holds no state
// between calls.
type Service struct {
	store  RecordStore
	logger *zap.Logger
}

// NewService wires a rollup service instance.
func NewService(store RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// ComputeWeeklySummary produces the combined summary for one
// (farm, lot, semaine) scope across the given buildings. It always returns
// a summary: fetch failures degrade the affected dimension to an empty
// contribution and are only logged, so the caller never has to distinguish
// "no data" from "record store down" (the numbers are best-effort either
// way).
func (s *Service) ComputeWeeklySummary(ctx context.Context, farmID, lot, semaine string, batiments []string) *models.WeeklySummary {
	if len(batiments) == 0 {
		batiments = models.DefaultBatiments
	}

	dims := models.Dimensions(batiments)
	slots := make(map[models.Dimension]*DimensionData, len(dims))
	for _, dim := range dims {
		slots[dim] = &DimensionData{}
	}

	// Every (dimension, endpoint) fetch runs independently and writes into
	// its own slot field; the WaitGroup is the single join point before
	// aggregation starts.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, dim := range dims {
		dim := dim
		slot := slots[dim]

		wg.Add(1)
		go func() {
			defer wg.Done()
			setup, err := s.store.GetSetup(ctx, farmID, lot, dim.Batiment, dim.Sexe)
			if err != nil {
				s.warnFetch("setup", dim, err)
				return
			}
			mu.Lock()
			slot.Setup = setup
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			daily, err := s.store.GetWeekly(ctx, farmID, lot, semaine, dim.Batiment, dim.Sexe)
			if err != nil {
				s.warnFetch("hebdo", dim, err)
				return
			}
			mu.Lock()
			slot.Daily = daily
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			production, err := s.store.GetProduction(ctx, farmID, lot, semaine, dim.Batiment, dim.Sexe)
			if err != nil {
				s.warnFetch("production", dim, err)
				return
			}
			mu.Lock()
			slot.Production = production
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			stock, err := s.store.GetStock(ctx, farmID, lot, semaine, dim.Batiment, dim.Sexe)
			if err != nil {
				s.warnFetch("stock", dim, err)
				return
			}
			mu.Lock()
			slot.Stock = stock
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, dim := range dims {
		slot := slots[dim]
		slot.EffectifDepart = FirstDepart(slot.Daily)
		if slot.EffectifDepart == nil {
			slot.EffectifDepart = s.chainDepart(ctx, farmID, lot, semaine, dim, slot.Setup)
		}
	}

	data := make(map[models.Dimension]DimensionData, len(slots))
	for dim, slot := range slots {
		data[dim] = *slot
	}
	return Merge(farmID, lot, semaine, batiments, data)
}

// chainDepart re-derives a dimension's starting headcount from its full
// week history when the target week carries no explicit value. The chain is
// recomputed from scratch on every read; nothing derived is ever persisted.
func (s *Service) chainDepart(ctx context.Context, farmID, lot, semaine string, dim models.Dimension, setup *models.SetupRecord) *int {
	weeks, err := s.store.ListWeeks(ctx, farmID, lot, dim.Batiment, dim.Sexe)
	if err != nil {
		s.warnFetch("weeks", dim, err)
		return nil
	}

	models.SortWeekLabels(weeks)
	history := make([]WeekHistoryEntry, 0, len(weeks)+1)
	seenTarget := false
	for _, week := range weeks {
		if week == semaine {
			seenTarget = true
		}
		if models.CompareWeekLabels(week, semaine) > 0 {
			continue
		}

		entry := WeekHistoryEntry{Semaine: week}
		if week != semaine {
			if daily, err := s.store.GetWeekly(ctx, farmID, lot, week, dim.Batiment, dim.Sexe); err != nil {
				s.warnFetch("hebdo", dim, err)
			} else {
				entry.EffectifDepart = FirstDepart(daily)
				for _, rec := range daily {
					entry.MortaliteNbre += int(rec.MortaliteNbre)
				}
			}
			if production, err := s.store.GetProduction(ctx, farmID, lot, week, dim.Batiment, dim.Sexe); err != nil {
				s.warnFetch("production", dim, err)
			} else if production != nil {
				entry.Sorties = production.Sorties()
			}
		}
		history = append(history, entry)
	}
	if !seenTarget {
		history = append(history, WeekHistoryEntry{Semaine: semaine})
	}

	var misEnPlace *int
	if setup != nil {
		n := int(setup.EffectifMisEnPlace)
		misEnPlace = &n
	}
	return DeriveStartingHeadcounts(history, misEnPlace)[semaine]
}

func (s *Service) warnFetch(endpoint string, dim models.Dimension, err error) {
	s.logger.Warn("record store fetch failed, dimension contributes nothing",
		zap.String("endpoint", endpoint),
		zap.String("batiment", dim.Batiment),
		zap.String("sexe", dim.Sexe),
		zap.Error(err))
}
