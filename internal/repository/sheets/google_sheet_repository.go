package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/seydifall/dindetrack/internal/config"
	"github.com/seydifall/dindetrack/internal/domain/models"
)

// Exporter appends computed weekly rollups to a spreadsheet shared with the
// farm advisors, who work from Sheets rather than the application UI.
type Exporter interface {
	ExportSummary(ctx context.Context, summary *models.WeeklySummary) error
}

// GoogleSheetExporter implements the Exporter interface using the official
// Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	exportRange   string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		exportRange:   cfg.ExportRange,
		logger:        logger,
	}, nil
}

// ExportSummary appends one row per aggregated date plus a totals row.
func (e *GoogleSheetExporter) ExportSummary(ctx context.Context, summary *models.WeeklySummary) error {
	if summary == nil {
		return fmt.Errorf("summary must not be nil")
	}

	values := make([][]interface{}, 0, len(summary.AggregatedRows)+1)
	for _, row := range summary.AggregatedRows {
		values = append(values, []interface{}{
			summary.FarmID,
			summary.Lot,
			summary.Semaine,
			row.Date,
			intOrBlank(row.AgeJour),
			row.MortaliteNbre,
			pctOrBlank(row.MortalitePct),
			row.MortaliteCumul,
			pctOrBlank(row.MortaliteCumulPct),
			row.ConsoEauL,
		})
	}
	values = append(values, []interface{}{
		summary.FarmID,
		summary.Lot,
		summary.Semaine,
		"TOTAL",
		"",
		summary.WeeklyTotals.MortaliteNbre,
		pctOrBlank(summary.WeeklyTotals.MortalitePct),
		summary.Stock.EffectifRestantFinSemaine,
		summary.Stock.PoidsVifProduitKg,
		summary.WeeklyTotals.ConsoEauL,
	})

	payload := &sheetsapi.ValueRange{Values: values}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.exportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary rows into range %s: %w", e.exportRange, err)
	}

	e.logger.Debug("summary exported to sheet",
		zap.String("range", e.exportRange),
		zap.String("lot", summary.Lot),
		zap.String("semaine", summary.Semaine),
		zap.Int("rows", len(values)))
	return nil
}

// intOrBlank renders an optional integer, blank when unknown.
func intOrBlank(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// pctOrBlank renders an optional percentage, blank when the starting
// headcount was unknown.
func pctOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
