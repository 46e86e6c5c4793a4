package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt decodes JSON numbers or numeric strings; anything malformed
// coerces to zero so a single bad cell never aborts an aggregation.
type FlexInt int

// UnmarshalJSON implements lenient decoding for FlexInt.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(string(trimmed))); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(string(trimmed)), 64); err == nil {
		*f = FlexInt(int(v))
	}
	return nil
}

// FlexFloat is the decimal counterpart of FlexInt.
type FlexFloat float64

// UnmarshalJSON implements lenient decoding for FlexFloat.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(string(trimmed)), 64); err == nil {
		*f = FlexFloat(v)
	}
	return nil
}

// SetupRecord is the placement configuration saved once per
// (farm, lot, batiment, sexe).
type SetupRecord struct {
	Batiment           string  `json:"batiment"`
	Sexe               string  `json:"sex"`
	EffectifMisEnPlace FlexInt `json:"effectifMisEnPlace"`
	DateMiseEnPlace    string  `json:"dateMiseEnPlace"`
	Souche             string  `json:"souche"`
}

// DailyTrackingRecord is one row of the weekly technical tracking sheet,
// one per calendar date within a (lot, batiment, sexe, semaine) scope.
// RecordDate is an ISO YYYY-MM-DD string; lexicographic order on it is
// chronological order.
type DailyTrackingRecord struct {
	RecordDate     string    `json:"recordDate"`
	AgeJour        *int      `json:"ageJour"`
	MortaliteNbre  FlexInt   `json:"mortaliteNbre"`
	ConsoEauL      FlexFloat `json:"consoEauL"`
	EffectifDepart *int      `json:"effectifDepart"`
	TempMin        *float64  `json:"tempMin,omitempty"`
	TempMax        *float64  `json:"tempMax,omitempty"`
	Vaccination    string    `json:"vaccination,omitempty"`
	Traitement     string    `json:"traitement,omitempty"`
	Observation    string    `json:"observation,omitempty"`
}

// ProductionRecord carries per-week output counts and weights across the
// four categories used by the lot reports.
type ProductionRecord struct {
	ReportNbre  FlexInt   `json:"reportNbre"`
	ReportPoids FlexFloat `json:"reportPoids"`
	VenteNbre   FlexInt   `json:"venteNbre"`
	VentePoids  FlexFloat `json:"ventePoids"`
	ConsoNbre   FlexInt   `json:"consoNbre"`
	ConsoPoids  FlexFloat `json:"consoPoids"`
	AutreNbre   FlexInt   `json:"autreNbre"`
	AutrePoids  FlexFloat `json:"autrePoids"`
}

// TotalNbre returns the count total across the four categories.
func (p ProductionRecord) TotalNbre() int {
	return int(p.ReportNbre + p.VenteNbre + p.ConsoNbre + p.AutreNbre)
}

// TotalPoids returns the weight total across the four categories.
func (p ProductionRecord) TotalPoids() float64 {
	return float64(p.ReportPoids + p.VentePoids + p.ConsoPoids + p.AutrePoids)
}

// Sorties returns the headcount leaving the lot this week through sale,
// employer consumption or other exits. Report birds stay in the lot.
func (p ProductionRecord) Sorties() int {
	return int(p.VenteNbre + p.ConsoNbre + p.AutreNbre)
}

// Add accumulates another record's figures in place.
func (p *ProductionRecord) Add(o ProductionRecord) {
	p.ReportNbre += o.ReportNbre
	p.ReportPoids += o.ReportPoids
	p.VenteNbre += o.VenteNbre
	p.VentePoids += o.VentePoids
	p.ConsoNbre += o.ConsoNbre
	p.ConsoPoids += o.ConsoPoids
	p.AutreNbre += o.AutreNbre
	p.AutrePoids += o.AutrePoids
}

// MarshalJSON includes the derived totals so presentation callers never
// recompute them.
func (p ProductionRecord) MarshalJSON() ([]byte, error) {
	type alias ProductionRecord
	return json.Marshal(struct {
		alias
		TotalNbre  int     `json:"totalNbre"`
		TotalPoids float64 `json:"totalPoids"`
	}{alias(p), p.TotalNbre(), p.TotalPoids()})
}

// StockRecord is the per-dimension stock snapshot computed by the record
// store backend. StockAliment stays nil when no setup was ever saved for
// the dimension.
type StockRecord struct {
	EffectifRestantFinSemaine FlexInt   `json:"effectifRestantFinSemaine"`
	PoidsVifProduitKg         FlexFloat `json:"poidsVifProduitKg"`
	StockAliment              *float64  `json:"stockAliment"`
}
