package models

// AggregatedRow is one merged line of the weekly view: all contributing
// (building, sex) dimensions collapsed into a single per-date row.
// Percentage pointers stay nil when the starting headcount is unknown.
type AggregatedRow struct {
	Date              string   `json:"date"`
	AgeJour           *int     `json:"ageJour"`
	MortaliteNbre     int      `json:"mortaliteNbre"`
	MortalitePct      *float64 `json:"mortalitePct"`
	MortaliteCumul    int      `json:"mortaliteCumul"`
	MortaliteCumulPct *float64 `json:"mortaliteCumulPct"`
	ConsoEauL         float64  `json:"consoEauL"`
}

// WeeklyTotals carries the bottom line of the merged week.
type WeeklyTotals struct {
	MortaliteNbre int      `json:"mortaliteNbre"`
	MortalitePct  *float64 `json:"mortalitePct"`
	ConsoEauL     float64  `json:"consoEauL"`
}

// StockSummary is derived on every read, never stored.
type StockSummary struct {
	EffectifRestantFinSemaine int      `json:"effectifRestantFinSemaine"`
	PoidsVifProduitKg         float64  `json:"poidsVifProduitKg"`
	StockAliment              *float64 `json:"stockAliment"`
}

// WeeklySummary is the combined rollup returned to the presentation layer
// for one (farm, lot, semaine) scope.
type WeeklySummary struct {
	FarmID         string           `json:"farmId"`
	Lot            string           `json:"lot"`
	Semaine        string           `json:"semaine"`
	Setups         []SetupRecord    `json:"setup"`
	EffectifDepart *int             `json:"effectifDepart"`
	AggregatedRows []AggregatedRow  `json:"aggregatedRows"`
	WeeklyTotals   WeeklyTotals     `json:"weeklyTotals"`
	Production     ProductionRecord `json:"production"`
	Stock          StockSummary     `json:"stock"`
}
