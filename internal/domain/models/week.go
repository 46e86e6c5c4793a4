package models

import (
	"sort"
	"strconv"
	"strings"
)

// Sex labels as persisted by the record store.
const (
	SexeMale    = "Mâle"
	SexeFemelle = "Femelle"
)

// Sexes lists the sex values in their canonical iteration order.
var Sexes = []string{SexeMale, SexeFemelle}

// DefaultBatiments is the fixed default building order; user-added
// buildings follow in creation order.
var DefaultBatiments = []string{"B1", "B2", "B3", "B4"}

// WeekContext identifies a reporting scope. Batiment and Sexe may be empty
// when the context covers a whole lot/week.
type WeekContext struct {
	FarmID   string `json:"farmId"`
	Lot      string `json:"lot"`
	Semaine  string `json:"semaine"`
	Batiment string `json:"batiment,omitempty"`
	Sexe     string `json:"sexe,omitempty"`
}

// Dimension is one (building, sex) pair contributing to a rollup.
type Dimension struct {
	Batiment string `json:"batiment"`
	Sexe     string `json:"sexe"`
}

// Dimensions expands a building list into (building, sex) pairs following
// the canonical chain order: buildings in the given order, Mâle before
// Femelle within each building.
func Dimensions(batiments []string) []Dimension {
	dims := make([]Dimension, 0, len(batiments)*len(Sexes))
	for _, b := range batiments {
		for _, s := range Sexes {
			dims = append(dims, Dimension{Batiment: b, Sexe: s})
		}
	}
	return dims
}

// ParseWeekLabel extracts the numeric part of an "S<n>" week label.
// Returns false for custom free-text labels.
func ParseWeekLabel(label string) (int, bool) {
	trimmed := strings.TrimSpace(label)
	if len(trimmed) < 2 || (trimmed[0] != 'S' && trimmed[0] != 's') {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CompareWeekLabels orders week labels for carry-forward chaining: numeric
// "S<n>" labels ascending by n, custom labels after every numeric one and
// lexicographic among themselves.
func CompareWeekLabels(a, b string) int {
	na, okA := ParseWeekLabel(a)
	nb, okB := ParseWeekLabel(b)
	switch {
	case okA && okB:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// SortWeekLabels sorts labels in place using CompareWeekLabels.
func SortWeekLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return CompareWeekLabels(labels[i], labels[j]) < 0
	})
}
