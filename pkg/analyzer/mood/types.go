package mood

import (
	"time"
)

// ClassMetrics holds the per-class inputs of the MOOD factors.
type ClassMetrics struct {
	Class     string `json:"class"`
	BaseClass string `json:"base_class"`

	// Declared member counts, duplicates included.
	DeclaredMethods    int `json:"declared_methods"`
	DeclaredAttributes int `json:"declared_attributes"`
	HiddenMethods      int `json:"hidden_methods"`
	HiddenAttributes   int `json:"hidden_attributes"`

	Methods    InheritanceMetrics `json:"methods"`
	Attributes InheritanceMetrics `json:"attributes"`

	// Number of analyzed classes that have this class among their ancestors
	Descendants int `json:"descendants"`

	// Analyzed classes referenced by attribute types
	CoupledClasses []string `json:"coupled_classes,omitempty"`
}

// Summary carries the class count and raw sums behind each factor, so an
// undefined factor can be traced to its empty denominator.
type Summary struct {
	TotalClasses int    `json:"total_classes"`
	Ratios       Ratios `json:"ratios"`
}

// Analysis is the MOOD result for one class set.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Classes     []ClassMetrics `json:"classes"`
	Metrics     Metrics        `json:"metrics"`
	Summary     Summary        `json:"summary"`
}
