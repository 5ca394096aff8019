// Package cellpop defines the five measured immune-cell populations and the
// treatment-response categories shared by the ingestion, analysis, and
// presentation layers.
package cellpop

import (
	"gonum.org/v1/gonum/floats/scalar"
)

// Population identifies one immune-cell population by its column name in the
// counts file and the database.
type Population string

const (
	BCell    Population = "b_cell"
	CD8TCell Population = "cd8_t_cell"
	CD4TCell Population = "cd4_t_cell"
	NKCell   Population = "nk_cell"
	Monocyte Population = "monocyte"
)

// All lists the populations in measurement order. Reshaping emits long-format
// records in this order.
var All = []Population{BCell, CD8TCell, CD4TCell, NKCell, Monocyte}

var labels = map[Population]string{
	BCell:    "B Cell",
	CD8TCell: "CD8 T Cell",
	CD4TCell: "CD4 T Cell",
	NKCell:   "NK Cell",
	Monocyte: "Monocyte",
}

// Label returns the human-readable name for p, or the raw identifier when p
// is not one of the five known populations.
func (p Population) Label() string {
	if l, exists := labels[p]; exists {
		return l
	}

	return string(p)
}

// Valid reports whether p is one of the five measured populations.
func (p Population) Valid() bool {
	_, exists := labels[p]
	return exists
}

// Treatment-response categories as stored in the subjects table. Missing
// responses are stored as ResponseUnknown rather than omitted.
const (
	ResponseYes     = "yes"
	ResponseNo      = "no"
	ResponseUnknown = "unknown"
)

// ResponseLabel maps a stored response value to its display name.
func ResponseLabel(response string) string {
	switch response {
	case ResponseYes:
		return "Responder"
	case ResponseNo:
		return "Non-Responder"
	case ResponseUnknown:
		return "Unknown"
	}

	return response
}

// ResponseColor returns the fixed display color for a response category.
func ResponseColor(response string) string {
	switch response {
	case ResponseYes:
		return "#00cc00"
	case ResponseNo:
		return "#cc0000"
	}

	return "#777777"
}

// Percentage returns count as a share of total in percent, rounded to two
// decimals. A zero total yields NaN (0/0), which propagates to callers as a
// defined undefined-value result rather than an error.
func Percentage(count, total int) float64 {
	return scalar.Round(100*float64(count)/float64(total), 2)
}
