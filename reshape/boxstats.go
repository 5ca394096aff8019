package reshape

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/loblawbio/cellscope/cellpop"
)

// BoxSummary describes the percentage distribution for one
// population × response group, powering the grouped box plot.
type BoxSummary struct {
	Population string `json:"population"`
	Response   string `json:"response"`
	Color      string `json:"color"`
	N          int    `json:"n"`
	Min        Float  `json:"min"`
	Q1         Float  `json:"q1"`
	Median     Float  `json:"median"`
	Q3         Float  `json:"q3"`
	Max        Float  `json:"max"`
}

// BoxSummaries computes five-number summaries from the cohort records, one
// per population × response group, responders first within each population.
// Groups with no defined observations produce NaN summaries.
func BoxSummaries(records []CohortRecord) []BoxSummary {
	grouped := map[cellpop.Population]map[string][]float64{}
	for _, rec := range records {
		if rec.Percentage.IsNaN() {
			continue
		}
		if grouped[rec.Population] == nil {
			grouped[rec.Population] = map[string][]float64{}
		}
		grouped[rec.Population][rec.Response] = append(grouped[rec.Population][rec.Response], float64(rec.Percentage))
	}

	out := make([]BoxSummary, 0, len(cellpop.All)*2)
	for _, p := range cellpop.All {
		for _, response := range []string{cellpop.ResponseYes, cellpop.ResponseNo} {
			vals := grouped[p][response]

			summary := BoxSummary{
				Population: p.Label(),
				Response:   cellpop.ResponseLabel(response),
				Color:      cellpop.ResponseColor(response),
				N:          len(vals),
				Min:        nanOr(stats.Min(vals)),
				Median:     nanOr(stats.Median(vals)),
				Max:        nanOr(stats.Max(vals)),
			}

			if q, err := stats.Quartile(vals); err == nil {
				summary.Q1 = Float(q.Q1)
				summary.Q3 = Float(q.Q3)
			} else {
				summary.Q1 = Float(math.NaN())
				summary.Q3 = Float(math.NaN())
			}

			out = append(out, summary)
		}
	}

	return out
}

func nanOr(v float64, err error) Float {
	if err != nil {
		return Float(math.NaN())
	}

	return Float(v)
}
