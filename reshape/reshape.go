// Package reshape turns the wide query results from countdb into tidy
// long-format records and groupby summaries: one observation per
// sample × population, plus the per-population responder comparison and the
// baseline subset counts.
package reshape

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/loblawbio/cellscope/cellpop"
	"github.com/loblawbio/cellscope/countdb"
	"github.com/loblawbio/cellscope/welch"
)

// Float is a float64 whose JSON encoding renders NaN as null. Undefined
// percentages and test statistics are legitimate values here and must survive
// serialization.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}

	return json.Marshal(float64(f))
}

// IsNaN reports whether the value is undefined.
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

// FrequencyRecord is one sample × population observation with its relative
// frequency. TotalCount is the sum of the five population counts for the
// sample; Percentage is NaN when that sum is zero.
type FrequencyRecord struct {
	Sample     string             `json:"sample"`
	Project    string             `json:"project"`
	Condition  string             `json:"condition"`
	Treatment  string             `json:"treatment"`
	SampleType string             `json:"sample_type"`
	Population cellpop.Population `json:"population"`
	Count      int                `json:"count"`
	TotalCount int                `json:"total_count"`
	Percentage Float              `json:"percentage"`
}

// Frequency melts every joined sample row into five long-format records, one
// per population, in cellpop.All order.
func Frequency(rows []countdb.FrequencyRow) []FrequencyRecord {
	out := make([]FrequencyRecord, 0, len(rows)*len(cellpop.All))

	for _, row := range rows {
		total := 0
		for _, p := range cellpop.All {
			total += row.Count(p)
		}

		for _, p := range cellpop.All {
			count := row.Count(p)
			out = append(out, FrequencyRecord{
				Sample:     row.Sample,
				Project:    row.Project,
				Condition:  row.Condition,
				Treatment:  row.Treatment,
				SampleType: row.SampleType,
				Population: p,
				Count:      count,
				TotalCount: total,
				Percentage: Float(cellpop.Percentage(count, total)),
			})
		}
	}

	return out
}

// FrequencyFilter selects frequency records. The zero value matches every
// record; each set field is an additional conjunctive predicate.
type FrequencyFilter struct {
	Project    string
	Condition  string
	Treatment  string
	SampleType string
	Population cellpop.Population
}

// Match reports whether rec passes every set predicate.
func (f FrequencyFilter) Match(rec FrequencyRecord) bool {
	if f.Project != "" && rec.Project != f.Project {
		return false
	}
	if f.Condition != "" && rec.Condition != f.Condition {
		return false
	}
	if f.Treatment != "" && rec.Treatment != f.Treatment {
		return false
	}
	if f.SampleType != "" && rec.SampleType != f.SampleType {
		return false
	}
	if f.Population != "" && rec.Population != f.Population {
		return false
	}

	return true
}

// FilterFrequency returns the records passing f, preserving order.
func FilterFrequency(recs []FrequencyRecord, f FrequencyFilter) []FrequencyRecord {
	out := make([]FrequencyRecord, 0, len(recs))
	for _, rec := range recs {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}

	return out
}

// CohortRecord is one observation in the responder-comparison cohort, ready
// for plotting: percentages per sample × population, split by response.
type CohortRecord struct {
	SampleID        string             `json:"sample_id"`
	Response        string             `json:"response"`
	ResponseLabel   string             `json:"response_label"`
	Population      cellpop.Population `json:"population"`
	PopulationLabel string             `json:"population_label"`
	Percentage      Float              `json:"percentage"`
}

// TTestRow summarizes Welch's t-test for one population: responder vs
// non-responder relative frequencies.
type TTestRow struct {
	Population        string `json:"population"`
	NResponders       int    `json:"n_responders"`
	NNonResponders    int    `json:"n_non_responders"`
	MeanResponders    Float  `json:"mean_responders"`
	MeanNonResponders Float  `json:"mean_non_responders"`
	T                 Float  `json:"t_statistic"`
	P                 Float  `json:"p_value"`
	Significant       bool   `json:"significant"`
}

// SignificanceLevel is the two-sided alpha for the responder comparison.
const SignificanceLevel = 0.05

// Cohort computes per-sample percentages in long form and, per population,
// Welch's t-test comparing responders against non-responders. The test runs
// on the 2-decimal rounded percentages, matching what is displayed.
// Populations with fewer than two observations in either group yield NaN
// statistics and are never flagged significant.
func Cohort(rows []countdb.CohortRow) ([]CohortRecord, []TTestRow) {
	records := make([]CohortRecord, 0, len(rows)*len(cellpop.All))
	pcts := make(map[cellpop.Population]map[string][]float64, len(cellpop.All))
	for _, p := range cellpop.All {
		pcts[p] = map[string][]float64{}
	}

	for _, row := range rows {
		total := 0
		for _, p := range cellpop.All {
			total += row.Count(p)
		}

		for _, p := range cellpop.All {
			pct := cellpop.Percentage(row.Count(p), total)
			records = append(records, CohortRecord{
				SampleID:        row.SampleID,
				Response:        row.Response,
				ResponseLabel:   cellpop.ResponseLabel(row.Response),
				Population:      p,
				PopulationLabel: p.Label(),
				Percentage:      Float(pct),
			})
			pcts[p][row.Response] = append(pcts[p][row.Response], pct)
		}
	}

	tests := make([]TTestRow, 0, len(cellpop.All))
	for _, p := range cellpop.All {
		yes := pcts[p][cellpop.ResponseYes]
		no := pcts[p][cellpop.ResponseNo]

		res := welch.TTest(yes, no)
		pval := scalar.Round(res.P, 4)

		tests = append(tests, TTestRow{
			Population:        p.Label(),
			NResponders:       res.NX,
			NNonResponders:    res.NY,
			MeanResponders:    Float(scalar.Round(res.MeanX, 2)),
			MeanNonResponders: Float(scalar.Round(res.MeanY, 2)),
			T:                 Float(scalar.Round(res.T, 3)),
			P:                 Float(pval),
			Significant:       pval < SignificanceLevel,
		})
	}

	return records, tests
}

// KeyCount is one groupby bucket: a grouping key with its count. Buckets are
// always emitted in ascending order of the raw grouping key.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BaselineSummary aggregates the baseline (treatment-start) subset of the
// cohort.
type BaselineSummary struct {
	SamplesPerProject  []KeyCount `json:"samples_per_project"`
	SubjectsByResponse []KeyCount `json:"subjects_by_response"`
	SubjectsBySex      []KeyCount `json:"subjects_by_sex"`
	Samples            int        `json:"samples"`
	Subjects           int        `json:"subjects"`
}

// Baseline counts samples per project and distinct subjects by response and
// by sex, with response and sex keys relabeled for display.
func Baseline(rows []countdb.BaselineRow) BaselineSummary {
	samplesPerProject := map[string]int{}
	subjectsSeen := map[string]struct{}{}
	byResponse := map[string]int{}
	bySex := map[string]int{}

	for _, row := range rows {
		samplesPerProject[row.ProjectID]++

		if _, seen := subjectsSeen[row.SubjectID]; seen {
			continue
		}
		subjectsSeen[row.SubjectID] = struct{}{}

		byResponse[row.Response]++
		bySex[row.Sex]++
	}

	return BaselineSummary{
		SamplesPerProject:  sortedCounts(samplesPerProject, nil),
		SubjectsByResponse: sortedCounts(byResponse, cellpop.ResponseLabel),
		SubjectsBySex:      sortedCounts(bySex, sexLabel),
		Samples:            len(rows),
		Subjects:           len(subjectsSeen),
	}
}

// sortedCounts flattens a count map into buckets ordered by the raw key,
// relabeling keys for display after sorting.
func sortedCounts(counts map[string]int, relabel func(string) string) []KeyCount {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KeyCount, 0, len(keys))
	for _, k := range keys {
		label := k
		if relabel != nil {
			label = relabel(k)
		}
		out = append(out, KeyCount{Key: label, Count: counts[k]})
	}

	return out
}

func sexLabel(sex string) string {
	switch sex {
	case "M":
		return "Male"
	case "F":
		return "Female"
	}

	return sex
}
