package main

import (
	"sort"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	"github.com/loblawbio/cellscope/countdb"
	"github.com/loblawbio/cellscope/reshape"
)

// Snapshot holds the three materialized analysis views. All queries run once
// at startup; filter interactions operate purely on these cached records, and
// nothing re-queries the store at request time.
type Snapshot struct {
	Frequency []reshape.FrequencyRecord

	Cohort []reshape.CohortRecord
	TTests []reshape.TTestRow
	Boxes  []reshape.BoxSummary

	Baseline reshape.BaselineSummary

	// Distinct values offered by the frequency filters, ascending
	Projects    []string
	Conditions  []string
	Treatments  []string
	SampleTypes []string
}

// BuildSnapshot runs the three fixed queries and reshapes their results.
func BuildSnapshot(db *sqlx.DB) (*Snapshot, error) {
	freqRows, err := countdb.FrequencyRows(db)
	if err != nil {
		return nil, pfx.Err(err)
	}

	cohortRows, err := countdb.CohortRows(db)
	if err != nil {
		return nil, pfx.Err(err)
	}

	baselineRows, err := countdb.BaselineRows(db)
	if err != nil {
		return nil, pfx.Err(err)
	}

	snap := &Snapshot{
		Frequency: reshape.Frequency(freqRows),
		Baseline:  reshape.Baseline(baselineRows),
	}
	snap.Cohort, snap.TTests = reshape.Cohort(cohortRows)
	snap.Boxes = reshape.BoxSummaries(snap.Cohort)

	snap.Projects = distinct(snap.Frequency, func(r reshape.FrequencyRecord) string { return r.Project })
	snap.Conditions = distinct(snap.Frequency, func(r reshape.FrequencyRecord) string { return r.Condition })
	snap.Treatments = distinct(snap.Frequency, func(r reshape.FrequencyRecord) string { return r.Treatment })
	snap.SampleTypes = distinct(snap.Frequency, func(r reshape.FrequencyRecord) string { return r.SampleType })

	return snap, nil
}

func distinct(recs []reshape.FrequencyRecord, field func(reshape.FrequencyRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, rec := range recs {
		v := field(rec)
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}
