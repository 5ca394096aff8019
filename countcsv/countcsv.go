// Package countcsv reads the delimited immune-cell counts file: one header
// row, then one row per sample observation linking a subject, a project, and
// the five population counts.
package countcsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/loblawbio/cellscope/cellpop"
)

// Row is one sample observation from the counts file. Integer fields that
// fail to parse abort the whole read; there is no recovery path for a
// malformed numeric value.
type Row struct {
	Project                string `csv:"project"`
	Subject                string `csv:"subject"`
	Sample                 string `csv:"sample"`
	Condition              string `csv:"condition"`
	Age                    int    `csv:"age"`
	Sex                    string `csv:"sex"`
	Treatment              string `csv:"treatment"`
	Response               string `csv:"response"`
	SampleType             string `csv:"sample_type"`
	TimeFromTreatmentStart int    `csv:"time_from_treatment_start"`
	BCell                  int    `csv:"b_cell"`
	CD8TCell               int    `csv:"cd8_t_cell"`
	CD4TCell               int    `csv:"cd4_t_cell"`
	NKCell                 int    `csv:"nk_cell"`
	Monocyte               int    `csv:"monocyte"`
}

// Count returns the measured count for one population.
func (r Row) Count(p cellpop.Population) int {
	switch p {
	case cellpop.BCell:
		return r.BCell
	case cellpop.CD8TCell:
		return r.CD8TCell
	case cellpop.CD4TCell:
		return r.CD4TCell
	case cellpop.NKCell:
		return r.NKCell
	case cellpop.Monocyte:
		return r.Monocyte
	}

	return 0
}

// Total returns the sum of the five population counts.
func (r Row) Total() int {
	total := 0
	for _, p := range cellpop.All {
		total += r.Count(p)
	}

	return total
}

// ReadAll parses every observation from r using the given field delimiter.
// An empty response column is mapped to the explicit "unknown" category, not
// an error. Negative counts are rejected.
func ReadAll(r io.Reader, delim rune) ([]*Row, error) {
	// Tell gocsv which delimiter to use, and treat a missing required column
	// as an error rather than silently zero-filling
	gocsv.FailIfUnmatchedStructTags = true
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = delim
		cr.LazyQuotes = true
		return cr
	})

	rows := []*Row{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	for i, row := range rows {
		if row.Subject == "" || row.Sample == "" {
			return nil, pfx.Err(fmt.Errorf("row %d: missing subject or sample identifier", i+1))
		}

		if row.Response == "" {
			row.Response = cellpop.ResponseUnknown
		}

		for _, p := range cellpop.All {
			if c := row.Count(p); c < 0 {
				return nil, pfx.Err(fmt.Errorf("row %d (%s): negative %s count %d", i+1, row.Sample, p, c))
			}
		}
	}

	return rows, nil
}
