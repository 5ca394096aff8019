package countcsv

import (
	"strings"
	"testing"

	"github.com/loblawbio/cellscope/cellpop"
)

const header = "project,subject,sample,condition,age,sex,treatment,response,sample_type,time_from_treatment_start,b_cell,cd8_t_cell,cd4_t_cell,nk_cell,monocyte\n"

func TestReadAll(t *testing.T) {
	in := header +
		"prj1,sbj1,s1,melanoma,62,M,miraclib,yes,PBMC,0,50,20,10,10,10\n" +
		"prj1,sbj2,s2,melanoma,48,F,miraclib,,PBMC,7,100,40,20,20,20\n"

	rows, err := ReadAll(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Sample != "s1" || first.Age != 62 || first.TimeFromTreatmentStart != 0 {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Total() != 100 {
		t.Errorf("expected total 100, got %d", first.Total())
	}
	if first.Count(cellpop.CD8TCell) != 20 {
		t.Errorf("expected cd8_t_cell count 20, got %d", first.Count(cellpop.CD8TCell))
	}

	// Empty response becomes the explicit unknown category
	if rows[1].Response != cellpop.ResponseUnknown {
		t.Errorf("expected response %q, got %q", cellpop.ResponseUnknown, rows[1].Response)
	}
}

func TestReadAllTabDelimited(t *testing.T) {
	in := strings.ReplaceAll(header, ",", "\t") +
		"prj1\tsbj1\ts1\tmelanoma\t62\tM\tmiraclib\tyes\tPBMC\t0\t50\t20\t10\t10\t10\n"

	rows, err := ReadAll(strings.NewReader(in), '\t')
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 || rows[0].BCell != 50 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadAllRejectsBadInput(t *testing.T) {
	for _, v := range []struct {
		Name string
		Body string
	}{
		{"non-numeric age", "prj1,sbj1,s1,melanoma,old,M,miraclib,yes,PBMC,0,50,20,10,10,10\n"},
		{"non-numeric count", "prj1,sbj1,s1,melanoma,62,M,miraclib,yes,PBMC,0,many,20,10,10,10\n"},
		{"negative count", "prj1,sbj1,s1,melanoma,62,M,miraclib,yes,PBMC,0,-5,20,10,10,10\n"},
		{"missing sample id", "prj1,sbj1,,melanoma,62,M,miraclib,yes,PBMC,0,50,20,10,10,10\n"},
	} {
		if _, err := ReadAll(strings.NewReader(header+v.Body), ','); err == nil {
			t.Errorf("%s: expected an error", v.Name)
		}
	}
}

func TestReadAllRejectsMissingColumn(t *testing.T) {
	// No response column at all
	in := "project,subject,sample,condition,age,sex,treatment,sample_type,time_from_treatment_start,b_cell,cd8_t_cell,cd4_t_cell,nk_cell,monocyte\n" +
		"prj1,sbj1,s1,melanoma,62,M,miraclib,PBMC,0,50,20,10,10,10\n"

	if _, err := ReadAll(strings.NewReader(in), ','); err == nil {
		t.Error("expected an error for a missing required column")
	}
}
