package countdb

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/loblawbio/cellscope/cellpop"
	"github.com/loblawbio/cellscope/countcsv"
)

func testRows() []*countcsv.Row {
	return []*countcsv.Row{
		{Project: "prj1", Subject: "sbj1", Sample: "s1", Condition: "melanoma", Age: 62, Sex: "M",
			Treatment: "miraclib", Response: "yes", SampleType: "PBMC", TimeFromTreatmentStart: 0,
			BCell: 50, CD8TCell: 20, CD4TCell: 10, NKCell: 10, Monocyte: 10},
		{Project: "prj1", Subject: "sbj1", Sample: "s2", Condition: "melanoma", Age: 62, Sex: "M",
			Treatment: "miraclib", Response: "yes", SampleType: "PBMC", TimeFromTreatmentStart: 7,
			BCell: 40, CD8TCell: 25, CD4TCell: 15, NKCell: 10, Monocyte: 10},
		{Project: "prj2", Subject: "sbj2", Sample: "s3", Condition: "melanoma", Age: 48, Sex: "F",
			Treatment: "miraclib", Response: "no", SampleType: "PBMC", TimeFromTreatmentStart: 0,
			BCell: 30, CD8TCell: 30, CD4TCell: 20, NKCell: 10, Monocyte: 10},
		{Project: "prj2", Subject: "sbj3", Sample: "s4", Condition: "melanoma", Age: 55, Sex: "F",
			Treatment: "miraclib", Response: "unknown", SampleType: "PBMC", TimeFromTreatmentStart: 0,
			BCell: 25, CD8TCell: 25, CD4TCell: 25, NKCell: 15, Monocyte: 10},
		{Project: "prj2", Subject: "sbj4", Sample: "s5", Condition: "carcinoma", Age: 70, Sex: "M",
			Treatment: "phauximab", Response: "yes", SampleType: "WB", TimeFromTreatmentStart: 0,
			BCell: 10, CD8TCell: 10, CD4TCell: 10, NKCell: 10, Monocyte: 10},
	}
}

func openLoaded(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := CreateTables(db); err != nil {
		t.Fatalf("CreateTables: %v", err)
	}
	if err := Load(db, testRows()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	return db
}

func TestLoadIdempotent(t *testing.T) {
	db := openLoaded(t)

	// A second pass over the same input must not add rows
	if err := Load(db, testRows()); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	var subjects, samples int
	if err := db.Get(&subjects, "SELECT COUNT(*) FROM subjects"); err != nil {
		t.Fatalf("count subjects: %v", err)
	}
	if err := db.Get(&samples, "SELECT COUNT(*) FROM samples"); err != nil {
		t.Fatalf("count samples: %v", err)
	}

	if subjects != 4 {
		t.Errorf("expected 4 subjects, got %d", subjects)
	}
	if samples != 5 {
		t.Errorf("expected 5 samples, got %d", samples)
	}
}

func TestCreateTablesTruncates(t *testing.T) {
	db := openLoaded(t)

	if err := CreateTables(db); err != nil {
		t.Fatalf("recreate: %v", err)
	}

	var samples int
	if err := db.Get(&samples, "SELECT COUNT(*) FROM samples"); err != nil {
		t.Fatalf("count samples: %v", err)
	}
	if samples != 0 {
		t.Errorf("expected empty samples table after recreate, got %d rows", samples)
	}
}

func TestFrequencyRows(t *testing.T) {
	db := openLoaded(t)

	rows, err := FrequencyRows(db)
	if err != nil {
		t.Fatalf("FrequencyRows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 joined rows, got %d", len(rows))
	}

	for _, row := range rows {
		if row.Sample == "s1" {
			if row.Project != "prj1" || row.Condition != "melanoma" || row.Count(cellpop.BCell) != 50 {
				t.Errorf("unexpected s1 join: %+v", row)
			}
		}
	}
}

func TestCohortRowsFilter(t *testing.T) {
	db := openLoaded(t)

	rows, err := CohortRows(db)
	if err != nil {
		t.Fatalf("CohortRows: %v", err)
	}

	// s4 is excluded for unknown response, s5 for condition/treatment/type
	if len(rows) != 3 {
		t.Fatalf("expected 3 cohort rows, got %d: %+v", len(rows), rows)
	}
	for _, row := range rows {
		if row.Response != cellpop.ResponseYes && row.Response != cellpop.ResponseNo {
			t.Errorf("cohort row %s has response %q", row.SampleID, row.Response)
		}
	}
}

func TestBaselineRowsFilter(t *testing.T) {
	db := openLoaded(t)

	rows, err := BaselineRows(db)
	if err != nil {
		t.Fatalf("BaselineRows: %v", err)
	}

	// s2 is excluded (day 7), s5 is outside the cohort; unknown response stays
	if len(rows) != 3 {
		t.Fatalf("expected 3 baseline rows, got %d: %+v", len(rows), rows)
	}
	for _, row := range rows {
		if row.SampleID == "s2" || row.SampleID == "s5" {
			t.Errorf("row %s should have been filtered out", row.SampleID)
		}
	}
}
