// Package countdb persists immune-cell counts in an embedded sqlite store:
// one subjects table and one samples table, keyed by their natural
// identifiers, populated once per ingestion run and read-only afterward.
package countdb

import (
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"

	"github.com/loblawbio/cellscope/cellpop"
	"github.com/loblawbio/cellscope/countcsv"
)

// Schema drops and recreates both tables. Ingestion is a full reload, never
// an incremental append.
const Schema = `
DROP TABLE IF EXISTS samples;
DROP TABLE IF EXISTS subjects;

CREATE TABLE subjects (
	subject_id  TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL,
	condition   TEXT,
	age         INTEGER,
	sex         TEXT,
	treatment   TEXT,
	response    TEXT
);

CREATE TABLE samples (
	sample_id                 TEXT PRIMARY KEY,
	subject_id                TEXT NOT NULL,
	sample_type               TEXT,
	time_from_treatment_start INTEGER,
	b_cell                    INTEGER NOT NULL,
	cd8_t_cell                INTEGER NOT NULL,
	cd4_t_cell                INTEGER NOT NULL,
	nk_cell                   INTEGER NOT NULL,
	monocyte                  INTEGER NOT NULL,
	FOREIGN KEY (subject_id) REFERENCES subjects (subject_id)
);
`

// Subject is one row of the subjects table.
type Subject struct {
	SubjectID string `db:"subject_id"`
	ProjectID string `db:"project_id"`
	Condition string `db:"condition"`
	Age       int    `db:"age"`
	Sex       string `db:"sex"`
	Treatment string `db:"treatment"`
	Response  string `db:"response"`
}

// Sample is one row of the samples table.
type Sample struct {
	SampleID               string `db:"sample_id"`
	SubjectID              string `db:"subject_id"`
	SampleType             string `db:"sample_type"`
	TimeFromTreatmentStart int    `db:"time_from_treatment_start"`
	BCell                  int    `db:"b_cell"`
	CD8TCell               int    `db:"cd8_t_cell"`
	CD4TCell               int    `db:"cd4_t_cell"`
	NKCell                 int    `db:"nk_cell"`
	Monocyte               int    `db:"monocyte"`
}

// Open connects to the sqlite database at path, creating the file if it does
// not yet exist.
func Open(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return db, nil
}

// CreateTables truncates and recreates the store from scratch.
func CreateTables(db *sqlx.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Load inserts the parsed observations in a single transaction. Subjects are
// inserted once per natural key (tracked with an in-memory seen set, backed
// by INSERT OR IGNORE against the primary key); duplicate sample IDs are
// skipped rather than treated as errors, so re-running ingestion against the
// same input leaves the tables unchanged.
func Load(db *sqlx.DB, rows []*countcsv.Row) error {
	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	subjectsSeen := make(map[string]struct{})

	for _, row := range rows {
		if _, seen := subjectsSeen[row.Subject]; !seen {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO subjects
				(subject_id, project_id, condition, age, sex, treatment, response)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				row.Subject, row.Project, row.Condition, row.Age, row.Sex, row.Treatment, row.Response,
			); err != nil {
				return pfx.Err(err)
			}
			subjectsSeen[row.Subject] = struct{}{}
		}

		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO samples
			(sample_id, subject_id, sample_type, time_from_treatment_start,
			 b_cell, cd8_t_cell, cd4_t_cell, nk_cell, monocyte)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Sample, row.Subject, row.SampleType, row.TimeFromTreatmentStart,
			row.BCell, row.CD8TCell, row.CD4TCell, row.NKCell, row.Monocyte,
		); err != nil {
			return pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Fixed cohort filter for the responder comparison and baseline views.
const (
	CohortCondition  = "melanoma"
	CohortTreatment  = "miraclib"
	CohortSampleType = "PBMC"
)

// FrequencyRow joins one sample to its subject, counts still wide.
type FrequencyRow struct {
	Sample     string `db:"sample"`
	Project    string `db:"project"`
	Condition  string `db:"condition"`
	Treatment  string `db:"treatment"`
	SampleType string `db:"sample_type"`
	BCell      int    `db:"b_cell"`
	CD8TCell   int    `db:"cd8_t_cell"`
	CD4TCell   int    `db:"cd4_t_cell"`
	NKCell     int    `db:"nk_cell"`
	Monocyte   int    `db:"monocyte"`
}

// Count returns the measured count for one population.
func (r FrequencyRow) Count(p cellpop.Population) int {
	return countByPopulation(p, r.BCell, r.CD8TCell, r.CD4TCell, r.NKCell, r.Monocyte)
}

// FrequencyRows returns every sample joined to its subject.
func FrequencyRows(db *sqlx.DB) ([]FrequencyRow, error) {
	rows := []FrequencyRow{}
	if err := db.Select(&rows,
		`SELECT
			s.sample_id   AS sample,
			su.project_id AS project,
			su.condition,
			su.treatment,
			s.sample_type,
			s.b_cell, s.cd8_t_cell, s.cd4_t_cell, s.nk_cell, s.monocyte
		FROM samples s
		JOIN subjects su ON s.subject_id = su.subject_id`,
	); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// CohortRow is one sample in the fixed responder-comparison cohort.
type CohortRow struct {
	SampleID string `db:"sample_id"`
	Response string `db:"response"`
	BCell    int    `db:"b_cell"`
	CD8TCell int    `db:"cd8_t_cell"`
	CD4TCell int    `db:"cd4_t_cell"`
	NKCell   int    `db:"nk_cell"`
	Monocyte int    `db:"monocyte"`
}

// Count returns the measured count for one population.
func (r CohortRow) Count(p cellpop.Population) int {
	return countByPopulation(p, r.BCell, r.CD8TCell, r.CD4TCell, r.NKCell, r.Monocyte)
}

// CohortRows returns the melanoma/miraclib/PBMC samples whose subjects have a
// known treatment response.
func CohortRows(db *sqlx.DB) ([]CohortRow, error) {
	rows := []CohortRow{}
	if err := db.Select(&rows,
		`SELECT
			s.sample_id,
			su.response,
			s.b_cell, s.cd8_t_cell, s.cd4_t_cell, s.nk_cell, s.monocyte
		FROM samples s
		JOIN subjects su ON s.subject_id = su.subject_id
		WHERE su.condition = ?
		AND su.treatment = ?
		AND s.sample_type = ?
		AND su.response != ?`,
		CohortCondition, CohortTreatment, CohortSampleType, cellpop.ResponseUnknown,
	); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// BaselineRow is one sample from the cohort at time_from_treatment_start = 0.
type BaselineRow struct {
	SampleID  string `db:"sample_id"`
	SubjectID string `db:"subject_id"`
	ProjectID string `db:"project_id"`
	Response  string `db:"response"`
	Sex       string `db:"sex"`
}

// BaselineRows returns the cohort samples taken at treatment start.
func BaselineRows(db *sqlx.DB) ([]BaselineRow, error) {
	rows := []BaselineRow{}
	if err := db.Select(&rows,
		`SELECT
			s.sample_id,
			su.subject_id,
			su.project_id,
			su.response,
			su.sex
		FROM samples s
		JOIN subjects su ON s.subject_id = su.subject_id
		WHERE su.condition = ?
		AND su.treatment = ?
		AND s.sample_type = ?
		AND s.time_from_treatment_start = 0`,
		CohortCondition, CohortTreatment, CohortSampleType,
	); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

func countByPopulation(p cellpop.Population, b, cd8, cd4, nk, mono int) int {
	switch p {
	case cellpop.BCell:
		return b
	case cellpop.CD8TCell:
		return cd8
	case cellpop.CD4TCell:
		return cd4
	case cellpop.NKCell:
		return nk
	case cellpop.Monocyte:
		return mono
	}

	return 0
}
