package main

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/loblawbio/cellscope/cellpop"
	"github.com/loblawbio/cellscope/countdb"
	"github.com/loblawbio/cellscope/reshape"
)

const pageSize = 20

// filterFromQuery builds the conjunctive frequency filter from the request.
// An absent or empty parameter means "all" for that column.
func filterFromQuery(q url.Values) reshape.FrequencyFilter {
	return reshape.FrequencyFilter{
		Project:    q.Get("project"),
		Condition:  q.Get("condition"),
		Treatment:  q.Get("treatment"),
		SampleType: q.Get("sample_type"),
		Population: cellpop.Population(q.Get("population")),
	}
}

func (h *handler) FrequencyPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := filterFromQuery(q)

	records := reshape.FilterFrequency(h.Snapshot().Frequency, filter)
	sortRecords(records, q.Get("sort"), q.Get("dir"))

	samples := make(map[string]struct{})
	for _, rec := range records {
		samples[rec.Sample] = struct{}{}
	}

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pages := (len(records) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	output := struct {
		Filter      reshape.FrequencyFilter
		Projects    []string
		Conditions  []string
		Treatments  []string
		SampleTypes []string
		Populations []cellpop.Population

		Records []reshape.FrequencyRecord
		Rows    int
		Samples int

		Page    int
		Pages   int
		PrevURL string
		NextURL string
		Sort    string
		Dir     string
	}{
		Filter:      filter,
		Projects:    h.Snapshot().Projects,
		Conditions:  h.Snapshot().Conditions,
		Treatments:  h.Snapshot().Treatments,
		SampleTypes: h.Snapshot().SampleTypes,
		Populations: cellpop.All,

		Records: records[start:end],
		Rows:    len(records),
		Samples: len(samples),

		Page:    page,
		Pages:   pages,
		PrevURL: pageURL(q, page-1),
		NextURL: pageURL(q, page+1),
		Sort:    q.Get("sort"),
		Dir:     q.Get("dir"),
	}

	Render(h, w, r, "Frequency Overview", "frequency.html", output)
}

func (h *handler) FrequencyJSON(w http.ResponseWriter, r *http.Request) {
	records := reshape.FilterFrequency(h.Snapshot().Frequency, filterFromQuery(r.URL.Query()))
	RenderJSON(h, w, r, records)
}

func (h *handler) CohortPage(w http.ResponseWriter, r *http.Request) {
	samples := make(map[string]struct{})
	for _, rec := range h.Snapshot().Cohort {
		samples[rec.SampleID] = struct{}{}
	}

	output := struct {
		Condition  string
		Treatment  string
		SampleType string
		Alpha      float64
		Samples    int
		TTests     []reshape.TTestRow
		Boxes      []reshape.BoxSummary
	}{
		Condition:  countdb.CohortCondition,
		Treatment:  countdb.CohortTreatment,
		SampleType: countdb.CohortSampleType,
		Alpha:      reshape.SignificanceLevel,
		Samples:    len(samples),
		TTests:     h.Snapshot().TTests,
		Boxes:      h.Snapshot().Boxes,
	}

	Render(h, w, r, "Responders vs Non-Responders", "cohort.html", output)
}

func (h *handler) CohortChart(w http.ResponseWriter, r *http.Request) {
	buf, err := cohortChartPNG(h.Snapshot().TTests)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Println(r.Host, r.URL.Path, ":", err)
	}
}

func (h *handler) BaselinePage(w http.ResponseWriter, r *http.Request) {
	output := struct {
		FilterExpr string
		Summary    reshape.BaselineSummary
	}{
		FilterExpr: fmt.Sprintf("condition = '%s' AND treatment = '%s' AND sample_type = '%s' AND time_from_treatment_start = 0",
			countdb.CohortCondition, countdb.CohortTreatment, countdb.CohortSampleType),
		Summary: h.Snapshot().Baseline,
	}

	Render(h, w, r, "Baseline Subset Analysis", "baseline.html", output)
}

// sortRecords orders records by the named column. Undefined percentages sort
// before defined ones; an unknown column leaves the input order unchanged.
func sortRecords(records []reshape.FrequencyRecord, column, dir string) {
	var less func(a, b reshape.FrequencyRecord) bool

	switch column {
	case "sample":
		less = func(a, b reshape.FrequencyRecord) bool { return a.Sample < b.Sample }
	case "population":
		less = func(a, b reshape.FrequencyRecord) bool { return a.Population < b.Population }
	case "count":
		less = func(a, b reshape.FrequencyRecord) bool { return a.Count < b.Count }
	case "total_count":
		less = func(a, b reshape.FrequencyRecord) bool { return a.TotalCount < b.TotalCount }
	case "percentage":
		less = func(a, b reshape.FrequencyRecord) bool {
			x, y := float64(a.Percentage), float64(b.Percentage)
			if math.IsNaN(x) {
				return !math.IsNaN(y)
			}
			if math.IsNaN(y) {
				return false
			}
			return x < y
		}
	default:
		return
	}

	if dir == "desc" {
		asc := less
		less = func(a, b reshape.FrequencyRecord) bool { return asc(b, a) }
	}

	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

func pageURL(q url.Values, page int) string {
	if page < 1 {
		page = 1
	}

	out := url.Values{}
	for k, vs := range q {
		out[k] = vs
	}
	out.Set("page", strconv.Itoa(page))

	return "?" + out.Encode()
}
