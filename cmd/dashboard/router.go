package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

func router(config *Global) (http.Handler, error) {
	router := mux.NewRouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h, err := newHandler(config, router)
	if err != nil {
		return nil, err
	}

	GET.HandleFunc("/", h.FrequencyPage).Name("frequency")
	GET.HandleFunc("/cohort", h.CohortPage).Name("cohort")
	GET.HandleFunc("/cohort/chart.png", h.CohortChart)
	GET.HandleFunc("/baseline", h.BaselinePage).Name("baseline")

	// Filtered frequency records as plain tidy JSON, so other presentation
	// layers can bind without re-deriving statistics
	GET.HandleFunc("/api/frequency", h.FrequencyJSON)

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router), nil
}
