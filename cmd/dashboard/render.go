package main

import (
	"encoding/json"
	"net/http"
)

type Page struct {
	Title   string
	Site    string
	Company string
	Email   string
	Data    interface{}
}

func Render(h *handler, w http.ResponseWriter, r *http.Request, title string, tpl string, data interface{}) {
	page := Page{
		Title:   title,
		Site:    h.Global.Site,
		Company: h.Global.Company,
		Email:   h.Global.Email,
		Data:    data,
	}

	if err := h.Template(tpl).Execute(w, page); err != nil {
		HTTPError(h, w, r, err)
	}
}

func RenderJSON(h *handler, w http.ResponseWriter, r *http.Request, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		h.log.Println(r.Host, r.URL.Path, ":", err)
	}
}
