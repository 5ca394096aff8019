package main

import (
	"embed"
	"html/template"
	"io/fs"
	"path"

	"github.com/carbocation/pfx"
	"github.com/gorilla/mux"
)

const BaseFilename = "_base.html"

//go:embed all:templates
var embeddedTemplates embed.FS

// handler provides global values to each handler method. Everything it holds
// is initialized before the listener starts and safe for concurrent reads.
type handler struct {
	*Global

	router   *mux.Router
	template map[string]*template.Template
}

func newHandler(g *Global, router *mux.Router) (*handler, error) {
	pages, err := fs.Glob(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, pfx.Err(err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := path.Base(page)
		if name == BaseFilename {
			continue
		}

		tpl, err := template.New(BaseFilename).ParseFS(embeddedTemplates, "templates/"+BaseFilename, page)
		if err != nil {
			return nil, pfx.Err(err)
		}
		templates[name] = tpl
	}

	return &handler{Global: g, router: router, template: templates}, nil
}

func (h *handler) Template(templateFilename string) *template.Template {
	return h.template[templateFilename]
}
