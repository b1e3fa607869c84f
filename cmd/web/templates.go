package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/myrjola/gumshoe/internal/contexthelpers"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/ui"
)

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to a directory inside ui/templates/pages. It has to include a template named "main".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	// The FuncMap has to exist before parsing. The render function overrides
	// it with the request-scoped values.
	t := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	})
	return t.ParseFS(ui.Files,
		"templates/base.gohtml",
		fmt.Sprintf("templates/pages/%s/*.gohtml", pageName))
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(pageName); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", pageName)))
		return
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // We trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // We trust the csrf since it's not provided by user.
		},
	})

	// HTMX requests get the bare page content, full page loads get the layout.
	rootTemplate := "base"
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		rootTemplate = "main"
	}

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, rootTemplate, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", pageName)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
