package main

import (
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

type casebookTemplateData struct {
	BaseTemplateData

	Entries []models.CasebookEntry
}

func (app *application) casebookPage(w http.ResponseWriter, r *http.Request) {
	entries, err := app.casebook.Recent(r.Context(), 20)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load casebook"))
		return
	}

	data := casebookTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Entries:          entries,
	}
	app.render(w, r, http.StatusOK, "casebook", data)
}
