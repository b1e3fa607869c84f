package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

func (app *application) openAccusation(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	controller.OpenAccusation()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) cancelAccusation(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	controller.CancelAccusation()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) accuse(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	suspect := r.FormValue("suspect")
	if suspect == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	applied, accuseErr := controller.Accuse(r.Context(), suspect)

	// Only the accusation that resolved the game lands in the casebook. A
	// replayed accusation is a controller no-op and must not archive again.
	if applied && accuseErr == nil {
		snapshot := controller.Snapshot()
		if snapshot.Resolution != nil && snapshot.Case != nil {
			entry := models.CasebookEntry{
				CaseTitle:  snapshot.Case.Title,
				Difficulty: snapshot.Difficulty,
				Accused:    suspect,
				Culprit:    snapshot.Case.Culprit,
				Correct:    snapshot.Resolution.Correct,
			}
			if recordErr := app.casebook.Record(r.Context(), entry); recordErr != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelWarn, "record solved case",
					errors.SlogError(recordErr))
			}
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
