package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/session"
)

func (app *application) beginGame(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	difficulty := models.ParseDifficulty(r.FormValue("difficulty"))

	// A generation failure lands in the session state and is rendered on the
	// next page load, so the error is not surfaced here.
	_ = controller.Begin(r.Context(), difficulty)

	if app.portraits != nil {
		if snapshot := controller.Snapshot(); snapshot.Case != nil {
			go app.enrichPortraits(context.WithoutCancel(r.Context()), controller, *snapshot.Case)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// enrichPortraits generates suspect portraits in the background and attaches
// them to the running game as they become available.
func (app *application) enrichPortraits(ctx context.Context, controller *session.Controller, c models.Case) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	for _, suspect := range c.Suspects {
		portraitURL, err := app.portraits.Portrait(ctx, c.Title, suspect)
		if err != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "portrait generation failed",
				slog.String("suspect", suspect.Name), errors.SlogError(err))
			continue
		}
		controller.AttachPortrait(c.Title, suspect.Name, portraitURL)
	}
}
