package main

import (
	"net/http"
)

func (app *application) resetGame(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	controller.Reset()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
