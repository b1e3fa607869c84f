package main

import (
	"net/http"
)

func (app *application) investigate(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	_ = controller.Investigate(r.Context(), r.FormValue("action"))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
