package main

import (
	"net/http"

	"github.com/myrjola/gumshoe/internal/models"
)

type gameTemplateData struct {
	BaseTemplateData

	State           models.SessionState
	IsStart         bool
	IsInvestigating bool
	IsAccusing      bool
	IsResolved      bool
	CollectedClues  int
	RequiredClues   int
	CanAccuse       bool
}

func newGameTemplateData(r *http.Request, state models.SessionState) gameTemplateData {
	return gameTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		State:            state,
		IsStart:          state.Screen == models.ScreenStart,
		IsInvestigating:  state.Screen == models.ScreenInvestigating,
		IsAccusing:       state.Screen == models.ScreenAccusing,
		IsResolved:       state.Screen == models.ScreenResolved,
		CollectedClues:   state.CollectedClues(),
		RequiredClues:    state.Difficulty.RequiredClues(),
		CanAccuse:        state.CanAccuse(),
	}
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	controller, _, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := newGameTemplateData(r, controller.Snapshot())
	app.render(w, r, http.StatusOK, "game", data)
}
