package main

import (
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/random"
	"github.com/myrjola/gumshoe/internal/session"
)

// gameIDSessionKey stores the game ID in the scs session. We key controllers
// by our own random ID instead of the scs token because the token is empty
// until the first response has been written.
const gameIDSessionKey = "gameID"

const gameIDLength uint = 20

// gameSession returns the controller for the browser session, creating the
// game ID on first use.
func (app *application) gameSession(r *http.Request) (*session.Controller, string, error) {
	ctx := r.Context()
	gameID := app.sessionManager.GetString(ctx, gameIDSessionKey)
	if gameID == "" {
		var err error
		if gameID, err = random.Letters(gameIDLength); err != nil {
			return nil, "", errors.Wrap(err, "generate game ID")
		}
		app.sessionManager.Put(ctx, gameIDSessionKey, gameID)
	}
	return app.sessions.Get(gameID), gameID, nil
}

// peekGameSession returns the controller only when the session already has a
// game ID. Handlers that cannot write the session cookie use this.
func (app *application) peekGameSession(r *http.Request) (*session.Controller, string, bool) {
	gameID := app.sessionManager.GetString(r.Context(), gameIDSessionKey)
	if gameID == "" {
		return nil, "", false
	}
	return app.sessions.Get(gameID), gameID, true
}
