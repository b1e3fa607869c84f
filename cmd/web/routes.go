package main

import (
	"net/http"
	"time"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	// The request timeout stays under the server's write timeout so that the
	// timeout page reaches the browser before the connection is closed.
	requestTimeout := 25 * time.Second
	withTimeout := func(next http.Handler) http.Handler {
		return timeoutHandler(next, requestTimeout)
	}

	page := alice.New(app.sessionManager.LoadAndSave, noSurf, app.commonContext, withTimeout)

	mux.Handle("GET /{$}", page.ThenFunc(app.home))
	mux.Handle("GET /casebook", page.ThenFunc(app.casebookPage))

	mux.Handle("POST /api/game/begin", page.ThenFunc(app.beginGame))
	mux.Handle("POST /api/game/investigate", page.ThenFunc(app.investigate))
	mux.Handle("POST /api/game/companion", page.ThenFunc(app.askCompanion))
	mux.Handle("POST /api/game/accusation/open", page.ThenFunc(app.openAccusation))
	mux.Handle("POST /api/game/accusation/cancel", page.ThenFunc(app.cancelAccusation))
	mux.Handle("POST /api/game/accuse", page.ThenFunc(app.accuse))
	mux.Handle("POST /api/game/reset", page.ThenFunc(app.resetGame))

	// The hint stream must not buffer responses or save the session, so it
	// skips the timeout handler and uses the load-only session middleware.
	stream := alice.New(app.serverSentEventMiddleware)
	mux.Handle("GET /api/game/companion/stream", stream.ThenFunc(app.streamCompanion))

	mux.Handle("GET /api/healthy", http.HandlerFunc(app.healthy))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
