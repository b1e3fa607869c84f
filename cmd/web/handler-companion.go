package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

const hintStreamBuffer = 16

func (app *application) askCompanion(w http.ResponseWriter, r *http.Request) {
	controller, gameID, err := app.gameSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// The stream is published once the request has claimed the session, before
	// the first delta arrives, so a concurrent stream request can pick up the
	// chunks. An ignored request never publishes and must not unpublish either:
	// that would tear down the stream of the hint generation already in flight.
	stream := make(chan string, hintStreamBuffer)
	applied, _ := controller.AskCompanionStream(r.Context(), func() {
		app.hintBroker.Publish(gameID, stream)
	}, func(delta string) {
		select {
		case stream <- delta:
		default:
			// Nobody is keeping up. The full hint lands in the evidence log.
		}
	})
	if applied {
		app.hintBroker.Unpublish(gameID)
	}
	close(stream)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// streamCompanion relays hint chunks over Server Sent Events. When no hint is
// being generated, the latest hint from the evidence log is replayed so that
// late subscribers still get the text.
func (app *application) streamCompanion(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	controller, gameID, ok := app.peekGameSession(r)
	if !ok {
		writeSSE(w, "done", "")
		flusher.Flush()
		return
	}

	receiver := app.hintBroker.Subscribe(gameID)
	select {
	case <-r.Context().Done():
		return
	case stream, live := <-receiver:
		if !live {
			if hint := latestHint(controller.Snapshot()); hint != "" {
				writeSSE(w, "hint", hint)
			}
			writeSSE(w, "done", "")
			flusher.Flush()
			return
		}
		for {
			select {
			case <-r.Context().Done():
				return
			case delta, open := <-stream:
				if !open {
					writeSSE(w, "done", "")
					flusher.Flush()
					return
				}
				writeSSE(w, "hint", delta)
				flusher.Flush()
			}
		}
	}
}

func latestHint(state models.SessionState) string {
	for i := len(state.Evidence) - 1; i >= 0; i-- {
		if state.Evidence[i].Kind == models.EvidenceKindHint {
			return state.Evidence[i].Text
		}
	}
	return ""
}

func writeSSE(w io.Writer, event, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}
