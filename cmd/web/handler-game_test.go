package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/myrjola/gumshoe/internal/e2etest"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func testLookupEnv(fakeBaseURL string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		switch key {
		case "GUMSHOE_ADDR":
			return "localhost:0", true
		case "GUMSHOE_PPROF_PORT":
			return "", true
		case "GUMSHOE_SQLITE_URL":
			return ":memory:", true
		case "OPENAI_API_KEY":
			return "test-key", true
		case "OPENAI_BASE_URL":
			return fakeBaseURL, true
		case "GUMSHOE_PORTRAITS":
			return "true", true
		default:
			return "", false
		}
	}
}

// startGameServer spins up the application against a fake OpenAI endpoint.
func startGameServer(t *testing.T) (*e2etest.Client, *testhelpers.FakeOpenAI) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fake := testhelpers.NewFakeOpenAI()
	t.Cleanup(fake.Close)

	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv(fake.BaseURL()), run)
	require.NoError(t, err)
	return server.Client(), fake
}

func Test_application_gameFlow(t *testing.T) {
	ctx := context.Background()
	client, _ := startGameServer(t)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/api/game/begin']").Length())

	// An easy case needs a single clue before the accusation opens.
	doc, err = client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)
	require.Contains(t, doc.Find("h2").Text(), "The Grandfather Clock Affair")
	require.Equal(t, 1, doc.Find("form[action='/api/game/investigate']").Length())
	require.Equal(t, 0, doc.Find("form[action='/api/game/accusation/open']").Length())

	doc, err = client.SubmitForm(ctx, "/", "/api/game/investigate", url.Values{"action": {"search the study"}})
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "A torn glove is wedged behind the desk.")
	require.Equal(t, 1, doc.Find("form[action='/api/game/accusation/open']").Length())

	doc, err = client.SubmitForm(ctx, "/", "/api/game/accusation/open", nil)
	require.NoError(t, err)
	require.Equal(t, 3, doc.Find("form[action='/api/game/accuse']").Length())

	// Backing out returns to the investigation without losing evidence.
	doc, err = client.SubmitForm(ctx, "/", "/api/game/accusation/cancel", nil)
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "A torn glove is wedged behind the desk.")

	_, err = client.SubmitForm(ctx, "/", "/api/game/accusation/open", nil)
	require.NoError(t, err)

	doc, err = client.SubmitForm(ctx, "/", "/api/game/accuse", url.Values{"suspect": {"Jean Brash"}})
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "You got the right one.")

	// The closed case lands in the casebook.
	doc, err = client.GetDoc(ctx, "/casebook")
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "The Grandfather Clock Affair")
	require.Contains(t, doc.Text(), "Solved")

	// Reset starts over.
	doc, err = client.SubmitForm(ctx, "/", "/api/game/reset", nil)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/api/game/begin']").Length())
}

func Test_application_incorrectAccusation(t *testing.T) {
	ctx := context.Background()
	client, _ := startGameServer(t)

	_, err := client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/investigate", url.Values{"action": {"question the staff"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/accusation/open", nil)
	require.NoError(t, err)

	doc, err := client.SubmitForm(ctx, "/", "/api/game/accuse", url.Values{"suspect": {"Arthur Penn"}})
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "The culprit walks free.")

	doc, err = client.GetDoc(ctx, "/casebook")
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "Unsolved")
}

func Test_application_accuseReplayArchivedOnce(t *testing.T) {
	ctx := context.Background()
	client, _ := startGameServer(t)

	_, err := client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/investigate", url.Values{"action": {"search the study"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/accusation/open", nil)
	require.NoError(t, err)
	doc, err := client.SubmitForm(ctx, "/", "/api/game/accuse", url.Values{"suspect": {"Arthur Penn"}})
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "The culprit walks free.")

	// Re-posting the accusation after the case is closed, even naming the real
	// culprit, must neither archive a second outcome nor overturn the verdict.
	resp, err := client.PostForm(ctx, "/api/game/accuse", url.Values{"suspect": {"Jean Brash"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "The culprit walks free.")

	doc, err = client.GetDoc(ctx, "/casebook")
	require.NoError(t, err)
	rows := doc.Find("tbody tr")
	require.Equal(t, 1, rows.Length())
	require.Contains(t, rows.Text(), "Arthur Penn")
	require.Equal(t, "Unsolved", rows.Find("td").Last().Text())
}

func Test_application_accuseWithoutSuspect(t *testing.T) {
	ctx := context.Background()
	client, _ := startGameServer(t)

	_, err := client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/investigate", url.Values{"action": {"search the study"}})
	require.NoError(t, err)
	_, err = client.SubmitForm(ctx, "/", "/api/game/accusation/open", nil)
	require.NoError(t, err)

	resp, err := client.PostForm(ctx, "/api/game/accuse", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_application_askCompanion(t *testing.T) {
	ctx := context.Background()
	client, _ := startGameServer(t)

	_, err := client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)

	// Hints count toward the accusation threshold like clues.
	doc, err := client.SubmitForm(ctx, "/", "/api/game/companion", nil)
	require.NoError(t, err)
	require.Contains(t, doc.Text(), testhelpers.FakeHint)
	require.Equal(t, 1, doc.Find("form[action='/api/game/accusation/open']").Length())

	// Late stream subscribers get the hint replayed from the evidence log.
	resp, err := client.Get(ctx, "/api/game/companion/stream")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), testhelpers.FakeHint)
}

func Test_application_beginFailureStaysOnStart(t *testing.T) {
	ctx := context.Background()
	client, fake := startGameServer(t)

	fake.FailNext()
	doc, err := client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"medium"}})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("p.error").Length())
	require.Equal(t, 1, doc.Find("form[action='/api/game/begin']").Length())

	// The next attempt succeeds and clears the error.
	doc, err = client.SubmitForm(ctx, "/", "/api/game/begin", url.Values{"difficulty": {"medium"}})
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find("p.error").Length())
	require.Equal(t, 1, doc.Find("form[action='/api/game/investigate']").Length())
}
