package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Canned payloads served by FakeOpenAI. The case matches the wire format the
// generator validates: three suspects with the culprit among them.
const (
	FakeCaseJSON = `{
		"title": "The Grandfather Clock Affair",
		"victim": "Edmund Holloway",
		"location": "Holloway Manor",
		"summary": "Edmund Holloway was found dead in his study at midnight, the grandfather clock stopped at five past twelve.",
		"suspects": [
			{"name": "Jean Brash", "motive": "inheritance", "description": "the estranged niece", "statement": "I was in the garden all evening."},
			{"name": "Arthur Penn", "motive": "blackmail", "description": "the butler", "statement": "I heard nothing unusual."},
			{"name": "Mabel Reed", "motive": "jealousy", "description": "the business partner", "statement": "I left before dinner was served."}
		],
		"culprit": "Jean Brash"
	}`
	FakeFindingJSON    = `{"description": "You comb the study while the stopped clock stares back at you.", "clue": "A torn glove is wedged behind the desk.", "speaker": ""}`
	FakeHint           = "Ask the butler about the garden door, detective."
	FakeResolutionJSON = `{"narrative": "The glove, the garden door, the stopped clock: every thread winds back to the same pair of hands."}`
	FakePortraitURL    = "https://images.example.com/fake-portrait.png"
)

// FakeOpenAI is an httptest-backed OpenAI chat completion endpoint serving
// canned responses. It picks the response by the system prompt of the request,
// so the real generator code paths run unchanged against it.
type FakeOpenAI struct {
	server *httptest.Server

	mu            sync.Mutex
	failNext      bool
	requests      int
	imageRequests int
}

func NewFakeOpenAI() *FakeOpenAI {
	f := &FakeOpenAI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", f.handleChatCompletion)
	mux.HandleFunc("/v1/images/generations", f.handleImageGeneration)
	f.server = httptest.NewServer(mux)
	return f
}

// BaseURL is the value for the generator's BaseURL configuration.
func (f *FakeOpenAI) BaseURL() string {
	return f.server.URL + "/v1"
}

func (f *FakeOpenAI) Close() {
	f.server.Close()
}

// FailNext makes the next request fail with HTTP 500.
func (f *FakeOpenAI) FailNext() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = true
}

// Requests reports how many chat completion requests have been served.
func (f *FakeOpenAI) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// ImageRequests reports how many image generation requests have been served.
func (f *FakeOpenAI) ImageRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageRequests
}

func (f *FakeOpenAI) handleImageGeneration(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.imageRequests++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	response := map[string]any{
		"created": 0,
		"data":    []map[string]any{{"url": FakePortraitURL}},
	}
	_ = json.NewEncoder(w).Encode(response)
}

func (f *FakeOpenAI) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	fail := f.failNext
	f.failNext = false
	f.mu.Unlock()

	if fail {
		http.Error(w, `{"error": {"message": "scripted failure"}}`, http.StatusInternalServerError)
		return
	}

	var request struct {
		Stream   bool `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || len(request.Messages) == 0 {
		http.Error(w, `{"error": {"message": "malformed request"}}`, http.StatusBadRequest)
		return
	}

	systemPrompt := request.Messages[0].Content
	var content string
	switch {
	case strings.Contains(systemPrompt, "Invent an original murder case"):
		content = FakeCaseJSON
	case strings.Contains(systemPrompt, "investigation action"):
		content = FakeFindingJSON
	case strings.Contains(systemPrompt, "loyal companion"):
		content = FakeHint
	default:
		content = FakeResolutionJSON
	}

	if request.Stream {
		f.writeStream(w, content)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]any{
		"id":     "chatcmpl-fake",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	}
	_ = json.NewEncoder(w).Encode(response)
}

// writeStream emits the content as two SSE chunks the way the chat completion
// stream API does.
func (f *FakeOpenAI) writeStream(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "text/event-stream")
	half := len(content) / 2
	for _, chunk := range []string{content[:half], content[half:]} {
		payload, _ := json.Marshal(map[string]any{
			"id":     "chatcmpl-fake",
			"object": "chat.completion.chunk",
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": chunk}},
			},
		})
		_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
	}
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
}
