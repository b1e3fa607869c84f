// Package session implements the game session state machine. A controller
// owns one session's state and moves it through the screens
// start -> investigating -> accusing -> resolved -> start.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/myrjola/gumshoe/internal/models"
)

// Generator is the case generator collaborator the controller talks to. All
// implementations report failures as generator.ErrGeneration so the
// controller can surface them as the session's error message.
type Generator interface {
	GenerateCase(ctx context.Context, difficulty models.Difficulty) (*models.Case, error)
	Investigate(ctx context.Context, c *models.Case, action string, difficulty models.Difficulty) (models.Finding, error)
	// Hint produces a companion hint. When onDelta is non-nil it is invoked
	// with each text chunk as it is generated.
	Hint(ctx context.Context, c *models.Case, difficulty models.Difficulty, onDelta func(string)) (string, error)
	Resolve(ctx context.Context, c *models.Case, accusedName string) (models.Resolution, error)
}

// Listener observes screen changes. Listeners are invoked synchronously on
// every transition and must not call back into the controller.
type Listener func(screen models.Screen)

const (
	briefingSource  = "briefing"
	sceneSource     = "investigation"
	companionSource = "companion"
)

// Controller guards one session's state. All operations are safe for
// concurrent use. At most one generator request is in flight at a time;
// mutating operations issued while a request is outstanding are ignored.
// Operations that do not apply to the current screen are silent no-ops.
type Controller struct {
	mu         sync.Mutex
	gen        Generator
	logger     *slog.Logger
	listeners  []Listener
	state      models.SessionState
	lastActive time.Time
}

func NewController(gen Generator, logger *slog.Logger) *Controller {
	return &Controller{
		gen:        gen,
		logger:     logger.With("source", "session.Controller"),
		state:      models.SessionState{Screen: models.ScreenStart},
		lastActive: time.Now(),
	}
}

// AddListener registers a screen-change listener.
func (c *Controller) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Snapshot returns a deep copy of the session state for rendering.
func (c *Controller) Snapshot() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// LastActive reports when the session last accepted an operation.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Begin requests a new case and starts the investigation. Valid only on the
// start screen. On failure the session stays on the start screen with the
// error recorded.
func (c *Controller) Begin(ctx context.Context, difficulty models.Difficulty) error {
	c.mu.Lock()
	if c.state.Screen != models.ScreenStart || c.state.Busy {
		c.mu.Unlock()
		return nil
	}
	c.state.Busy = true
	c.touch()
	c.mu.Unlock()

	newCase, err := c.gen.GenerateCase(ctx, difficulty)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	if err != nil {
		c.fail(ctx, "generate case", err)
		return err
	}

	c.state.Case = newCase
	c.state.Difficulty = difficulty
	c.state.Resolution = nil
	c.state.Err = ""
	c.state.Evidence = []models.EvidenceEntry{{
		Seq:    1,
		Kind:   models.EvidenceKindBriefing,
		Source: briefingSource,
		Text:   newCase.Summary,
	}}
	c.state.Narration = newCase.Summary
	c.setScreen(models.ScreenInvestigating)
	return nil
}

// Investigate sends a free-text action to the generator and appends the
// discovered clue to the evidence log. Requires a non-empty action and an
// active case. On failure the evidence log is left unchanged.
func (c *Controller) Investigate(ctx context.Context, action string) error {
	action = strings.TrimSpace(action)

	c.mu.Lock()
	if c.state.Screen != models.ScreenInvestigating || c.state.Busy || c.state.Case == nil || action == "" {
		c.mu.Unlock()
		return nil
	}
	activeCase := c.state.Case
	difficulty := c.state.Difficulty
	c.state.Busy = true
	c.touch()
	c.mu.Unlock()

	finding, err := c.gen.Investigate(ctx, activeCase, action, difficulty)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	if err != nil {
		c.fail(ctx, "investigate", err)
		return err
	}

	source := finding.Speaker
	if source == "" {
		source = sceneSource
	}
	c.state.Err = ""
	c.appendEvidence(models.EvidenceKindClue, source, finding.Clue)
	c.state.Narration = finding.Description
	return nil
}

// AskCompanion requests a hint from the companion and appends it to the
// evidence log. Failure semantics are identical to Investigate.
func (c *Controller) AskCompanion(ctx context.Context) error {
	_, err := c.AskCompanionStream(ctx, nil, nil)
	return err
}

// AskCompanionStream is AskCompanion with optional callbacks: onStart fires
// once the request has claimed the session, onDelta receives hint text chunks
// as they are generated. The returned flag reports whether the request was
// accepted; ignored requests never run onStart, so callers can tie per-request
// resources such as a published stream to this request alone. Neither callback
// may call back into the controller.
func (c *Controller) AskCompanionStream(ctx context.Context, onStart func(), onDelta func(string)) (bool, error) {
	c.mu.Lock()
	if c.state.Screen != models.ScreenInvestigating || c.state.Busy || c.state.Case == nil {
		c.mu.Unlock()
		return false, nil
	}
	activeCase := c.state.Case
	difficulty := c.state.Difficulty
	c.state.Busy = true
	c.touch()
	if onStart != nil {
		onStart()
	}
	c.mu.Unlock()

	hint, err := c.gen.Hint(ctx, activeCase, difficulty, onDelta)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	if err != nil {
		c.fail(ctx, "ask companion", err)
		return true, err
	}

	c.state.Err = ""
	c.appendEvidence(models.EvidenceKindHint, companionSource, hint)
	c.state.Narration = hint
	return true, nil
}

// OpenAccusation moves to the accusation screen. It is a no-op unless the
// session is investigating and the collected clue and hint entries meet the
// difficulty's threshold.
func (c *Controller) OpenAccusation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Screen != models.ScreenInvestigating || c.state.Busy {
		return
	}
	if c.state.CollectedClues() < c.state.Difficulty.RequiredClues() {
		return
	}
	c.touch()
	c.setScreen(models.ScreenAccusing)
}

// CancelAccusation returns to the investigation without side effects.
func (c *Controller) CancelAccusation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Screen != models.ScreenAccusing || c.state.Busy {
		return
	}
	c.touch()
	c.setScreen(models.ScreenInvestigating)
}

// Accuse resolves the case against the named suspect. The correctness flag is
// computed from the case record, regardless of what the narrative claims. The
// returned flag reports whether this call was accepted; replayed or otherwise
// ineligible accusations return false, so callers can tell a fresh resolution
// from a standing one.
func (c *Controller) Accuse(ctx context.Context, suspectName string) (bool, error) {
	c.mu.Lock()
	if c.state.Screen != models.ScreenAccusing || c.state.Busy ||
		c.state.Case == nil || !c.state.Case.HasSuspect(suspectName) {
		c.mu.Unlock()
		return false, nil
	}
	activeCase := c.state.Case
	c.state.Busy = true
	c.touch()
	c.mu.Unlock()

	resolution, err := c.gen.Resolve(ctx, activeCase, suspectName)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	if err != nil {
		c.fail(ctx, "resolve accusation", err)
		return true, err
	}

	resolution.Correct = suspectName == activeCase.Culprit
	c.state.Err = ""
	c.state.Resolution = &resolution
	c.state.Narration = resolution.Narrative
	c.setScreen(models.ScreenResolved)
	return true, nil
}

// Reset clears the session back to the start screen. It applies from any
// state but is ignored while a generator request is outstanding.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy {
		return
	}
	c.state = models.SessionState{Screen: models.ScreenStart}
	c.touch()
	c.notify(models.ScreenStart)
}

// Close releases the controller's collaborators by notifying listeners with
// the start screen, disarming anything tied to an active investigation. The
// registry calls it when it evicts the session; the controller must not be
// used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Screen = models.ScreenStart
	c.notify(models.ScreenStart)
}

// AttachPortrait stores the portrait reference for a suspect. caseTitle
// guards against attaching to a case that has been reset or replaced while
// the enrichment was running.
func (c *Controller) AttachPortrait(caseTitle, suspectName, portraitURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Case == nil || c.state.Case.Title != caseTitle {
		return
	}
	if suspect := c.state.Case.Suspect(suspectName); suspect != nil {
		suspect.PortraitURL = portraitURL
	}
}

func (c *Controller) appendEvidence(kind models.EvidenceKind, source, text string) {
	c.state.Evidence = append(c.state.Evidence, models.EvidenceEntry{
		Seq:    len(c.state.Evidence) + 1,
		Kind:   kind,
		Source: source,
		Text:   text,
	})
}

// fail records a generator failure as the session's error message. The
// screen and the evidence log are left untouched.
func (c *Controller) fail(ctx context.Context, op string, err error) {
	c.state.Err = err.Error()
	c.logger.LogAttrs(ctx, slog.LevelWarn, "generator request failed",
		slog.String("op", op), slog.Any("error", err))
}

func (c *Controller) setScreen(screen models.Screen) {
	if c.state.Screen == screen {
		return
	}
	c.state.Screen = screen
	c.notify(screen)
}

func (c *Controller) notify(screen models.Screen) {
	for _, l := range c.listeners {
		l(screen)
	}
}

func (c *Controller) touch() {
	c.lastActive = time.Now()
}
