package models

type Screen string

const (
	ScreenStart         Screen = "start"
	ScreenInvestigating Screen = "investigating"
	ScreenAccusing      Screen = "accusing"
	ScreenResolved      Screen = "resolved"
)

type EvidenceKind string

const (
	EvidenceKindBriefing EvidenceKind = "briefing"
	EvidenceKindClue     EvidenceKind = "clue"
	EvidenceKindHint     EvidenceKind = "hint"
)

// EvidenceEntry is one unit of narrative information the player has collected.
// Entries are appended monotonically during the investigation and never
// mutated or removed except on a full reset.
type EvidenceEntry struct {
	Seq    int
	Kind   EvidenceKind
	Source string
	Text   string
}

// SessionState is the full state of one player session. It is owned
// exclusively by the session controller and mutated only through its
// operations.
type SessionState struct {
	Screen     Screen
	Case       *Case
	Difficulty Difficulty
	Evidence   []EvidenceEntry
	// Narration is the text currently shown in the narrative display.
	Narration  string
	Resolution *Resolution
	// Err holds the message of the latest failed generator request. It is
	// cleared by the next successful operation or a reset.
	Err string
	// Busy is true while a generator request is outstanding. No other
	// mutating operation is accepted until it settles.
	Busy bool
}

// CollectedClues counts the evidence entries that count towards accusation
// eligibility. Briefing entries never count.
func (s *SessionState) CollectedClues() int {
	n := 0
	for _, e := range s.Evidence {
		if e.Kind == EvidenceKindClue || e.Kind == EvidenceKindHint {
			n++
		}
	}
	return n
}

// CanAccuse reports whether enough evidence has been collected to open an
// accusation at the session's difficulty.
func (s *SessionState) CanAccuse() bool {
	return s.Screen == ScreenInvestigating && s.CollectedClues() >= s.Difficulty.RequiredClues()
}

// Clone returns a deep copy of the state for rendering.
func (s *SessionState) Clone() SessionState {
	clone := *s
	clone.Case = s.Case.Clone()
	if s.Evidence != nil {
		clone.Evidence = make([]EvidenceEntry, len(s.Evidence))
		copy(clone.Evidence, s.Evidence)
	}
	if s.Resolution != nil {
		resolution := *s.Resolution
		clone.Resolution = &resolution
	}
	return clone
}
