package models

// Suspect is one of the three possible culprits in a case. It is immutable
// after case creation except for PortraitURL, which is attached once the
// portrait enrichment finishes.
type Suspect struct {
	Name        string `json:"name"`
	Motive      string `json:"motive"`
	Description string `json:"description"`
	Statement   string `json:"statement"`
	PortraitURL string `json:"portrait_url,omitempty"`
}

// Case is a generated murder mystery. It always holds exactly three suspects
// and Culprit equals the name of one of them. It is created atomically by the
// case generator and read-only afterwards.
type Case struct {
	Title    string    `json:"title"`
	Victim   string    `json:"victim"`
	Location string    `json:"location"`
	Summary  string    `json:"summary"`
	Suspects []Suspect `json:"suspects"`
	Culprit  string    `json:"culprit"`
}

// Suspect returns the suspect with the given name or nil when no suspect matches.
func (c *Case) Suspect(name string) *Suspect {
	for i := range c.Suspects {
		if c.Suspects[i].Name == name {
			return &c.Suspects[i]
		}
	}
	return nil
}

// HasSuspect reports whether name matches one of the suspects.
func (c *Case) HasSuspect(name string) bool {
	return c.Suspect(name) != nil
}

// Clone returns a deep copy of the case.
func (c *Case) Clone() *Case {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Suspects = make([]Suspect, len(c.Suspects))
	copy(clone.Suspects, c.Suspects)
	return &clone
}

// Finding is the generator's answer to one investigation action.
type Finding struct {
	// Description narrates what the detective experiences when performing the action.
	Description string `json:"description"`
	// Clue is the concrete piece of evidence discovered, if any.
	Clue string `json:"clue"`
	// Speaker names the person the clue came from. Empty for scene clues.
	Speaker string `json:"speaker,omitempty"`
}

// Resolution is the outcome of an accusation.
type Resolution struct {
	// Correct is true iff the accused suspect is the case's hidden culprit.
	// It is computed from the case record, never from the narrative.
	Correct   bool   `json:"is_correct"`
	Narrative string `json:"narrative"`
}
