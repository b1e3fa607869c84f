package models

import "time"

// CasebookEntry is the archived outcome of a resolved case. Only finished
// games are recorded, the live session state stays in memory.
type CasebookEntry struct {
	ID         int64      `db:"id"`
	CaseTitle  string     `db:"case_title"`
	Difficulty Difficulty `db:"difficulty"`
	Accused    string     `db:"accused"`
	Culprit    string     `db:"culprit"`
	Correct    bool       `db:"correct"`
	FinishedAt time.Time  `db:"finished_at"`
}
