package store

import "time"

// ChapterSummary is the tracked record for one chapter. Exactly one summary
// exists per chapter number; inserting the same number again replaces it.
type ChapterSummary struct {
	ChapterNum         int       `json:"chapter_num"`
	Title              string    `json:"title"`
	ContentSummary     string    `json:"content_summary"`
	CharactersInvolved []string  `json:"characters_involved"`
	PlotThreads        []string  `json:"plot_threads"`
	KeyEvents          []string  `json:"key_events"`
	WordCount          int       `json:"word_count"`
	CreatedTime        time.Time `json:"created_time"`
}

// CharacterInfo tracks one character, keyed by name. Import never overwrites
// an existing character's fields.
type CharacterInfo struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	CurrentState map[string]any `json:"current_state"`
}

// ThreadStatus is the lifecycle state of a plot thread.
type ThreadStatus string

const (
	StatusActive   ThreadStatus = "active"
	StatusResolved ThreadStatus = "resolved"
	StatusPending  ThreadStatus = "pending"
)

// ThreadPriority orders threads when surfacing unresolved ones.
type ThreadPriority string

const (
	PriorityHigh   ThreadPriority = "high"
	PriorityMedium ThreadPriority = "medium"
	PriorityLow    ThreadPriority = "low"
)

// PlotThread is a tracked narrative thread spanning one or more chapters.
type PlotThread struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Status       ThreadStatus   `json:"status"`
	Priority     ThreadPriority `json:"priority"`
	FirstChapter int            `json:"first_chapter"`
	LastChapter  int            `json:"last_chapter"`
}
