package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Collection names within the document store.
const (
	collectionCharacters = "characters"
	collectionThreads    = "plot_threads"
	collectionSummaries  = "chapter_summaries"
)

// Store holds one project's tracking collections in memory and persists them
// as whole-collection snapshots: load snapshot, mutate in memory, write
// snapshot. Mutators do not persist; call the Save methods (or Flush).
type Store struct {
	docs    *DocStore
	project string
	log     zerolog.Logger

	characters map[string]CharacterInfo
	threads    []PlotThread
	summaries  []ChapterSummary
}

// NewStore loads all three collections for a project.
func NewStore(docs *DocStore, project string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		docs:       docs,
		project:    project,
		log:        log,
		characters: make(map[string]CharacterInfo),
	}

	if err := readInto(docs, project, collectionCharacters, &s.characters); err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	if s.characters == nil {
		s.characters = make(map[string]CharacterInfo)
	}
	if err := readInto(docs, project, collectionThreads, &s.threads); err != nil {
		return nil, fmt.Errorf("loading plot threads: %w", err)
	}
	if err := readInto(docs, project, collectionSummaries, &s.summaries); err != nil {
		return nil, fmt.Errorf("loading chapter summaries: %w", err)
	}
	s.sortSummaries()

	return s, nil
}

func readInto(docs *DocStore, project, name string, v any) error {
	body, err := docs.ReadCollection(project, name)
	if err != nil {
		return err
	}
	if body == nil {
		return nil
	}
	return json.Unmarshal(body, v)
}

// Project returns the project key this store is bound to.
func (s *Store) Project() string {
	return s.project
}

// Summaries returns all chapter summaries, ascending by chapter number.
func (s *Store) Summaries() []ChapterSummary {
	return s.summaries
}

// Characters returns the character collection keyed by name.
func (s *Store) Characters() map[string]CharacterInfo {
	return s.characters
}

// SortedCharacters returns characters ordered by name for deterministic output.
func (s *Store) SortedCharacters() []CharacterInfo {
	names := make([]string, 0, len(s.characters))
	for name := range s.characters {
		names = append(names, name)
	}
	sort.Strings(names)

	chars := make([]CharacterInfo, 0, len(names))
	for _, name := range names {
		chars = append(chars, s.characters[name])
	}
	return chars
}

// Threads returns all plot threads.
func (s *Store) Threads() []PlotThread {
	return s.threads
}

// ActiveThreads returns threads with active status, in stored order.
func (s *Store) ActiveThreads() []PlotThread {
	var active []PlotThread
	for _, t := range s.threads {
		if t.Status == StatusActive {
			active = append(active, t)
		}
	}
	return active
}

// LatestChapterNumber returns the highest tracked chapter number, or 0 when
// no summaries exist.
func (s *Store) LatestChapterNumber() int {
	latest := 0
	for _, sum := range s.summaries {
		if sum.ChapterNum > latest {
			latest = sum.ChapterNum
		}
	}
	return latest
}

// RecentSummaries returns up to n summaries, descending by chapter number.
func (s *Store) RecentSummaries(n int) []ChapterSummary {
	if n <= 0 || len(s.summaries) == 0 {
		return nil
	}

	recent := make([]ChapterSummary, len(s.summaries))
	copy(recent, s.summaries)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].ChapterNum > recent[j].ChapterNum
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

// UpsertSummary inserts a summary, replacing any existing summary with the
// same chapter number, and keeps the collection sorted by chapter number.
func (s *Store) UpsertSummary(sum ChapterSummary) {
	kept := s.summaries[:0]
	for _, existing := range s.summaries {
		if existing.ChapterNum != sum.ChapterNum {
			kept = append(kept, existing)
		}
	}
	s.summaries = append(kept, sum)
	s.sortSummaries()
}

func (s *Store) sortSummaries() {
	sort.SliceStable(s.summaries, func(i, j int) bool {
		return s.summaries[i].ChapterNum < s.summaries[j].ChapterNum
	})
}

// MergeCharacter inserts a character if no character with that name exists.
// Existing characters are never overwritten by re-import. Reports whether
// the character was inserted.
func (s *Store) MergeCharacter(c CharacterInfo) bool {
	if c.Name == "" {
		return false
	}
	if _, ok := s.characters[c.Name]; ok {
		return false
	}
	if c.CurrentState == nil {
		c.CurrentState = make(map[string]any)
	}
	s.characters[c.Name] = c
	return true
}

// AddThreads appends plot threads to the collection.
func (s *Store) AddThreads(threads ...PlotThread) {
	s.threads = append(s.threads, threads...)
}

// SaveSummaries writes the chapter summary collection.
func (s *Store) SaveSummaries() error {
	return s.write(collectionSummaries, s.summaries)
}

// SaveCharacters writes the character collection.
func (s *Store) SaveCharacters() error {
	return s.write(collectionCharacters, s.characters)
}

// SaveThreads writes the plot thread collection.
func (s *Store) SaveThreads() error {
	return s.write(collectionThreads, s.threads)
}

// Flush writes all three collections.
func (s *Store) Flush() error {
	if err := s.SaveSummaries(); err != nil {
		return err
	}
	if err := s.SaveCharacters(); err != nil {
		return err
	}
	return s.SaveThreads()
}

func (s *Store) write(name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.docs.WriteCollection(s.project, name, body); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	s.log.Debug().Str("collection", name).Msg("collection saved")
	return nil
}
