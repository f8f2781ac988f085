package workflow

import (
	"context"

	"github.com/plotloom/plotloom/internal/plotlog"
	"github.com/plotloom/plotloom/internal/store"
	"github.com/plotloom/plotloom/internal/thread"
)

const defaultRecentChapters = 3

// ReviewResult is the gathered context the later stages write from.
type ReviewResult struct {
	Outline       string
	Recent        []store.ChapterSummary
	Characters    []store.CharacterInfo
	ActiveThreads []store.PlotThread
	StaleThreads  []store.PlotThread
	NextChapter   int
}

// ReviewStage collects outline, recent chapters, characters and threads, and
// settles which chapter number is being written.
type ReviewStage struct{}

func (s *ReviewStage) Name() string { return "review" }

func (s *ReviewStage) Run(_ context.Context, wc *Context) error {
	latest := wc.Store.LatestChapterNumber()
	if latest == 0 {
		// A project imported by hand may have log entries but no summaries.
		doc, err := wc.Project.ReadLog()
		if err != nil {
			return err
		}
		latest = plotlog.LatestChapter(doc)
	}

	review := &ReviewResult{
		Outline:       wc.Project.LoadOutline(),
		Recent:        wc.Store.RecentSummaries(s.recentChapters(wc)),
		Characters:    wc.Store.SortedCharacters(),
		ActiveThreads: wc.Store.ActiveThreads(),
		NextChapter:   latest + 1,
	}

	if wc.ChapterNum == 0 {
		wc.ChapterNum = review.NextChapter
	}
	// Staleness is judged against the last finished chapter, not the one
	// about to be written.
	review.StaleThreads = thread.Stale(review.ActiveThreads, wc.ChapterNum-1)

	wc.Review = review
	return nil
}

func (s *ReviewStage) recentChapters(wc *Context) int {
	if wc.Config != nil && wc.Config.Writing.RecentChapters > 0 {
		return wc.Config.Writing.RecentChapters
	}
	return defaultRecentChapters
}
