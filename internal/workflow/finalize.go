package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plotloom/plotloom/internal/plotlog"
	"github.com/plotloom/plotloom/internal/store"
)

// summaryRunes is how much of the chapter opens the stored summary.
const summaryRunes = 200

// FinalizeStage persists the chapter: file on disk, summary in the store,
// entry in the narrative log.
type FinalizeStage struct{}

func (s *FinalizeStage) Name() string { return "finalize" }

func (s *FinalizeStage) Run(_ context.Context, wc *Context) error {
	if strings.TrimSpace(wc.Content) == "" {
		return fmt.Errorf("no content to finalize")
	}

	title := wc.ChapterTitle
	if title == "" {
		title = fmt.Sprintf("第%d章", wc.ChapterNum)
	}

	path, err := wc.Project.SaveChapter(wc.ChapterNum, title, wc.Content)
	if err != nil {
		return err
	}
	wc.SavedPath = path

	summary := store.ChapterSummary{
		ChapterNum:         wc.ChapterNum,
		Title:              title,
		ContentSummary:     Summarize(wc.Content),
		CharactersInvolved: []string{},
		PlotThreads:        []string{},
		KeyEvents:          []string{},
		WordCount:          utf8.RuneCountInString(wc.Content),
		CreatedTime:        time.Now().UTC(),
	}
	wc.Store.UpsertSummary(summary)
	if err := wc.Store.SaveSummaries(); err != nil {
		return err
	}
	wc.Summary = &summary

	entry := plotlog.FormatEntry(wc.ChapterNum, title, summary.ContentSummary)
	if err := wc.Project.AppendLogEntry(entry); err != nil {
		return err
	}
	return nil
}

// Summarize keeps the opening of the content as its stored summary.
func Summarize(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= summaryRunes {
		return content
	}
	return string(runes[:summaryRunes]) + "..."
}
