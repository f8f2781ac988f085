// Package thread derives and ranks plot threads from chapter summaries.
package thread

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/plotloom/plotloom/internal/store"
)

var threadID = regexp.MustCompile(`^thread_(\d+)$`)

// minEventRunes filters out stub events like "无" or short section labels
// that carry no plot to follow up on.
const minEventRunes = 10

// staleAfter is how many chapters a thread may go untouched before it is
// flagged for attention.
const staleAfter = 3

// NextID returns the numeric suffix for the next thread ID, continuing past
// the highest suffix already in use.
func NextID(existing []store.PlotThread) int {
	next := 1
	for _, th := range existing {
		m := threadID.FindStringSubmatch(th.ID)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

// FromSummaries turns each substantial key event into a new active thread.
// IDs are assigned sequentially starting at nextID.
func FromSummaries(summaries []store.ChapterSummary, nextID int) []store.PlotThread {
	var threads []store.PlotThread
	for _, s := range summaries {
		for _, event := range s.KeyEvents {
			if utf8.RuneCountInString(event) <= minEventRunes {
				continue
			}
			threads = append(threads, store.PlotThread{
				ID:           fmt.Sprintf("thread_%d", nextID),
				Description:  event,
				Status:       store.StatusActive,
				Priority:     store.PriorityMedium,
				FirstChapter: s.ChapterNum,
				LastChapter:  s.ChapterNum,
			})
			nextID++
		}
	}
	return threads
}

// Stale returns the active threads that have not been touched for more than
// staleAfter chapters, high priority first. Relative order is otherwise
// preserved.
func Stale(threads []store.PlotThread, latestChapter int) []store.PlotThread {
	var high, rest []store.PlotThread
	for _, th := range threads {
		if th.Status != store.StatusActive {
			continue
		}
		if latestChapter-th.LastChapter <= staleAfter {
			continue
		}
		if th.Priority == store.PriorityHigh {
			high = append(high, th)
		} else {
			rest = append(rest, th)
		}
	}
	return append(high, rest...)
}
