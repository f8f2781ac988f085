package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotloom/plotloom/internal/store"
)

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, NextID(nil))
	assert.Equal(t, 8, NextID([]store.PlotThread{
		{ID: "thread_3"},
		{ID: "thread_7"},
		{ID: "not_a_thread"},
	}))
}

func TestFromSummaries(t *testing.T) {
	summaries := []store.ChapterSummary{
		{ChapterNum: 4, KeyEvents: []string{
			"林尘发现玉简上刻着宗门封印的残纹，来历成谜",
			"无",
		}},
		{ChapterNum: 5, KeyEvents: []string{
			"黑袍人在坊市外围徘徊，似乎在等待着什么人出现",
		}},
	}

	threads := FromSummaries(summaries, 3)
	require.Len(t, threads, 2)

	assert.Equal(t, "thread_3", threads[0].ID)
	assert.Equal(t, 4, threads[0].FirstChapter)
	assert.Equal(t, 4, threads[0].LastChapter)
	assert.Equal(t, store.StatusActive, threads[0].Status)
	assert.Equal(t, store.PriorityMedium, threads[0].Priority)

	assert.Equal(t, "thread_4", threads[1].ID)
	assert.Equal(t, 5, threads[1].FirstChapter)
}

func TestFromSummariesSkipsShortEvents(t *testing.T) {
	// Exactly ten runes is still too short.
	threads := FromSummaries([]store.ChapterSummary{
		{ChapterNum: 1, KeyEvents: []string{"十个字的事件十个字的"}},
	}, 1)
	assert.Empty(t, threads)
}

func TestStale(t *testing.T) {
	threads := []store.PlotThread{
		{ID: "thread_1", Status: store.StatusActive, Priority: store.PriorityMedium, LastChapter: 5},
		{ID: "thread_2", Status: store.StatusActive, Priority: store.PriorityHigh, LastChapter: 4},
		{ID: "thread_3", Status: store.StatusActive, Priority: store.PriorityMedium, LastChapter: 8},
		{ID: "thread_4", Status: store.StatusResolved, Priority: store.PriorityHigh, LastChapter: 1},
	}

	stale := Stale(threads, 10)
	require.Len(t, stale, 2)
	// High priority floats to the front, the rest keep their order.
	assert.Equal(t, "thread_2", stale[0].ID)
	assert.Equal(t, "thread_1", stale[1].ID)
}

func TestStaleBoundary(t *testing.T) {
	threads := []store.PlotThread{
		{ID: "thread_1", Status: store.StatusActive, LastChapter: 5},
	}
	// A gap of exactly three chapters is not yet stale.
	assert.Empty(t, Stale(threads, 8))
	assert.Len(t, Stale(threads, 9), 1)
}
