package extract

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/plotloom/plotloom/internal/plotlog"
	"github.com/plotloom/plotloom/internal/store"
	"github.com/plotloom/plotloom/internal/thread"
)

// maxImportedCharacters caps how many names an import promotes to the
// character roster. Frequent names are protagonists, one-offs are noise.
const maxImportedCharacters = 5

const importedDescription = "从剧情日志导入"

// Importer rebuilds store state from a narrative-log document.
type Importer struct {
	store *store.Store
	log   zerolog.Logger
}

func NewImporter(st *store.Store, log zerolog.Logger) *Importer {
	return &Importer{store: st, log: log}
}

// Result reports what one import run changed.
type Result struct {
	Chapters   int
	Characters int
	Threads    int
	Skipped    int
}

// ImportLog parses the plot log out of content and merges it into the store.
// Existing characters keep their state; chapter summaries are replaced by
// their re-parsed versions. A document without a plot log imports nothing.
func (im *Importer) ImportLog(content string) (*Result, error) {
	res := &Result{}

	section, ok := plotlog.FindSection(content)
	if !ok {
		im.log.Info().Msg("no plot log section found, nothing to import")
		return res, nil
	}

	counts := make(map[string]int)
	var order []string
	var imported []store.ChapterSummary

	for _, block := range plotlog.Segment(section) {
		summary, err := ParseChapter(block)
		if err != nil {
			im.log.Warn().Int("chapter", block.Num).Err(err).Msg("skipping chapter block")
			res.Skipped++
			continue
		}

		im.store.UpsertSummary(*summary)
		imported = append(imported, *summary)
		res.Chapters++

		for _, name := range summary.CharactersInvolved {
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	// Most-mentioned names first, ties in order of first appearance.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxImportedCharacters {
		order = order[:maxImportedCharacters]
	}
	for _, name := range order {
		if im.store.MergeCharacter(store.CharacterInfo{
			Name:        name,
			Description: importedDescription,
		}) {
			res.Characters++
		}
	}

	threads := thread.FromSummaries(imported, thread.NextID(im.store.Threads()))
	im.store.AddThreads(threads...)
	res.Threads = len(threads)

	if err := im.store.Flush(); err != nil {
		return nil, fmt.Errorf("saving imported state: %w", err)
	}

	im.log.Info().
		Int("chapters", res.Chapters).
		Int("characters", res.Characters).
		Int("threads", res.Threads).
		Int("skipped", res.Skipped).
		Msg("plot log imported")
	return res, nil
}
