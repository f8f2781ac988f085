// Package extract mines structured chapter data out of plot-log blocks.
package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plotloom/plotloom/internal/plotlog"
	"github.com/plotloom/plotloom/internal/store"
)

var (
	plotPattern = regexp.MustCompile(`\*\s*\*\*剧情进展[：:]?\*\*\s*([^*]+)`)
	cluePattern = regexp.MustCompile(`\*\s*\*\*关键线索[：:]?\*\*\s*([^*]+)`)
	charLabel   = regexp.MustCompile(`\*\s*\*\*角色状态[：:]?\*\*`)
	otherLabel  = regexp.MustCompile(`\*\s*\*\*(剧情进展|关键线索)[：:]?\*\*`)

	// Character mentions inside the status section look like **林尘（主角）**
	// or **林尘**, optionally followed by a colon.
	charPattern = regexp.MustCompile(`\*\*([^（(*\n]+?)(?:\s*[（(]([^）)]*)[）)])?\s*[：:]?\*\*`)
)

// maxNameRunes rejects matches that are whole sentences rather than names.
const maxNameRunes = 20

// ParseChapter converts one plot-log block into a chapter summary. Absent
// labels degrade to empty fields rather than errors; the error return is for
// unexpected conditions only.
func ParseChapter(b plotlog.Block) (*store.ChapterSummary, error) {
	summary := &store.ChapterSummary{
		ChapterNum:         b.Num,
		Title:              b.Title,
		CharactersInvolved: parseCharacters(b.Body),
		PlotThreads:        []string{},
		KeyEvents:          []string{},
		CreatedTime:        time.Now().UTC(),
	}

	if m := plotPattern.FindStringSubmatch(b.Body); m != nil {
		summary.ContentSummary = strings.TrimSpace(m[1])
	}

	if clue := cluePattern.FindStringSubmatch(b.Body); clue != nil {
		if event := strings.TrimSpace(clue[1]); event != "" {
			summary.KeyEvents = append(summary.KeyEvents, event)
		}
	}

	return summary, nil
}

// parseCharacters pulls character names from the 角色状态 section of a block.
// The section runs from its label to the next label line, so bold text in
// other sections is never mistaken for a name.
func parseCharacters(body string) []string {
	loc := charLabel.FindStringIndex(body)
	if loc == nil {
		return []string{}
	}
	section := body[loc[1]:]
	if next := otherLabel.FindStringIndex(section); next != nil {
		section = section[:next[0]]
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, m := range charPattern.FindAllStringSubmatch(section, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		// Chapter references and run-on sentences are not names.
		if strings.HasPrefix(name, "第") || utf8.RuneCountInString(name) >= maxNameRunes {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
