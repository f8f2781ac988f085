// Package plotlog parses and updates the plot-log section of a project's
// narrative-log document. The log is hand-edited markdown, so parsing is
// best-effort: headings that don't match the expected shape are skipped.
package plotlog

import (
	"regexp"
	"strconv"
	"strings"
)

// The section heading appears in the wild both bold and plain.
const (
	sectionHeadingBold  = "## **剧情日志**"
	sectionHeadingPlain = "## 剧情日志"
)

var (
	// Chapter headings look like: ### **第12章：风起青萍**
	// A heading missing its closing markers simply doesn't match.
	chapterHeading = regexp.MustCompile(`### \*\*第(\d+)章[：:\s]*([^*\n]+)\*\*`)
	volumeHeading  = regexp.MustCompile(`\n## \*\*第\d+卷`)
)

// Block is one chapter's raw text within the plot log, heading included.
type Block struct {
	Num   int
	Title string
	Body  string
}

// FindSection locates the plot-log section and returns the document from its
// heading to the end. A document without the section is a recoverable
// condition, reported via ok.
func FindSection(doc string) (section string, ok bool) {
	idx := strings.Index(doc, sectionHeadingBold)
	if idx == -1 {
		idx = strings.Index(doc, sectionHeadingPlain)
	}
	if idx == -1 {
		return "", false
	}
	return doc[idx:], true
}

// Segment splits the plot-log section into per-chapter blocks, in document
// order. Hand-edited logs can have duplicate or out-of-order headings, so
// callers re-sort by chapter number downstream.
//
// A block runs from its own heading to the next chapter heading. The section
// ends at the next volume heading, so planned chapters listed under a volume
// outline are not segmented.
func Segment(section string) []Block {
	if v := volumeHeading.FindStringIndex(section); v != nil {
		section = section[:v[0]]
	}

	matches := chapterHeading.FindAllStringSubmatchIndex(section, -1)
	blocks := make([]Block, 0, len(matches))

	for i, m := range matches {
		num, err := strconv.Atoi(section[m[2]:m[3]])
		if err != nil {
			continue
		}
		title := strings.TrimSpace(section[m[4]:m[5]])

		end := len(section)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		blocks = append(blocks, Block{
			Num:   num,
			Title: title,
			Body:  strings.TrimSpace(section[m[0]:end]),
		})
	}

	return blocks
}

// LatestChapter returns the highest chapter number referenced by any chapter
// heading in the document, or 0 when none match. Used as a fallback when the
// store has no summaries yet.
func LatestChapter(doc string) int {
	latest := 0
	for _, m := range chapterHeading.FindAllStringSubmatch(doc, -1) {
		if num, err := strconv.Atoi(m[1]); err == nil && num > latest {
			latest = num
		}
	}
	return latest
}
