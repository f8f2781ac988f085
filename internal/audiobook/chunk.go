// Package audiobook turns chapter files into narrated audio via an
// edge-tts-compatible HTTP service.
package audiobook

import (
	"regexp"
	"strings"
)

// maxChunkRunes is the largest text the TTS service accepts per request.
const maxChunkRunes = 500

var (
	// Editors that show line numbers leak them into pasted text as "12→".
	lineNumberPrefix = regexp.MustCompile(`(?m)^[ \t]*\d+→`)
	blankLines       = regexp.MustCompile(`\n{3,}`)
)

var sentenceEnders = map[rune]bool{'。': true, '！': true, '？': true, '…': true}

// CleanText strips line-number artifacts and collapses runs of blank lines.
func CleanText(text string) string {
	text = lineNumberPrefix.ReplaceAllString(text, "")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SplitText cuts text into chunks of at most maxRunes runes, breaking at
// sentence enders so narration pauses fall naturally. A single sentence
// longer than the limit is hard-split.
func SplitText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = maxChunkRunes
	}

	var sentences []string
	var current []rune
	for _, r := range text {
		current = append(current, r)
		if sentenceEnders[r] {
			sentences = append(sentences, string(current))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, string(current))
	}

	var chunks []string
	var buf []rune
	flush := func() {
		if s := strings.TrimSpace(string(buf)); s != "" {
			chunks = append(chunks, s)
		}
		buf = buf[:0]
	}

	for _, sentence := range sentences {
		runes := []rune(sentence)
		if len(runes) > maxRunes {
			flush()
			for len(runes) > maxRunes {
				chunks = append(chunks, string(runes[:maxRunes]))
				runes = runes[maxRunes:]
			}
			buf = append(buf, runes...)
			continue
		}
		if len(buf)+len(runes) > maxRunes {
			flush()
		}
		buf = append(buf, runes...)
	}
	flush()

	return chunks
}
