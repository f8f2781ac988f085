package audiobook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Generator drives chapter-by-chapter audio generation.
type Generator struct {
	client *Client
	log    zerolog.Logger
}

func NewGenerator(client *Client, log zerolog.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Result reports what a volume run produced.
type Result struct {
	Generated int
	Skipped   int
	Failed    int
}

// Chapter narrates one chapter file and writes the audio next to it,
// returning the output path. MP3 chunks from edge-tts concatenate cleanly.
func (g *Generator) Chapter(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading chapter: %w", err)
	}

	text := CleanText(string(data))
	if text == "" {
		return "", fmt.Errorf("chapter %s is empty", filepath.Base(path))
	}

	chunks := SplitText(text, maxChunkRunes)
	g.log.Info().Str("chapter", filepath.Base(path)).Int("chunks", len(chunks)).Msg("synthesizing")

	var audio []byte
	for i, chunk := range chunks {
		b, err := g.client.Synthesize(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio = append(audio, b...)
	}

	out := outputPath(path)
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	return out, nil
}

// Volume narrates every chapter file in a volume directory, in name order.
// Chapters that already have audio are skipped; failures don't stop the run.
func (g *Generator) Volume(ctx context.Context, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading volume dir: %w", err)
	}

	var chapters []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			chapters = append(chapters, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(chapters)

	res := &Result{}
	for _, path := range chapters {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := os.Stat(outputPath(path)); err == nil {
			res.Skipped++
			continue
		}
		if _, err := g.Chapter(ctx, path); err != nil {
			g.log.Warn().Err(err).Str("chapter", filepath.Base(path)).Msg("narration failed, continuing")
			res.Failed++
			continue
		}
		res.Generated++
	}
	return res, nil
}

func outputPath(chapterPath string) string {
	return strings.TrimSuffix(chapterPath, filepath.Ext(chapterPath)) + ".mp3"
}
