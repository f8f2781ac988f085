package audiobook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotloom/plotloom/internal/config"
)

func TestCleanText(t *testing.T) {
	in := "  1→第一行。\n\n\n\n 23→第二行。\n"
	assert.Equal(t, "第一行。\n\n第二行。", CleanText(in))
}

func TestSplitTextBySentence(t *testing.T) {
	text := strings.Repeat("这是一个句子。", 100) // 7 runes each
	chunks := SplitText(text, 500)

	require.NotEmpty(t, chunks)
	total := 0
	for _, c := range chunks {
		n := utf8.RuneCountInString(c)
		assert.LessOrEqual(t, n, 500)
		// Chunks end on sentence boundaries.
		assert.True(t, strings.HasSuffix(c, "。"))
		total += n
	}
	assert.Equal(t, 700, total)
}

func TestSplitTextHardSplitsLongSentence(t *testing.T) {
	text := strings.Repeat("字", 1200) + "。"
	chunks := SplitText(text, 500)
	require.Len(t, chunks, 3)
	assert.Equal(t, 500, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 201, utf8.RuneCountInString(chunks[2]))
}

func TestSplitTextEmpty(t *testing.T) {
	assert.Empty(t, SplitText("   ", 500))
}

func newTestService(t *testing.T, hits *[]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tts", r.URL.Path)
		require.Equal(t, "zh-CN-YunxiNeural", r.URL.Query().Get("voice"))
		*hits = append(*hits, r.URL.Query().Get("text"))
		w.Write([]byte("AUDIO:"))
	}))
	t.Cleanup(srv.Close)

	return NewClient(config.TTS{
		URL:            srv.URL,
		Voice:          "zh-CN-YunxiNeural",
		Rate:           "+0%",
		Pitch:          "+0Hz",
		TimeoutSeconds: 5,
	})
}

func TestSynthesize(t *testing.T) {
	var hits []string
	client := newTestService(t, &hits)

	audio, err := client.Synthesize(context.Background(), "你好。")
	require.NoError(t, err)
	assert.Equal(t, []byte("AUDIO:"), audio)
	assert.Equal(t, []string{"你好。"}, hits)
}

func TestSynthesizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "voice not found", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.TTS{URL: srv.URL})
	_, err := client.Synthesize(context.Background(), "你好。")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice not found")
}

func TestGenerateChapter(t *testing.T) {
	var hits []string
	gen := NewGenerator(newTestService(t, &hits), zerolog.Nop())

	dir := t.TempDir()
	path := filepath.Join(dir, "第1章 开篇.txt")
	content := strings.Repeat("这是一个句子。", 100)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := gen.Chapter(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "第1章 开篇.mp3"), out)

	// 700 runes of text means two requests at a 500-rune chunk limit.
	assert.Len(t, hits, 2)

	audio, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "AUDIO:AUDIO:", string(audio))
}

func TestGenerateVolumeSkipsExisting(t *testing.T) {
	var hits []string
	gen := NewGenerator(newTestService(t, &hits), zerolog.Nop())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "第1章 开篇.txt"), []byte("第一章。"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "第1章 开篇.mp3"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "第2章 旧识.txt"), []byte("第二章。"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "第3章 空白.txt"), []byte("   "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("不是章节"), 0o644))

	res, err := gen.Volume(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)

	assert.FileExists(t, filepath.Join(dir, "第2章 旧识.mp3"))
}
