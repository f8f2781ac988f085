package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotloom/plotloom/internal/config"
	"github.com/plotloom/plotloom/internal/plotlog"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	root := t.TempDir()
	cfg, err := config.LoadOrDefault(root)
	require.NoError(t, err)
	return New(root, cfg, zerolog.Nop())
}

func TestChapterFileName(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, "第7章 夺宝.txt", p.ChapterFileName(7, "夺宝"))
}

func TestVolumeDir(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, filepath.Join(p.Root, "第1卷"), p.VolumeDir(1))
	assert.Equal(t, filepath.Join(p.Root, "第1卷"), p.VolumeDir(20))
	assert.Equal(t, filepath.Join(p.Root, "第2卷"), p.VolumeDir(21))
	assert.Equal(t, filepath.Join(p.Root, "第3卷"), p.VolumeDir(41))
}

func TestSaveChapter(t *testing.T) {
	p := newTestProject(t)

	path, err := p.SaveChapter(21, "新篇", "正文内容。")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(p.Root, "第2卷", "第21章 新篇.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "正文内容。", string(data))
}

func TestLoadOutlineMissing(t *testing.T) {
	p := newTestProject(t)
	assert.Empty(t, p.LoadOutline())
}

func TestAppendLogEntryCreatesLog(t *testing.T) {
	p := newTestProject(t)

	require.NoError(t, p.AppendLogEntry(plotlog.FormatEntry(1, "开篇", "故事开始。")))

	doc, err := p.ReadLog()
	require.NoError(t, err)
	section, ok := plotlog.FindSection(doc)
	require.True(t, ok)
	require.Len(t, plotlog.Segment(section), 1)
}

func TestAppendLogEntryKeepsNewestFirst(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, p.AppendLogEntry(plotlog.FormatEntry(1, "开篇", "故事开始。")))
	require.NoError(t, p.AppendLogEntry(plotlog.FormatEntry(2, "旧识", "遇到同门。")))

	doc, err := p.ReadLog()
	require.NoError(t, err)
	section, _ := plotlog.FindSection(doc)
	blocks := plotlog.Segment(section)
	require.Len(t, blocks, 2)
	assert.Equal(t, 2, blocks[0].Num)
}

func TestInit(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, p.Init())

	assert.FileExists(t, filepath.Join(p.Root, config.ConfigFileName))
	assert.FileExists(t, p.OutlinePath())
	assert.FileExists(t, p.LogPath())

	doc, err := p.ReadLog()
	require.NoError(t, err)
	_, ok := plotlog.FindSection(doc)
	assert.True(t, ok)
}

func TestInitKeepsExistingFiles(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, os.WriteFile(p.OutlinePath(), []byte("已有大纲"), 0o644))

	require.NoError(t, p.Init())
	assert.Equal(t, "已有大纲", p.LoadOutline())
}
