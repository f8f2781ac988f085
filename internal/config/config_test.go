package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	require.NoError(t, err)

	assert.Equal(t, "未知作者", cfg.Project.Author)
	assert.Equal(t, "第{num}章 {title}.txt", cfg.Chapters.Naming)
	assert.Equal(t, 20, cfg.Chapters.PerVolume)
	assert.Equal(t, 3, cfg.Writing.RecentChapters)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
project:
  name: 测试小说
  genre: 玄幻
writing:
  target_words: 8000
`)
	cfg, err := parse(data)
	require.NoError(t, err)

	assert.Equal(t, "测试小说", cfg.Project.Name)
	assert.Equal(t, "玄幻", cfg.Project.Genre)
	assert.Equal(t, 8000, cfg.Writing.TargetWords)
	// Defaults should still be set for unspecified fields
	assert.Equal(t, 3000, cfg.Writing.MinWords)
	assert.Equal(t, "故事大纲.md", cfg.Files.Outline)
	assert.Equal(t, "agent.md", cfg.Files.NarrativeLog)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, DefaultConfigYAML, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".plotloom", cfg.Data.Dir)
}

func TestLoadOrDefaultFallsBackToProjectName(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cfg.Project.Name)
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveConfigPath(dir, "")
	assert.Error(t, err)

	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, DefaultConfigYAML, 0o644))

	resolved, err := ResolveConfigPath(dir, "")
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLOTLOOM_DATA_DIR", "/tmp/override")
	t.Setenv("PLOTLOOM_TTS_URL", "http://tts.local:9000")

	cfg, err := parse(DefaultConfigYAML)
	require.NoError(t, err)
	require.NoError(t, cfg.applyEnv())

	assert.Equal(t, "/tmp/override", cfg.Data.Dir)
	assert.Equal(t, "http://tts.local:9000", cfg.TTS.URL)
}

func TestDataDirResolution(t *testing.T) {
	cfg := &Config{Data: Data{Dir: ".plotloom"}}
	assert.Equal(t, filepath.Join("/proj", ".plotloom"), cfg.DataDir("/proj"))

	cfg.Data.Dir = "/var/lib/plotloom"
	assert.Equal(t, "/var/lib/plotloom", cfg.DataDir("/proj"))
}
