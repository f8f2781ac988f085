// Package project manages the on-disk layout of a novel project: the outline
// and narrative-log documents and the per-volume chapter files.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/plotloom/plotloom/internal/config"
	"github.com/plotloom/plotloom/internal/plotlog"
)

// Project is the root directory of a novel plus its file conventions.
type Project struct {
	Root string

	cfg *config.Config
	log zerolog.Logger
}

func New(root string, cfg *config.Config, log zerolog.Logger) *Project {
	return &Project{Root: root, cfg: cfg, log: log}
}

func (p *Project) OutlinePath() string {
	return filepath.Join(p.Root, p.cfg.Files.Outline)
}

func (p *Project) LogPath() string {
	return filepath.Join(p.Root, p.cfg.Files.NarrativeLog)
}

// LoadOutline reads the outline document. A missing outline is normal for a
// young project and reads as empty.
func (p *Project) LoadOutline() string {
	data, err := os.ReadFile(p.OutlinePath())
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Warn().Err(err).Str("path", p.OutlinePath()).Msg("outline not readable")
		} else {
			p.log.Info().Str("path", p.OutlinePath()).Msg("no outline yet")
		}
		return ""
	}
	return string(data)
}

// ReadLog reads the narrative-log document, empty when it does not exist yet.
func (p *Project) ReadLog() (string, error) {
	data, err := os.ReadFile(p.LogPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading narrative log: %w", err)
	}
	return string(data), nil
}

// AppendLogEntry inserts a formatted entry into the narrative log's plot-log
// section, creating the document if needed.
func (p *Project) AppendLogEntry(entry string) error {
	doc, err := p.ReadLog()
	if err != nil {
		return err
	}
	updated := plotlog.Insert(doc, entry)
	if err := os.WriteFile(p.LogPath(), []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing narrative log: %w", err)
	}
	return nil
}

// VolumeDir returns the directory for the volume containing chapter num.
func (p *Project) VolumeDir(num int) string {
	perVolume := p.cfg.Chapters.PerVolume
	if perVolume <= 0 {
		perVolume = 20
	}
	volume := (num-1)/perVolume + 1
	return filepath.Join(p.Root, fmt.Sprintf("第%d卷", volume))
}

// ChapterFileName renders the naming template for a chapter.
func (p *Project) ChapterFileName(num int, title string) string {
	return strings.NewReplacer(
		"{num}", strconv.Itoa(num),
		"{title}", title,
	).Replace(p.cfg.Chapters.Naming)
}

// ChapterPath returns where a chapter's file lives, whether or not it exists.
func (p *Project) ChapterPath(num int, title string) string {
	return filepath.Join(p.VolumeDir(num), p.ChapterFileName(num, title))
}

// SaveChapter writes chapter content into its volume directory and returns
// the path written.
func (p *Project) SaveChapter(num int, title, content string) (string, error) {
	dir := p.VolumeDir(num)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating volume dir: %w", err)
	}

	path := filepath.Join(dir, p.ChapterFileName(num, title))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing chapter: %w", err)
	}

	p.log.Info().Str("path", path).Int("chapter", num).Msg("chapter saved")
	return path, nil
}

// Init lays down the skeleton of a new project: config file, outline and
// narrative-log starters. Existing files are left alone.
func (p *Project) Init() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("creating project root: %w", err)
	}

	name := p.cfg.Project.Name
	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(p.Root, config.ConfigFileName), string(config.DefaultConfigYAML)},
		{p.OutlinePath(), fmt.Sprintf("# %s 故事大纲\n\n## 核心设定\n\n## 主要人物\n\n## 剧情走向\n", name)},
		{p.LogPath(), fmt.Sprintf("# %s 创作手记\n\n## 剧情日志\n", name)},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			p.log.Info().Str("path", f.path).Msg("already exists, keeping")
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}
