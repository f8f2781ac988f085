package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// ConfigFileName is the per-project config file looked up in the project root.
const ConfigFileName = "plotloom.yaml"

type Config struct {
	Project  Project  `yaml:"project"`
	Writing  Writing  `yaml:"writing"`
	Files    Files    `yaml:"files"`
	Chapters Chapters `yaml:"chapters"`
	Data     Data     `yaml:"data"`
	TTS      TTS      `yaml:"tts"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Project struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`
	Genre  string `yaml:"genre"`
}

type Writing struct {
	MinWords       int `yaml:"min_words"`
	TargetWords    int `yaml:"target_words"`
	MaxWords       int `yaml:"max_words"`
	RecentChapters int `yaml:"recent_chapters"`
}

type Files struct {
	Outline      string `yaml:"outline"`
	NarrativeLog string `yaml:"narrative_log"`
}

type Chapters struct {
	Naming    string `yaml:"naming"`
	PerVolume int    `yaml:"per_volume"`
}

type Data struct {
	Dir string `yaml:"dir"`
}

type TTS struct {
	URL            string `yaml:"url"`
	Voice          string `yaml:"voice"`
	Rate           string `yaml:"rate"`
	Pitch          string `yaml:"pitch"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// envOverrides are applied on top of the file config so deployments can
// redirect the data dir or TTS endpoint without editing project files.
type envOverrides struct {
	DataDir  string `envconfig:"DATA_DIR"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	TTSURL   string `envconfig:"TTS_URL"`
}

// ResolveConfigPath finds the config file following priority:
// explicit path > <root>/plotloom.yaml.
func ResolveConfigPath(root, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	rootConfig := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(rootConfig); err == nil {
		return rootConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found at %s\n\nRun 'plotloom init' to create a project",
		rootConfig,
	)
}

// Load reads and parses a config YAML file, then applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the project config if present, otherwise returns the
// embedded defaults. A missing config is how a fresh project starts.
func LoadOrDefault(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		cfg, err := parse(DefaultConfigYAML)
		if err != nil {
			return nil, err
		}
		if cfg.Project.Name == "" {
			cfg.Project.Name = filepath.Base(root)
		}
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Project: Project{
			Author: "未知作者",
			Genre:  "通用",
		},
		Writing: Writing{
			MinWords:       3000,
			TargetWords:    5000,
			MaxWords:       8000,
			RecentChapters: 3,
		},
		Files: Files{
			Outline:      "故事大纲.md",
			NarrativeLog: "agent.md",
		},
		Chapters: Chapters{
			Naming:    "第{num}章 {title}.txt",
			PerVolume: 20,
		},
		Data: Data{Dir: ".plotloom"},
		TTS: TTS{
			URL:            "http://localhost:5000",
			Voice:          "zh-CN-YunxiNeural",
			Rate:           "+0%",
			Pitch:          "+0Hz",
			TimeoutSeconds: 30,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("plotloom", &env); err != nil {
		return fmt.Errorf("reading env overrides: %w", err)
	}
	if env.DataDir != "" {
		c.Data.Dir = env.DataDir
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.TTSURL != "" {
		c.TTS.URL = env.TTSURL
	}
	return nil
}

// DataDir returns the effective data directory, resolving relative paths
// against the project root.
func (c *Config) DataDir(root string) string {
	if filepath.IsAbs(c.Data.Dir) {
		return c.Data.Dir
	}
	return filepath.Join(root, c.Data.Dir)
}
