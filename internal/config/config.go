package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"studygen/internal/domain"
	"studygen/internal/summarizer"
)

// SummarizerConfig holds the defaults applied to summary requests.
type SummarizerConfig struct {
	Algorithm    string                `yaml:"algorithm"`
	Ratio        float64               `yaml:"ratio"`
	MaxSentences int                   `yaml:"max_sentences"`
	KeywordLimit int                   `yaml:"keyword_limit"`
	Weights      summarizer.Weights    `yaml:"weights"`
	Auto         summarizer.Thresholds `yaml:"auto"`
}

// FlashcardsConfig configures flashcard generation.
type FlashcardsConfig struct {
	Count          int `yaml:"count"`
	MinBlankLength int `yaml:"min_blank_length"`
	MaxClauseWords int `yaml:"max_clause_words"`
}

// QuizConfig configures quiz generation.
type QuizConfig struct {
	Count        int `yaml:"count"`
	MinFactWords int `yaml:"min_fact_words"`
}

// LogConfig configures the process logger. An empty File logs to stderr only.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Flashcards FlashcardsConfig `yaml:"flashcards"`
	Quiz       QuizConfig       `yaml:"quiz"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnv(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault loads .env if present, then tries ./config.yaml first and
// ~/.config/studygen/config.yaml second. If neither exists, it writes
// defaults to ~/.config/studygen/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	_ = godotenv.Load()
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the generators would refuse at request time.
func (c *AppConfig) Validate() error {
	if _, err := summarizer.ParseAlgorithm(c.Summarizer.Algorithm); err != nil {
		return fmt.Errorf("summarizer.algorithm: %w", err)
	}
	if c.Summarizer.Ratio <= 0 || c.Summarizer.Ratio > 1 {
		return fmt.Errorf("summarizer.ratio: %w: %v outside (0,1]", domain.ErrInvalidArgument, c.Summarizer.Ratio)
	}
	if c.Summarizer.MaxSentences <= 0 {
		return fmt.Errorf("summarizer.max_sentences: %w: must be positive", domain.ErrInvalidArgument)
	}
	w := c.Summarizer.Weights
	if w.Position < 0 || w.Length < 0 || w.Frequency < 0 || w.Keyword < 0 {
		return fmt.Errorf("summarizer.weights: %w: weights must not be negative", domain.ErrInvalidArgument)
	}
	if c.Flashcards.Count <= 0 {
		return fmt.Errorf("flashcards.count: %w: must be positive", domain.ErrInvalidArgument)
	}
	if c.Quiz.Count <= 0 {
		return fmt.Errorf("quiz.count: %w: must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studygen", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Summarizer: SummarizerConfig{
			Algorithm:    string(summarizer.Auto),
			Ratio:        summarizer.DefaultRatio,
			MaxSentences: summarizer.DefaultMaxSentences,
			KeywordLimit: 10,
			Weights:      summarizer.DefaultWeights,
			Auto:         summarizer.DefaultThresholds,
		},
		Flashcards: FlashcardsConfig{Count: 10, MinBlankLength: 4, MaxClauseWords: 30},
		Quiz:       QuizConfig{Count: 10, MinFactWords: 6},
		Log:        LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Server:     ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20, TimeoutSecs: 30},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Summarizer.Algorithm == "" {
		cfg.Summarizer.Algorithm = def.Summarizer.Algorithm
	}
	if cfg.Summarizer.Ratio == 0 {
		cfg.Summarizer.Ratio = def.Summarizer.Ratio
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
	if cfg.Summarizer.KeywordLimit == 0 {
		cfg.Summarizer.KeywordLimit = def.Summarizer.KeywordLimit
	}
	if cfg.Summarizer.Weights == (summarizer.Weights{}) {
		cfg.Summarizer.Weights = def.Summarizer.Weights
	}
	if cfg.Summarizer.Auto.ShortDocument == 0 {
		cfg.Summarizer.Auto.ShortDocument = def.Summarizer.Auto.ShortDocument
	}
	if cfg.Summarizer.Auto.LongDocument == 0 {
		cfg.Summarizer.Auto.LongDocument = def.Summarizer.Auto.LongDocument
	}
	if cfg.Summarizer.Auto.TechnicalRatio == 0 {
		cfg.Summarizer.Auto.TechnicalRatio = def.Summarizer.Auto.TechnicalRatio
	}
	if cfg.Flashcards.Count == 0 {
		cfg.Flashcards.Count = def.Flashcards.Count
	}
	if cfg.Flashcards.MinBlankLength == 0 {
		cfg.Flashcards.MinBlankLength = def.Flashcards.MinBlankLength
	}
	if cfg.Flashcards.MaxClauseWords == 0 {
		cfg.Flashcards.MaxClauseWords = def.Flashcards.MaxClauseWords
	}
	if cfg.Quiz.Count == 0 {
		cfg.Quiz.Count = def.Quiz.Count
	}
	if cfg.Quiz.MinFactWords == 0 {
		cfg.Quiz.MinFactWords = def.Quiz.MinFactWords
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = def.Log.MaxBackups
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = def.Log.MaxAgeDays
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
}

// applyEnv lets STUDYGEN_* variables override file values.
func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("STUDYGEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STUDYGEN_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("STUDYGEN_ALGORITHM"); v != "" {
		cfg.Summarizer.Algorithm = v
	}
	if v := os.Getenv("STUDYGEN_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STUDYGEN_RATIO: %w", err)
		}
		cfg.Summarizer.Ratio = f
	}
	if v := os.Getenv("STUDYGEN_MAX_SENTENCES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYGEN_MAX_SENTENCES: %w", err)
		}
		cfg.Summarizer.MaxSentences = n
	}
	if v := os.Getenv("STUDYGEN_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}
