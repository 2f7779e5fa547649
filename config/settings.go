package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Generator modes. GeneratorModeDisabled makes the AI tier return no
// suggestions so the orchestrator falls through to the local catalog.
const (
	GeneratorModeLLM      = "llm"
	GeneratorModeDisabled = "disabled"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	LLM       LLMSettings       `json:"llm"`
	Generator GeneratorSettings `json:"generator"`
	Metadata  MetadataSettings  `json:"metadata"`
	Catalog   CatalogSettings   `json:"catalog"`
	Log       LogConfig         `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LLMSettings configures the external completion model.
type LLMSettings struct {
	APIKey          string  `json:"apiKey"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TimeoutSeconds  int     `json:"timeoutSeconds"`
}

// GeneratorSettings selects the suggestion generation strategy.
type GeneratorSettings struct {
	Mode string `json:"mode"` // "llm" or "disabled"
}

// MetadataSettings configures the external title lookup provider.
type MetadataSettings struct {
	BaseURL        string `json:"baseUrl"`
	APIKey         string `json:"apiKey"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// CatalogSettings tunes the local fallback catalog.
// Seed 0 means time-seeded tie shuffling; any other value makes
// result ordering deterministic between runs.
type CatalogSettings struct {
	Seed         int64 `json:"seed"`
	DesiredCount int   `json:"desiredCount"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8000},
		LLM: LLMSettings{
			APIKey:          "",
			Model:           "gemini-2.0-flash-001",
			Temperature:     0.7,
			TopP:            0.8,
			TopK:            40,
			MaxOutputTokens: 2048,
			TimeoutSeconds:  15,
		},
		Generator: GeneratorSettings{Mode: GeneratorModeLLM},
		Metadata: MetadataSettings{
			BaseURL:        "https://api.imdbapi.dev",
			APIKey:         "",
			TimeoutSeconds: 8,
		},
		Catalog: CatalogSettings{Seed: 0, DesiredCount: 3},
		Log: LogConfig{
			File:       "cache/logs/backend.log",
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
// Environment variables override persisted API keys so secrets can stay
// out of the settings file.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	var settings Settings
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		settings = DefaultSettings()
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
	} else {
		f, err := os.Open(m.path)
		if err != nil {
			return Settings{}, err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(&settings); err != nil {
			return Settings{}, err
		}
		applyMissingDefaults(&settings)
	}

	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		settings.LLM.APIKey = key
	}
	if key := strings.TrimSpace(os.Getenv("IMDB_API_KEY")); key != "" {
		settings.Metadata.APIKey = key
	}

	return settings, nil
}

// Save writes settings to disk, creating the parent directory if needed.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// applyMissingDefaults fills fields absent from older settings files.
func applyMissingDefaults(s *Settings) {
	defaults := DefaultSettings()

	if s.Server.Port == 0 {
		s.Server = defaults.Server
	}
	if strings.TrimSpace(s.LLM.Model) == "" {
		s.LLM.Model = defaults.LLM.Model
	}
	if s.LLM.MaxOutputTokens == 0 {
		s.LLM.MaxOutputTokens = defaults.LLM.MaxOutputTokens
	}
	if s.LLM.Temperature == 0 {
		s.LLM.Temperature = defaults.LLM.Temperature
	}
	if s.LLM.TopP == 0 {
		s.LLM.TopP = defaults.LLM.TopP
	}
	if s.LLM.TopK == 0 {
		s.LLM.TopK = defaults.LLM.TopK
	}
	if s.LLM.TimeoutSeconds == 0 {
		s.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}
	if strings.TrimSpace(s.Generator.Mode) == "" {
		s.Generator.Mode = GeneratorModeLLM
	}
	if strings.TrimSpace(s.Metadata.BaseURL) == "" {
		s.Metadata.BaseURL = defaults.Metadata.BaseURL
	}
	if s.Metadata.TimeoutSeconds == 0 {
		s.Metadata.TimeoutSeconds = defaults.Metadata.TimeoutSeconds
	}
	if s.Catalog.DesiredCount == 0 {
		s.Catalog.DesiredCount = defaults.Catalog.DesiredCount
	}
	if strings.TrimSpace(s.Log.File) == "" {
		s.Log = defaults.Log
	}
}
