// Package config loads the toolbox configuration from defaults, an optional
// TOML file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"AIToolbox/internal/backend"
	"AIToolbox/internal/service"
)

const (
	BackendGemini = backend.BackendGemini
	BackendOllama = backend.BackendOllama
)

// Config holds application configuration
type Config struct {
	Backend string `toml:"backend"`
	APIKey  string `toml:"api_key"`
	Debug   bool   `toml:"debug"`

	// Ollama is only used with the ollama backend
	OllamaURL   string `toml:"ollama_url"`
	OllamaModel string `toml:"ollama_model"` // "model:version", e.g. "llama3:latest"

	Addr   string `toml:"addr"`
	DBPath string `toml:"db_path"`
	LogDir string `toml:"log_dir"`

	Models ModelsConfig `toml:"models"`
}

// ModelsConfig overrides the Gemini model names
type ModelsConfig struct {
	Text      string `toml:"text"`
	Image     string `toml:"image"`
	ImageEdit string `toml:"image_edit"`
}

// Default returns the built-in configuration
func Default() Config {
	models := service.DefaultModels()
	return Config{
		Backend:     BackendGemini,
		OllamaURL:   "http://localhost:11434",
		OllamaModel: "llama3:latest",
		Addr:        "127.0.0.1:8080",
		DBPath:      "aitoolbox.db",
		LogDir:      "logs",
		Models: ModelsConfig{
			Text:      models.Text,
			Image:     models.Image,
			ImageEdit: models.ImageEdit,
		},
	}
}

// ServiceModels converts the model settings for the facade
func (c Config) ServiceModels() service.Models {
	return service.Models{
		Text:      c.Models.Text,
		Image:     c.Models.Image,
		ImageEdit: c.Models.ImageEdit,
	}
}

// LoadFile decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// applies the recognized variables over cfg. Variables already set in the
// environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if v := os.Getenv("AITOOLBOX_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("AITOOLBOX_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("AITOOLBOX_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaURL = v
	}
	return nil
}

// ValidationError describes one invalid setting
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration. A missing Gemini API key is an error:
// the toolbox does not start without credentials.
func (c Config) Validate() error {
	var errs ValidateErrors

	switch c.Backend {
	case BackendGemini:
		if strings.TrimSpace(c.APIKey) == "" {
			errs = append(errs, ValidationError{
				Field:   "api_key",
				Message: "required for the gemini backend (set GEMINI_API_KEY)",
			})
		}
		if c.Models.Text == "" || c.Models.Image == "" || c.Models.ImageEdit == "" {
			errs = append(errs, ValidationError{Field: "models", Message: "model names cannot be empty"})
		}
	case BackendOllama:
		if u, err := url.Parse(c.OllamaURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "ollama_url",
				Message: fmt.Sprintf("invalid URL %q", c.OllamaURL),
			})
		}
		if c.OllamaModel == "" {
			errs = append(errs, ValidationError{Field: "ollama_model", Message: "cannot be empty"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: gemini, ollama", c.Backend),
		})
	}

	if c.Addr == "" {
		errs = append(errs, ValidationError{Field: "addr", Message: "cannot be empty"})
	}
	if c.DBPath == "" {
		errs = append(errs, ValidationError{Field: "db_path", Message: "cannot be empty"})
	}
	if c.LogDir == "" {
		errs = append(errs, ValidationError{Field: "log_dir", Message: "cannot be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
