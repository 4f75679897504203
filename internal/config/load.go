package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment keys read on top of the YAML file.
const (
	EnvCookie     = "YOUTUBE_COOKIE"
	EnvOpenAIKey  = "OPENAI_API_KEY"
	EnvGeminiKeys = "GEMINI_API_KEYS"
	EnvLogLevel   = "REVIEW_LOG_LEVEL"
)

// Load reads the YAML config at path, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{Telop: DefaultTelop()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvOpenAIKey); key != "" {
		c.Whisper.APIKey = key
	}
	if keys := os.Getenv(EnvGeminiKeys); keys != "" {
		c.Gemini.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
}

// BootstrapCookie writes the YOUTUBE_COOKIE payload to the configured cookie
// file once, when the variable is set and the file does not exist yet.
// It reports whether a usable (existing, non-empty) cookie file is present.
func (c *Config) BootstrapCookie() (bool, error) {
	path := c.Download.CookieFile
	if content := os.Getenv(EnvCookie); content != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return false, fmt.Errorf("create cookie dir: %w", err)
				}
			}
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				return false, fmt.Errorf("write cookie file: %w", err)
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, nil
	}
	return info.Size() > 0, nil
}
