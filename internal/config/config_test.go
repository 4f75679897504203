package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid whisper.cpp config",
			config: Config{
				Whisper: WhisperConfig{
					ModelPath:  "models/test.bin",
					BinaryPath: "./whisper",
				},
				Paths: PathsConfig{Output: "data/output"},
				Telop: DefaultTelop(),
			},
			wantErr: false,
		},
		{
			name: "missing model path",
			config: Config{
				Whisper: WhisperConfig{BinaryPath: "./whisper"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   DefaultTelop(),
			},
			wantErr: true,
		},
		{
			name: "openai backend without key",
			config: Config{
				Whisper: WhisperConfig{Backend: BackendOpenAI},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   DefaultTelop(),
			},
			wantErr: true,
		},
		{
			name: "openai backend with key",
			config: Config{
				Whisper: WhisperConfig{Backend: BackendOpenAI, APIKey: "sk-test"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   DefaultTelop(),
			},
			wantErr: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Whisper: WhisperConfig{Backend: "vosk"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   DefaultTelop(),
			},
			wantErr: true,
		},
		{
			name: "missing output path",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "models/test.bin", BinaryPath: "./whisper"},
				Telop:   DefaultTelop(),
			},
			wantErr: true,
		},
		{
			name: "similarity out of range",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "models/test.bin", BinaryPath: "./whisper"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   TelopConfig{SimilarityThreshold: 1.5, SampleRateHz: 1},
			},
			wantErr: true,
		},
		{
			name: "zero thresholds",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "models/test.bin", BinaryPath: "./whisper"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   TelopConfig{SampleRateHz: 1},
			},
			wantErr: false,
		},
		{
			name: "negative sample rate",
			config: Config{
				Whisper: WhisperConfig{ModelPath: "models/test.bin", BinaryPath: "./whisper"},
				Paths:   PathsConfig{Output: "data/output"},
				Telop:   TelopConfig{ConfidenceThreshold: 60, SimilarityThreshold: 0.9, SampleRateHz: -1},
			},
			wantErr: true,
		},
		{
			name: "negative max height",
			config: Config{
				Download: DownloadConfig{MaxHeight: -480},
				Whisper:  WhisperConfig{ModelPath: "models/test.bin", BinaryPath: "./whisper"},
				Paths:    PathsConfig{Output: "data/output"},
				Telop:    DefaultTelop(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Whisper:     WhisperConfig{ModelPath: "m.bin", BinaryPath: "./whisper"},
		Paths:       PathsConfig{Output: "out"},
		Telop:       DefaultTelop(),
		Performance: PerformanceConfig{MaxConcurrent: 4},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Download.MaxHeight != 720 {
		t.Errorf("MaxHeight = %v, want 720", cfg.Download.MaxHeight)
	}
	if len(cfg.OCR.Languages) != 2 || cfg.OCR.Languages[0] != "jpn" || cfg.OCR.Languages[1] != "eng" {
		t.Errorf("OCR.Languages = %v, want [jpn eng]", cfg.OCR.Languages)
	}
	if cfg.OCR.PageSegMode != 3 {
		t.Errorf("PageSegMode = %v, want 3", cfg.OCR.PageSegMode)
	}
	if cfg.Performance.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %v, want 1", cfg.Performance.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
download:
  max_height: 480

whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
  language: "ja"

telop:
  confidence_threshold: 70

paths:
  input: "data/input"
  output: "data/output"

logging:
  level: "info"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.ModelPath != "models/test.bin" {
		t.Errorf("ModelPath = %v, want %v", cfg.Whisper.ModelPath, "models/test.bin")
	}
	if cfg.Download.MaxHeight != 480 {
		t.Errorf("MaxHeight = %v, want %v", cfg.Download.MaxHeight, 480)
	}
	if cfg.Telop.ConfidenceThreshold != 70 {
		t.Errorf("ConfidenceThreshold = %v, want %v", cfg.Telop.ConfidenceThreshold, 70)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %v, want %v", cfg.Logging.Format, "json")
	}
}

func TestLoadTelopSettings(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want TelopConfig
	}{
		{"omitted", "", DefaultTelop()},
		{
			"explicit zeros kept",
			"telop:\n  confidence_threshold: 0\n  similarity_threshold: 0\n",
			TelopConfig{ConfidenceThreshold: 0, SimilarityThreshold: 0, SampleRateHz: 1},
		},
		{
			"partial override",
			"telop:\n  sample_rate_hz: 2\n",
			TelopConfig{ConfidenceThreshold: 60, SimilarityThreshold: 0.9, SampleRateHz: 2},
		},
	}

	base := "whisper:\n  model_path: m.bin\n  binary_path: ./whisper\npaths:\n  output: out\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(base+tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Telop != tt.want {
				t.Errorf("Telop = %+v, want %+v", cfg.Telop, tt.want)
			}
		})
	}
}

func TestLoadRejectsNegativeSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "whisper:\n  model_path: m.bin\n  binary_path: ./whisper\npaths:\n  output: out\ntelop:\n  sample_rate_hz: -1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject a negative sample rate")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("GEMINI_API_KEYS=k1, k2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv(EnvGeminiKeys)
	t.Cleanup(func() { os.Unsetenv(EnvGeminiKeys) })

	if err := LoadEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	cfg := Config{}
	cfg.applyEnv()
	if len(cfg.Gemini.APIKeys) != 2 || cfg.Gemini.APIKeys[1] != "k2" {
		t.Errorf("APIKeys = %v, want [k1 k2]", cfg.Gemini.APIKeys)
	}
}

func TestBootstrapCookie(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Download: DownloadConfig{CookieFile: filepath.Join(dir, "cookies.txt")}}

	t.Setenv(EnvCookie, "")
	ok, err := cfg.BootstrapCookie()
	if err != nil || ok {
		t.Fatalf("BootstrapCookie() without payload = %v, %v; want false, nil", ok, err)
	}

	t.Setenv(EnvCookie, "# Netscape HTTP Cookie File\n")
	ok, err = cfg.BootstrapCookie()
	if err != nil || !ok {
		t.Fatalf("BootstrapCookie() = %v, %v; want true, nil", ok, err)
	}

	// Existing file is never overwritten.
	t.Setenv(EnvCookie, "other")
	if _, err := cfg.BootstrapCookie(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(cfg.Download.CookieFile)
	if string(data) != "# Netscape HTTP Cookie File\n" {
		t.Errorf("cookie file = %q, should keep the first payload", data)
	}
}
