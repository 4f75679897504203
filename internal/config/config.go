package config

import "fmt"

type Config struct {
	Download    DownloadConfig    `yaml:"download"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	OCR         OCRConfig         `yaml:"ocr"`
	Telop       TelopConfig       `yaml:"telop"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
}

type DownloadConfig struct {
	BinaryPath string `yaml:"binary_path"`
	MaxHeight  int    `yaml:"max_height"`
	CookieFile string `yaml:"cookie_file"`
	TempDir    string `yaml:"temp_dir"`
}

const (
	BackendWhisperCPP = "whispercpp"
	BackendOpenAI     = "openai"
)

type WhisperConfig struct {
	Backend    string `yaml:"backend"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`

	// OpenAI-compatible backend
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"-"`
}

type OCRConfig struct {
	Languages   []string `yaml:"languages"`
	PageSegMode int      `yaml:"page_seg_mode"`
}

// TelopConfig tunes caption detection. Zero is a legal threshold, so
// defaults come from DefaultTelop rather than from Validate.
type TelopConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	SampleRateHz        float64 `yaml:"sample_rate_hz"`
}

// DefaultTelop returns the detection settings used when the config file
// leaves them out.
func DefaultTelop() TelopConfig {
	return TelopConfig{
		ConfidenceThreshold: 60,
		SimilarityThreshold: 0.9,
		SampleRateHz:        1,
	}
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

// Validate rejects unusable values and fills defaults for everything optional.
func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = BackendWhisperCPP
	}
	switch c.Whisper.Backend {
	case BackendWhisperCPP:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case BackendOpenAI:
		if c.Whisper.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	default:
		return fmt.Errorf("whisper.backend %q is not supported", c.Whisper.Backend)
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Telop.ConfidenceThreshold < 0 || c.Telop.ConfidenceThreshold > 100 {
		return fmt.Errorf("telop.confidence_threshold must be within 0-100")
	}
	if c.Telop.SimilarityThreshold < 0 || c.Telop.SimilarityThreshold > 1 {
		return fmt.Errorf("telop.similarity_threshold must be within 0-1")
	}
	if c.Telop.SampleRateHz <= 0 {
		return fmt.Errorf("telop.sample_rate_hz must be positive")
	}
	if c.Download.MaxHeight < 0 {
		return fmt.Errorf("download.max_height must be positive")
	}

	if c.Download.BinaryPath == "" {
		c.Download.BinaryPath = "yt-dlp"
	}
	if c.Download.MaxHeight == 0 {
		c.Download.MaxHeight = 720
	}
	if c.Download.CookieFile == "" {
		c.Download.CookieFile = "cookies.txt"
	}
	if c.Download.TempDir == "" {
		c.Download.TempDir = "data/temp"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "whisper-1"
	}
	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = []string{"jpn", "eng"}
	}
	if c.OCR.PageSegMode == 0 {
		c.OCR.PageSegMode = 3
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	// Runs share one temp media path, so analyses never overlap.
	c.Performance.MaxConcurrent = 1
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	return nil
}
