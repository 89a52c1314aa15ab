package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	ReportgenAPIKey string

	// Claude extraction
	AnthropicAPIKey string
	AnthropicModel  string

	// Audio transcription
	AssemblyAIAPIKey string

	// Report assets
	TemplatePath string
	RulesPath    string
	RulesSheet   string
	MappingPath  string
	OutputDir    string
	FontName     string

	// Placeholder handling
	StrictPlaceholders bool

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		ReportgenAPIKey: os.Getenv("REPORTGEN_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		AssemblyAIAPIKey: os.Getenv("ASSEMBLYAI_API_KEY"),

		TemplatePath: envOr("TEMPLATE_PATH", "assets/report_template.docx"),
		RulesPath:    envOr("RULES_XLSX_PATH", "assets/field_rules.xlsx"),
		RulesSheet:   os.Getenv("RULES_SHEET_NAME"),
		MappingPath:  os.Getenv("MAPPING_PATH"),
		OutputDir:    envOr("OUTPUT_DIR", "output"),
		FontName:     envOr("FONT_NAME", "Arial"),

		StrictPlaceholders: envBool("STRICT_PLACEHOLDERS", false),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 524288000), // 500MB, recordings are large

		JobTTL: envDuration("JOB_TTL", 24*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 524288000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ReportgenAPIKey == "" {
		return fmt.Errorf("REPORTGEN_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("TEMPLATE_PATH is required")
	}
	if c.RulesPath == "" {
		return fmt.Errorf("RULES_XLSX_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
