package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Risk      RiskConfig      `yaml:"risk" mapstructure:"risk"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Lifecycle LifecycleConfig `yaml:"lifecycle" mapstructure:"lifecycle"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ExtractConfig configures PDF text extraction and the OCR fallback.
type ExtractConfig struct {
	PdfInfoPath   string `yaml:"pdfinfo_path" mapstructure:"pdfinfo_path"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	OCREnabled    bool   `yaml:"ocr_enabled" mapstructure:"ocr_enabled"`
}

// AnthropicConfig holds Anthropic API settings for the model-backed backend.
type AnthropicConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	Model          string  `yaml:"model" mapstructure:"model"`
	MaxTokens      int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// PipelineConfig configures pipeline behavior.
type PipelineConfig struct {
	ModelBackend      bool   `yaml:"model_backend" mapstructure:"model_backend"`
	ModelVersion      string `yaml:"model_version" mapstructure:"model_version"`
	MinClauseLength   int    `yaml:"min_clause_length" mapstructure:"min_clause_length"`
	MinSentenceLength int    `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`
	MaxKeyTerms       int    `yaml:"max_key_terms" mapstructure:"max_key_terms"`
}

// RiskConfig holds the scoring thresholds. Defaults match the documented
// scoring model; they are named constants here so operators can tune them.
type RiskConfig struct {
	BaselineScore         float64 `yaml:"baseline_score" mapstructure:"baseline_score"`
	DefaultFactorWeight   float64 `yaml:"default_factor_weight" mapstructure:"default_factor_weight"`
	ScoreCeiling          float64 `yaml:"score_ceiling" mapstructure:"score_ceiling"`
	HighClauseScore       float64 `yaml:"high_clause_score" mapstructure:"high_clause_score"`
	NonCompliantHighCount int     `yaml:"non_compliant_high_count" mapstructure:"non_compliant_high_count"`
	NonCompliantScore     float64 `yaml:"non_compliant_score" mapstructure:"non_compliant_score"`
	ReviewScore           float64 `yaml:"review_score" mapstructure:"review_score"`
	LegalReviewScore      float64 `yaml:"legal_review_score" mapstructure:"legal_review_score"`
	FlaggedReviewScore    float64 `yaml:"flagged_review_score" mapstructure:"flagged_review_score"`
}

// RulesConfig points at an optional override file for the rule tables.
type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch document analysis.
type BatchConfig struct {
	MaxConcurrentDocs int `yaml:"max_concurrent_docs" mapstructure:"max_concurrent_docs"`
}

// LifecycleConfig configures the expiry sweep.
type LifecycleConfig struct {
	UrgentDays  int `yaml:"urgent_days" mapstructure:"urgent_days"`
	WarningDays int `yaml:"warning_days" mapstructure:"warning_days"`
	InfoDays    int `yaml:"info_days" mapstructure:"info_days"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, environment variables
// (MOU_-prefixed), and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MOU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "mou.db")
	v.SetDefault("extract.ocr_enabled", true)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 256)
	v.SetDefault("anthropic.requests_per_sec", 5)
	v.SetDefault("pipeline.model_backend", false)
	v.SetDefault("pipeline.model_version", "1.0.0")
	v.SetDefault("pipeline.min_clause_length", 50)
	v.SetDefault("pipeline.min_sentence_length", 20)
	v.SetDefault("pipeline.max_key_terms", 10)
	v.SetDefault("risk.baseline_score", 3.0)
	v.SetDefault("risk.default_factor_weight", 1.5)
	v.SetDefault("risk.score_ceiling", 10.0)
	v.SetDefault("risk.high_clause_score", 7.0)
	v.SetDefault("risk.non_compliant_high_count", 2)
	v.SetDefault("risk.non_compliant_score", 8.0)
	v.SetDefault("risk.review_score", 6.0)
	v.SetDefault("risk.legal_review_score", 7.0)
	v.SetDefault("risk.flagged_review_score", 5.0)
	v.SetDefault("batch.max_concurrent_docs", 4)
	v.SetDefault("lifecycle.urgent_days", 30)
	v.SetDefault("lifecycle.warning_days", 60)
	v.SetDefault("lifecycle.info_days", 90)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger builds the global zap logger from config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
