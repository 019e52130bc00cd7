package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

const (
	EnvPipelineExtractTimeout      = "SCRIVENER_PIPELINE_EXTRACT_TIMEOUT"
	EnvPipelineModelTimeout        = "SCRIVENER_PIPELINE_MODEL_TIMEOUT"
	EnvPipelineModelConcurrency    = "SCRIVENER_PIPELINE_MODEL_CONCURRENCY"
	EnvPipelineNativeTextThreshold = "SCRIVENER_PIPELINE_NATIVE_TEXT_THRESHOLD"
	EnvPipelineRetryMaxAttempts    = "SCRIVENER_PIPELINE_RETRY_MAX_ATTEMPTS"
	EnvPipelineRetryInitialBackoff = "SCRIVENER_PIPELINE_RETRY_INITIAL_BACKOFF"
	EnvPipelineRetryMultiplier     = "SCRIVENER_PIPELINE_RETRY_MULTIPLIER"
	EnvPipelineRetryMaxBackoff     = "SCRIVENER_PIPELINE_RETRY_MAX_BACKOFF"
)

// PipelineConfig holds extraction pipeline tuning parameters.
type PipelineConfig struct {
	ExtractTimeout      string      `toml:"extract_timeout"`
	ModelTimeout        string      `toml:"model_timeout"`
	ModelConcurrency    int         `toml:"model_concurrency"`
	NativeTextThreshold int         `toml:"native_text_threshold"`
	Retry               RetryConfig `toml:"retry"`
}

// RetryConfig holds bounded exponential backoff parameters for model calls.
type RetryConfig struct {
	MaxAttempts    int     `toml:"max_attempts"`
	InitialBackoff string  `toml:"initial_backoff"`
	Multiplier     float64 `toml:"multiplier"`
	MaxBackoff     string  `toml:"max_backoff"`
}

// ExtractTimeoutDuration returns ExtractTimeout as a time.Duration.
func (c *PipelineConfig) ExtractTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExtractTimeout)
	return d
}

// ModelTimeoutDuration returns ModelTimeout as a time.Duration.
func (c *PipelineConfig) ModelTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ModelTimeout)
	return d
}

// InitialBackoffDuration returns InitialBackoff as a time.Duration.
func (c *RetryConfig) InitialBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.InitialBackoff)
	return d
}

// MaxBackoffDuration returns MaxBackoff as a time.Duration.
func (c *RetryConfig) MaxBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxBackoff)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ExtractTimeout != "" {
		c.ExtractTimeout = overlay.ExtractTimeout
	}
	if overlay.ModelTimeout != "" {
		c.ModelTimeout = overlay.ModelTimeout
	}
	if overlay.ModelConcurrency != 0 {
		c.ModelConcurrency = overlay.ModelConcurrency
	}
	if overlay.NativeTextThreshold != 0 {
		c.NativeTextThreshold = overlay.NativeTextThreshold
	}
	if overlay.Retry.MaxAttempts != 0 {
		c.Retry.MaxAttempts = overlay.Retry.MaxAttempts
	}
	if overlay.Retry.InitialBackoff != "" {
		c.Retry.InitialBackoff = overlay.Retry.InitialBackoff
	}
	if overlay.Retry.Multiplier != 0 {
		c.Retry.Multiplier = overlay.Retry.Multiplier
	}
	if overlay.Retry.MaxBackoff != "" {
		c.Retry.MaxBackoff = overlay.Retry.MaxBackoff
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ExtractTimeout == "" {
		c.ExtractTimeout = "2m"
	}
	if c.ModelTimeout == "" {
		c.ModelTimeout = "5m"
	}
	if c.ModelConcurrency == 0 {
		c.ModelConcurrency = min(4, runtime.NumCPU())
	}
	if c.NativeTextThreshold == 0 {
		c.NativeTextThreshold = 64
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.InitialBackoff == "" {
		c.Retry.InitialBackoff = "1s"
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2.0
	}
	if c.Retry.MaxBackoff == "" {
		c.Retry.MaxBackoff = "30s"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineExtractTimeout); v != "" {
		c.ExtractTimeout = v
	}
	if v := os.Getenv(EnvPipelineModelTimeout); v != "" {
		c.ModelTimeout = v
	}
	if v := os.Getenv(EnvPipelineModelConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ModelConcurrency = n
		}
	}
	if v := os.Getenv(EnvPipelineNativeTextThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.NativeTextThreshold = n
		}
	}
	if v := os.Getenv(EnvPipelineRetryMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv(EnvPipelineRetryInitialBackoff); v != "" {
		c.Retry.InitialBackoff = v
	}
	if v := os.Getenv(EnvPipelineRetryMultiplier); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Retry.Multiplier = f
		}
	}
	if v := os.Getenv(EnvPipelineRetryMaxBackoff); v != "" {
		c.Retry.MaxBackoff = v
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.ExtractTimeout); err != nil {
		return fmt.Errorf("invalid extract_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ModelTimeout); err != nil {
		return fmt.Errorf("invalid model_timeout: %w", err)
	}
	if c.ModelConcurrency < 1 {
		return fmt.Errorf("model_concurrency must be positive")
	}
	if c.NativeTextThreshold < 0 {
		return fmt.Errorf("native_text_threshold cannot be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be positive")
	}
	if _, err := time.ParseDuration(c.Retry.InitialBackoff); err != nil {
		return fmt.Errorf("invalid retry initial_backoff: %w", err)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1")
	}
	if _, err := time.ParseDuration(c.Retry.MaxBackoff); err != nil {
		return fmt.Errorf("invalid retry max_backoff: %w", err)
	}
	return nil
}
