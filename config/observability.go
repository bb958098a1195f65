package config

import (
	"log/slog"
	"slices"
	"strings"
)

const defaultMetricsNamespace = "jobboard"

// ObservabilityConfig groups configuration that controls logging and metrics.
type ObservabilityConfig struct {
	Logging LoggingConfig
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Logging.Sanitize()
	c.Metrics.Sanitize()
}

// LoggingConfig controls the process-wide slog handler.
type LoggingConfig struct {
	// Level accepts debug, info, warn or error (slog.Level text form).
	Level slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json or text.
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize falls back to JSON for unknown formats.
func (c *LoggingConfig) Sanitize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "text" {
		c.Format = "json"
	}
}

// ObservabilityMetricsConfig controls the Prometheus registry served on /metrics.
type ObservabilityMetricsConfig struct {
	Enabled   bool   `env:"OBSERVABILITY_METRICS_ENABLED"   envDefault:"true"`
	Namespace string `env:"OBSERVABILITY_METRICS_NAMESPACE" envDefault:"jobboard"`
	// RuntimeCollectors adds Go runtime and process metrics.
	RuntimeCollectors bool `env:"OBSERVABILITY_METRICS_RUNTIME" envDefault:"true"`
	// LatencyBuckets overrides the request and search histogram buckets, in seconds.
	LatencyBuckets []float64 `env:"OBSERVABILITY_METRICS_BUCKETS" envSeparator:","`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = defaultMetricsNamespace
	}
	c.LatencyBuckets = sanitizeBuckets(c.LatencyBuckets)
}

// sanitizeBuckets keeps positive bounds, sorted and without duplicates, as
// Prometheus rejects anything else.
func sanitizeBuckets(in []float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, b := range in {
		if b > 0 {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// IsEnabled returns true when metrics are collected after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.Namespace != ""
}
