package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeAlertDigest runs the scheduled evaluation of saved alerts.
	ServiceModeAlertDigest ServiceMode = "alert-digest"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeAlertDigest,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeAlertDigest:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, alert-digest)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// AlertDigestConfig contains alert digest service configuration.
type AlertDigestConfig struct {
	// Schedule is a robfig/cron spec; descriptors such as "@every 1h" work too.
	Schedule string `env:"ALERT_DIGEST_SCHEDULE" envDefault:"@every 1h"`

	// DefaultHours is the look-back window for alerts that never ran.
	DefaultHours int `env:"ALERT_DIGEST_DEFAULT_HOURS" envDefault:"24"`

	// Concurrency is the number of users evaluated in parallel.
	Concurrency int `env:"ALERT_DIGEST_CONCURRENCY" envDefault:"4"`

	// LockTTL bounds how long one replica may hold the run lock.
	LockTTL time.Duration `env:"ALERT_DIGEST_LOCK_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to alert digest configuration values.
func (a *AlertDigestConfig) Sanitize() {
	a.Schedule = strings.TrimSpace(a.Schedule)
	if a.Schedule == "" {
		a.Schedule = "@every 1h"
	}
	if a.DefaultHours < 1 {
		a.DefaultHours = 24
	}
	if a.Concurrency < 1 {
		a.Concurrency = 1
	}
	if a.Concurrency > 32 {
		a.Concurrency = 32
	}
	if a.LockTTL < time.Minute {
		a.LockTTL = time.Minute
	}
}

// DefaultWindow returns DefaultHours as a duration.
func (a *AlertDigestConfig) DefaultWindow() time.Duration {
	return time.Duration(a.DefaultHours) * time.Hour
}
