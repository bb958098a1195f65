package data

import "time"

// TimeProvider supplies "now" to services that stamp user documents.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock in UTC, the zone every stored
// timestamp uses.
type RealTimeProvider struct{}

// Now returns the current UTC time.
func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider always returns the same instant.
type FixedTimeProvider struct {
	now time.Time
}

// NewFixedTimeProvider pins the clock at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: t}
}

// Now returns the pinned instant.
func (f *FixedTimeProvider) Now() time.Time { return f.now }
