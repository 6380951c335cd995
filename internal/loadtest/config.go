// Package loadtest drives a running wildcat service with simulated heats
// and checks the standings it returns.
package loadtest

import (
	"errors"
	"time"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultBaseURL      = "http://localhost:9080"
	DefaultHeats        = 100
	DefaultWorkers      = 8
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultWait         = 2 * time.Minute
)

// ErrInvalidConfig is returned when a Config cannot drive a run.
var ErrInvalidConfig = errors.New("invalid load test config")

// ErrVerification is returned when a scored heat breaks a standings rule.
var ErrVerification = errors.New("heat verification failed")

// Config holds configuration for a load test run.
type Config struct {
	BaseURL      string        // Base URL of the service
	RosterFile   string        // Roster the service was started with
	Heats        int           // Number of distinct heats to submit
	Duplicates   int           // Heats resubmitted with the same submission_id
	Workers      int           // Concurrent submitters
	Timeout      time.Duration // Per-request timeout
	PollInterval time.Duration // Delay between status polls
	Wait         time.Duration // How long to wait for every heat to settle
	Seed         int64         // Seed for finish orders and times
	Combined     bool          // Submit combined heats
	OutputFile   string        // Optional JSON dump of the submitted requests
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Heats == 0 {
		c.Heats = DefaultHeats
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Wait == 0 {
		c.Wait = DefaultWait
	}
}

func (c *Config) validate() error {
	switch {
	case c.RosterFile == "":
		return errors.Join(ErrInvalidConfig, errors.New("roster file is required"))
	case c.Heats < 1:
		return errors.Join(ErrInvalidConfig, errors.New("heats must be positive"))
	case c.Duplicates < 0 || c.Duplicates > c.Heats:
		return errors.Join(ErrInvalidConfig, errors.New("duplicates must be between 0 and heats"))
	case c.Workers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	HeatsGenerated int
	Submitted      int
	Accepted       int
	Duplicate      int
	Failed         int
	Scored         int
	Unscorable     int
	Verified       int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
