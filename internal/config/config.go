// Package config defines the wildcat service configuration and its loader.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MeetName labels reports and metrics.
	MeetName string `koanf:"meet_name"`

	// HeatMode is the default mode for submissions that omit one.
	HeatMode string `koanf:"heat_mode"`

	// RosterFile is the tab-separated roster loaded at start.
	RosterFile string `koanf:"roster_file"`

	// BarcodesFile and TimesFile, when both set, are scored as a first heat
	// once the service starts.
	BarcodesFile string `koanf:"barcodes_file"`
	TimesFile    string `koanf:"times_file"`

	// QueueSize bounds the scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many submission IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxHeats bounds the heat store; 0 keeps every heat.
	MaxHeats int `koanf:"max_heats"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		MeetName:    "Wildcat Invitational",
		HeatMode:    "single",
		QueueSize:   1024,
		WorkerCount: runtime.NumCPU(),
		DedupeSize:  10_000,
		MaxHeats:    0,
	}
}
