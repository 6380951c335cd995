package testrace

import "time"

// Defaults for generated meets.
const (
	defaultTeams       = 6
	defaultMinRunners  = 3
	defaultMaxRunners  = 10
	defaultWinningTime = 16 * time.Minute
	defaultMaxGap      = 20 * time.Second
	defaultSeed        = 42
)

// Config shapes a generated meet.
type Config struct {
	Teams       int           // number of teams
	MinRunners  int           // fewest finishers per team
	MaxRunners  int           // most finishers per team
	WinningTime time.Duration // first finisher's elapsed time
	MaxGap      time.Duration // largest gap between consecutive finishers
	Seed        int64         // source seed; equal seeds give equal meets
}

// Option applies a configuration option.
type Option func(*Config)

// WithTeams sets the number of teams.
func WithTeams(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Teams = n
		}
	}
}

// WithRunnersPerTeam bounds the finishers per team.
func WithRunnersPerTeam(minRunners, maxRunners int) Option {
	return func(c *Config) {
		if minRunners >= 0 && maxRunners >= minRunners {
			c.MinRunners = minRunners
			c.MaxRunners = maxRunners
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithWinningTime sets the first finisher's time.
func WithWinningTime(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.WinningTime = d
		}
	}
}

// NewConfig returns a Config with defaults and opts applied.
func NewConfig(opts ...Option) Config {
	c := Config{
		Teams:       defaultTeams,
		MinRunners:  defaultMinRunners,
		MaxRunners:  defaultMaxRunners,
		WinningTime: defaultWinningTime,
		MaxGap:      defaultMaxGap,
		Seed:        defaultSeed,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
