// Package racetime implements the fixed-precision elapsed time used for
// finish and team times: whole minutes, seconds and hundredths of a second.
package racetime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	secondsPerMinute     = 60
	hundredthsPerSecond  = 100
	maxRenderableMinutes = 1<<31 - 1

	maxHundredths = float64(maxRenderableMinutes) * secondsPerMinute * hundredthsPerSecond
	floorEpsilon  = 1e-6
)

// Time is an immutable elapsed time. The zero value is 00:00.00.
type Time struct {
	minutes    int
	seconds    int
	hundredths int
	total      float64
}

// FromSeconds builds a Time from a raw elapsed seconds value, flooring to
// whole hundredths. Negative, non-finite and out-of-range inputs yield the
// zero Time. The stored total is derived from the floored fields.
func FromSeconds(total float64) Time {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return Time{}
	}
	scaled := total * hundredthsPerSecond
	if scaled >= maxHundredths {
		return Time{}
	}
	// Two-decimal inputs such as 1000.01 sit just below their value in
	// binary; the epsilon keeps them on the intended hundredth.
	cs := int64(math.Floor(scaled + floorEpsilon))
	hundredths := int(cs % hundredthsPerSecond)
	whole := cs / hundredthsPerSecond
	return New(int(whole/secondsPerMinute), int(whole%secondsPerMinute), hundredths)
}

// New builds a Time from explicit fields. The fields are stored as given;
// callers keep them in range. The total is derived algebraically.
func New(minutes, seconds, hundredths int) Time {
	return Time{
		minutes:    minutes,
		seconds:    seconds,
		hundredths: hundredths,
		total:      totalSeconds(minutes, seconds, hundredths),
	}
}

func totalSeconds(minutes, seconds, hundredths int) float64 {
	return float64(secondsPerMinute*minutes) + float64(seconds) + float64(hundredths)/hundredthsPerSecond
}

// Minutes returns the whole minutes component.
func (t Time) Minutes() int { return t.minutes }

// Seconds returns the seconds component.
func (t Time) Seconds() int { return t.seconds }

// Hundredths returns the hundredths-of-a-second component.
func (t Time) Hundredths() int { return t.hundredths }

// TotalSeconds returns the elapsed time in seconds.
func (t Time) TotalSeconds() float64 { return t.total }

// IsZero reports whether t is 00:00.00.
func (t Time) IsZero() bool {
	return t.minutes == 0 && t.seconds == 0 && t.hundredths == 0
}

// Add sums two times field by field, carrying hundredths into seconds and
// seconds into minutes.
func (t Time) Add(o Time) Time {
	hundredths := t.hundredths + o.hundredths
	seconds := t.seconds + o.seconds + hundredths/hundredthsPerSecond
	minutes := t.minutes + o.minutes + seconds/secondsPerMinute
	return New(minutes, seconds%secondsPerMinute, hundredths%hundredthsPerSecond)
}

// Sum adds all times together.
func Sum(times ...Time) Time {
	var acc Time
	for _, t := range times {
		acc = acc.Add(t)
	}
	return acc
}

// String renders MM:SS.hh, zero-padding each field to two digits.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d.%02d", t.minutes, t.seconds, t.hundredths)
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Parse reads "MM:SS.hh", "M:SS", "SS.hh" or a bare seconds value.
// A single fractional digit is tenths ("18:30.5" is 18:30.50).
func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, fmt.Errorf("%w: empty", ErrInvalidTime)
	}

	minutesPart, rest, hasColon := strings.Cut(s, ":")
	if !hasColon {
		total, err := strconv.ParseFloat(s, 64)
		if err != nil || total < 0 {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		return FromSeconds(total), nil
	}

	minutes, err := strconv.Atoi(minutesPart)
	if err != nil || minutes < 0 || minutes > maxRenderableMinutes {
		return Time{}, fmt.Errorf("%w: bad minutes in %q", ErrInvalidTime, s)
	}

	secondsPart, fracPart, _ := strings.Cut(rest, ".")
	seconds, err := strconv.Atoi(secondsPart)
	if err != nil || seconds < 0 || seconds >= secondsPerMinute {
		return Time{}, fmt.Errorf("%w: bad seconds in %q", ErrInvalidTime, s)
	}

	hundredths := 0
	switch len(fracPart) {
	case 0:
	case 1, 2:
		hundredths, err = strconv.Atoi(fracPart)
		if err != nil || hundredths < 0 {
			return Time{}, fmt.Errorf("%w: bad fraction in %q", ErrInvalidTime, s)
		}
		if len(fracPart) == 1 {
			hundredths *= 10
		}
	default:
		return Time{}, fmt.Errorf("%w: too many fractional digits in %q", ErrInvalidTime, s)
	}

	return New(minutes, seconds, hundredths), nil
}
