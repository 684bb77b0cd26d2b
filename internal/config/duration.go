package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// durationOff is how a zero Duration is written. "none" and "0" read as zero too.
const durationOff = "off"

// Duration is a dialog timing such as show_delay or transition.
// It reads "180ms", "1s", a bare count of milliseconds, or "off".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case durationOff, "none", "":
		return 0, nil
	}

	var v time.Duration
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		v = time.Duration(ms) * time.Millisecond
	} else if v, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("invalid duration %q: use e.g. \"180ms\", \"1s\", milliseconds or %q", raw, durationOff)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid duration %q: must not be negative", raw)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	if d == 0 {
		return []byte(durationOff), nil
	}
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
