package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errNegativeDuration = errors.New("duration must not be negative")

// ParseDuration parses a countdown length given on the command line or in the
// config file. Unlike ParseTimeInput it is strict and reports bad input.
func ParseDuration(input string) (time.Duration, error) {
	d, err := parseDuration(input)
	if err != nil {
		return 0, err
	}
	if d > maxDuration {
		return 0, fmt.Errorf("duration %s exceeds the maximum of %s", strings.TrimSpace(input), maxDuration)
	}
	return d, nil
}

const maxDuration = MaxSeconds * time.Second

func parseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	if seconds, err := strconv.Atoi(input); err == nil {
		if seconds < 0 {
			return 0, errNegativeDuration
		}
		if seconds > MaxSeconds {
			return maxDuration + time.Second, nil
		}
		return time.Duration(seconds) * time.Second, nil
	}

	if d, ok := parseClock(input); ok {
		return d, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s\n\nValid formats:\n"+
			"• Seconds: 90\n"+
			"• Clock: MM:SS or HH:MM:SS (e.g., '5:00', '1:30:00')\n"+
			"• Go duration: 2h30m, 45s", input)
	}
	if d < 0 {
		return 0, errNegativeDuration
	}
	return d.Truncate(time.Second), nil
}

func parseClock(input string) (time.Duration, bool) {
	parts := strings.Split(input, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		// Only the leading field may exceed 59.
		if i > 0 && n > 59 {
			return 0, false
		}
		values[i] = n
	}

	// A leading field past MaxSeconds is over the limit whatever follows.
	if values[0] > MaxSeconds {
		return maxDuration + time.Second, true
	}
	var total int64
	for _, v := range values {
		total = total*60 + int64(v)
	}
	if total > MaxSeconds {
		return maxDuration + time.Second, true
	}
	return time.Duration(total) * time.Second, true
}
