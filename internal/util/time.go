package util

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Each field of countdown text saturates at maxField so the total always fits
// in an int. MaxSeconds is the longest duration accepted from flags or config.
const (
	maxField   = 10_000_000
	MaxSeconds = maxField*60 + 59
)

// ParseTimeInput converts countdown text to seconds.
// Supported forms:
// - "MM:SS" (e.g., "5:00", ":30", "90:00")
// - plain seconds (e.g., "90")
//
// Malformed fragments count as zero; no error is ever returned.
func ParseTimeInput(input string) int {
	parts := strings.Split(input, ":")
	if len(parts) == 2 {
		return leadingInt(parts[0])*60 + leadingInt(parts[1])
	}
	return leadingInt(input)
}

// leadingInt reads an optional sign and the digits after it, stopping at the
// first non-digit. Input without digits is 0.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n > maxField {
		n = maxField
	}
	if negative {
		return -n
	}
	return n
}

// FormatTime renders seconds as MM:SS, or HH:MM:SS once an hour is reached.
func FormatTime(totalSeconds int) string {
	if totalSeconds < 0 {
		return "-" + FormatTime(-totalSeconds)
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// InputText renders seconds in the form ParseTimeInput reads back, keeping
// hours folded into minutes ("90:00" rather than "01:30:00").
func InputText(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
