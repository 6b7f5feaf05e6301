package util

import (
	"strings"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  time.Duration
		wantError bool
		wantHelp  bool
	}{
		// Plain seconds
		{
			name:     "seconds - 90",
			input:    "90",
			expected: 90 * time.Second,
		},
		{
			name:     "seconds - 0",
			input:    "0",
			expected: 0,
		},

		// Clock forms
		{
			name:     "clock - minutes and seconds",
			input:    "5:00",
			expected: 5 * time.Minute,
		},
		{
			name:     "clock - minutes above an hour",
			input:    "90:30",
			expected: 90*time.Minute + 30*time.Second,
		},
		{
			name:     "clock - hours minutes seconds",
			input:    "1:30:00",
			expected: 90 * time.Minute,
		},
		{
			name:     "clock - surrounding spaces",
			input:    " 2:05 ",
			expected: 2*time.Minute + 5*time.Second,
		},

		// Duration strings
		{
			name:     "duration string - hours and minutes",
			input:    "2h30m",
			expected: 2*time.Hour + 30*time.Minute,
		},
		{
			name:     "duration string - fractional seconds truncated",
			input:    "1.7s",
			expected: time.Second,
		},

		// Error cases
		{
			name:      "invalid format - letters",
			input:     "abc",
			wantError: true,
			wantHelp:  true,
		},
		{
			name:      "invalid clock - seconds out of range",
			input:     "5:75",
			wantError: true,
			wantHelp:  true,
		},
		{
			name:      "empty string",
			input:     "",
			wantError: true,
			wantHelp:  true,
		},
		{
			name:      "negative seconds",
			input:     "-10",
			wantError: true,
		},
		{
			name:      "negative duration string",
			input:     "-2m",
			wantError: true,
		},
		{
			name:      "seconds above maximum",
			input:     "700000000",
			wantError: true,
		},
		{
			name:      "clock minutes above maximum",
			input:     "99999999999999:00",
			wantError: true,
		},
		{
			name:      "clock hours above maximum",
			input:     "200000:00:00",
			wantError: true,
		},
		{
			name:      "duration string above maximum",
			input:     "200000h",
			wantError: true,
		},

		// Limit
		{
			name:     "seconds at maximum",
			input:    "600000059",
			expected: MaxSeconds * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)

			if tt.wantError {
				if err == nil {
					t.Errorf("ParseDuration(%q) expected error but got none", tt.input)
				}
				if err != nil && tt.wantHelp && !strings.Contains(err.Error(), "Valid formats") {
					t.Errorf("ParseDuration(%q) error should contain format help, got: %v", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseDuration(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.expected {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
