package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{1290000, "1.23 MB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{1024 * 1024 * 1024 * 1024, "1.0 TB"},
		{2048 * 1024 * 1024 * 1024 * 1024, "2048.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatSize(tt.input), "FormatSize(%d)", tt.input)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0 sec"},
		{-3, "0 sec"},
		{59, "59 sec"},
		{59.9, "59 sec"},
		{60, "1 min 0 sec"},
		{125, "2 min 5 sec"},
		{3599, "59 min 59 sec"},
		{3600, "1 hr 0 min"},
		{3661, "1 hr 1 min"},
		{90061, "25 hr 1 min"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.input), "FormatDuration(%v)", tt.input)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct    float64
		length int
		filled int
	}{
		{0, 10, 0},
		{100, 10, 10},
		{45, 10, 4},
		{99.9, 10, 9},
		{150, 10, 10},
		{-10, 10, 0},
		{50, 20, 10},
		{50, 0, 5},
	}

	for _, tt := range tests {
		bar := RenderBar(tt.pct, tt.length)
		length := tt.length
		if length <= 0 {
			length = DefaultBarLength
		}
		assert.Equal(t, tt.filled, strings.Count(bar, barFilled), "filled for %v%%", tt.pct)
		assert.Equal(t, length-tt.filled, strings.Count(bar, barEmpty), "empty for %v%%", tt.pct)
	}
}
