package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	barFilled        = "▣"
	barEmpty         = "□"
	DefaultBarLength = 10
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize scales bytes by 1024 and rounds to two decimals.
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	exp, scaled := 0, float64(size)
	for scaled >= 1024 && exp < len(sizeUnits)-1 {
		scaled /= 1024
		exp++
	}
	if exp == 0 {
		return fmt.Sprintf("%d B", size)
	}

	v := math.Round(scaled*100) / 100
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " " + sizeUnits[exp]
}

func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if math.IsInf(seconds, 1) {
		seconds = math.MaxInt32
	}
	total := int64(seconds)

	switch {
	case total < 60:
		return fmt.Sprintf("%d sec", total)
	case total < 3600:
		return fmt.Sprintf("%d min %d sec", total/60, total%60)
	default:
		return fmt.Sprintf("%d hr %d min", total/3600, (total%3600)/60)
	}
}

func RenderBar(percentage float64, length int) string {
	if length <= 0 {
		length = DefaultBarLength
	}

	filled := int(math.Floor(float64(length) * percentage / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > length {
		filled = length
	}

	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, length-filled)
}
