// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"math"
	"time"
)

// FormatTime форматирует количество секунд в формат M:SS.
// Неизвестная длительность (NaN, бесконечность, отрицательное значение) отображается как "0:00".
func FormatTime(totalSeconds float64) string {
	if math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) || totalSeconds < 0 {
		return "0:00"
	}
	minutes := int64(math.Floor(totalSeconds / 60))
	seconds := int64(math.Floor(math.Mod(totalSeconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatDuration форматирует time.Duration в формат M:SS
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}

// TruncateString обрезает строку до указанной длины в символах, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clamp ограничивает значение отрезком [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
