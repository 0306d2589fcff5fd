package utils

import (
	"math"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{59, "0:59"},
		{59.99, "0:59"},
		{60, "1:00"},
		{75, "1:15"},
		{600, "10:00"},
		{3605, "60:05"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
		{-5, "0:00"},
	}

	for _, test := range tests {
		result := FormatTime(test.seconds)
		if result != test.expected {
			t.Errorf("FormatTime(%v) = %s; expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0:00"},
		{30 * time.Second, "0:30"},
		{1*time.Minute + 30*time.Second, "1:30"},
		{61*time.Minute + 1*time.Second, "61:01"},
		{1500 * time.Millisecond, "0:01"},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a very long string", 10, "this is..."},
		{"abcd", 3, "abc"},
		{"Ночное небо над городом", 8, "Ночно..."},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-0.5, 0, 1) != 0 {
		t.Error("Clamp должен ограничивать снизу")
	}
	if Clamp(1.5, 0, 1) != 1 {
		t.Error("Clamp должен ограничивать сверху")
	}
	if Clamp(0.25, 0, 1) != 0.25 {
		t.Error("Clamp не должен менять значение внутри отрезка")
	}
}
