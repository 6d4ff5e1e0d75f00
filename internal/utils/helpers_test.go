package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"250", 250, true},
		{" 72,5 ", 72.5, true},
		{"0.5", 0.5, true},
		{"-3", -3, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░ 0%", ProgressBar(0, 10))
	assert.Equal(t, "▓▓▓▓▓░░░░░ 50%", ProgressBar(50, 10))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓ 100%", ProgressBar(140, 10))
	assert.Equal(t, "░░░░░░░░░░ 0%", ProgressBar(-20, 10))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "250", FormatAmount(250))
	assert.Equal(t, "133.5", FormatAmount(133.5))
}

func TestFormatDateRu(t *testing.T) {
	assert.Equal(t, "19 октября 2026", FormatDateRu(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)))
}

func TestUnmarshalJSON(t *testing.T) {
	var v struct {
		Source string `json:"source"`
	}
	assert.NoError(t, UnmarshalJSON([]byte(`{"source":"manual"}`), &v))
	assert.Equal(t, "manual", v.Source)
}
