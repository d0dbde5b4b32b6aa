package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short value unchanged", "base_link", 20, "base_link"},
		{"exact length unchanged", "12345", 5, "12345"},
		{"long value cut", "array[3x3] calibration", 10, "array[3..."},
		{"multi-line text joined", "line one\nline  two", 40, "line one line two"},
		{"runes not split", "überkalibrierung", 6, "übe..."},
		{"tiny limit clamped", "abcdef", 1, "a..."},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateCell(tt.input, tt.maxLen))
		})
	}
}
