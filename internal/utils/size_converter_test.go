package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

func TestConvertBytesToHumanReadable(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{-1, "-"},
		{0, "0 B"},
		{512, "512 B"},
		{types.KB - 1, "1023 B"},
		{types.KB, "1.0 KB"},
		{1536, "1.5 KB"},
		{3 * types.MB, "3.0 MB"},
		{5 * types.GB, "5.0 GB"},
		{2048 * types.GB, "2048.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConvertBytesToHumanReadable(tt.bytes), "bytes %d", tt.bytes)
	}
}
