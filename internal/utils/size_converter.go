package utils

import (
	"fmt"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

var sizeUnits = []struct {
	size   int64
	suffix string
}{
	{types.GB, "GB"},
	{types.MB, "MB"},
	{types.KB, "KB"},
}

// ConvertBytesToHumanReadable formats a byte count with one decimal in the
// largest binary unit it reaches. Counts below 1 KB are shown in bytes and
// anything above GB stays in GB.
func ConvertBytesToHumanReadable(bytes int64) string {
	if bytes < 0 {
		return "-"
	}
	for _, u := range sizeUnits {
		if bytes >= u.size {
			return fmt.Sprintf("%.1f %s", float64(bytes)/float64(u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", bytes)
}
