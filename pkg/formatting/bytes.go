package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBytes converts a human-readable size string ("32mb", "1gb", "512kb")
// to bytes. Bare numbers are treated as bytes.
type byteUnit struct {
	suffix     string
	multiplier int64
}

var byteUnits = []byteUnit{
	{"gb", 1 << 30},
	{"mb", 1 << 20},
	{"kb", 1 << 10},
	{"b", 1},
}

func ParseBytes(value string) (int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return 0, fmt.Errorf("empty size value")
	}

	for _, unit := range byteUnits {
		if strings.HasSuffix(normalized, unit.suffix) {
			number := strings.TrimSpace(strings.TrimSuffix(normalized, unit.suffix))
			parsed, err := strconv.ParseFloat(number, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size value %q: %w", value, err)
			}
			return int64(parsed * float64(unit.multiplier)), nil
		}
	}

	parsed, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	return parsed, nil
}

// FormatBytes renders a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1fgb", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1fmb", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1fkb", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%db", bytes)
	}
}
