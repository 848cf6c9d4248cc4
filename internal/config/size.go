package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^(\d+) *([A-Za-z]+)?$`)

// ParseSize converts a human-readable size string to bytes. Bare numbers
// are bytes; KB/MB/GB/TB are decimal multiples; KiB/MiB/GiB/TiB are binary
// multiples. Suffixes are case-insensitive.
func ParseSize(value string) (int64, error) {
	matched := sizePattern.FindStringSubmatch(strings.TrimSpace(value))
	if matched == nil {
		return 0, fmt.Errorf("invalid size %q", value)
	}

	size, err := strconv.ParseInt(matched[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}

	switch strings.ToUpper(matched[2]) {
	case "":
		return size, nil
	case "KB":
		return size * 1000, nil
	case "MB":
		return size * 1000 * 1000, nil
	case "GB":
		return size * 1000 * 1000 * 1000, nil
	case "TB":
		return size * 1000 * 1000 * 1000 * 1000, nil
	case "KIB":
		return size * 1024, nil
	case "MIB":
		return size * 1024 * 1024, nil
	case "GIB":
		return size * 1024 * 1024 * 1024, nil
	case "TIB":
		return size * 1024 * 1024 * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("unknown size suffix %q", matched[2])
	}
}
