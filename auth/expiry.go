package auth

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// DefaultExpiry applies when the configured expiry cannot be parsed.
const DefaultExpiry = 7 * 24 * time.Hour

var expiryPattern = regexp.MustCompile(`^(\d+)([dhms]?)$`)

// ParseExpiresIn turns strings like "7d", "24h", "30m", "3600s" or "3600"
// into a duration. A bare number is seconds. Zero and values too large for a
// time.Duration fall back to DefaultExpiry.
func ParseExpiresIn(s string) time.Duration {
	match := expiryPattern.FindStringSubmatch(s)
	if match == nil {
		return DefaultExpiry
	}
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return DefaultExpiry
	}

	unit := time.Second
	switch match[2] {
	case "d":
		unit = 24 * time.Hour
	case "h":
		unit = time.Hour
	case "m":
		unit = time.Minute
	}
	if value == 0 || value > math.MaxInt64/int64(unit) {
		return DefaultExpiry
	}
	return time.Duration(value) * unit
}
