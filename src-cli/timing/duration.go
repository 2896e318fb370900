package timing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPartPattern = regexp.MustCompile(`^(\d+)\s*([a-zA-Z]+)\s*`)

var durationUnits = map[string]time.Duration{
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
}

// ParseDuration reads human durations such as "30m", "1h30m" or
// "2 hours 15 minutes".
func ParseDuration(value string) (time.Duration, error) {
	rest := strings.TrimSpace(value)
	if rest == "" {
		return 0, fmt.Errorf("failed to parse duration '%s'", value)
	}

	var total time.Duration
	for rest != "" {
		m := durationPartPattern.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("failed to parse duration '%s'", value)
		}
		unit, ok := durationUnits[strings.ToLower(m[2])]
		if !ok {
			return 0, fmt.Errorf("failed to parse duration '%s'", value)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > int64(math.MaxInt64/unit) {
			return 0, rangeErrorf("duration '%s' is too large", value)
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, rangeErrorf("duration '%s' is too large", value)
		}
		total += part
		rest = rest[len(m[0]):]
	}
	return total, nil
}
