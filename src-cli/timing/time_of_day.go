package timing

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseTimeOfDay accepts a 24-hour HH:MM:SS or HH:MM clock time.
func ParseTimeOfDay(value string) (civil.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return civil.TimeOf(t), nil
		}
	}
	return civil.Time{}, fmt.Errorf("expected HH:MM or HH:MM:SS time-of-day, got '%s'", value)
}
