package service

import (
	"strconv"
	"time"
)

// ClickUp sends timestamps as millisecond strings.
func parseMillis(s string) (time.Time, bool) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func parseMillisPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := parseMillis(*s)
	if !ok {
		return nil
	}
	return &t
}
