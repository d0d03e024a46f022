package cli

import (
	"strconv"
	"time"
)

// shortHash truncates long hashes for table display.
func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:14] + "..."
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func i64toa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
