package timex

import (
	"fmt"
	"time"
)

// Until renders the remaining time to deadline in the coarsest unit that
// fits, e.g. "3 days", "5 hours", "42 minutes". Past deadlines render
// as "expired".
func Until(now, deadline time.Time) string {
	d := deadline.Sub(now)
	if d <= 0 {
		return "expired"
	}
	return humanize(d)
}

// Ago renders how long before now t happened, e.g. "2 hours ago".
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	return humanize(d) + " ago"
}

func humanize(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
