package profiledomain

import (
	"fmt"
	"time"
)

// QuizDeadline returns the next Sunday 23:59 in now's location. A moment past
// this week's cutoff rolls over to the following Sunday.
func QuizDeadline(now time.Time) time.Time {
	daysUntilSunday := (7 - int(now.Weekday())) % 7
	deadline := time.Date(now.Year(), now.Month(), now.Day()+daysUntilSunday, 23, 59, 0, 0, now.Location())
	if deadline.Before(now) {
		deadline = deadline.AddDate(0, 0, 7)
	}
	return deadline
}

// TimeLeft renders the time until QuizDeadline, e.g. "2 days 5 hours left".
func TimeLeft(now time.Time) string {
	diff := QuizDeadline(now).Sub(now)
	days := int(diff / (24 * time.Hour))
	hours := int(diff/time.Hour) % 24
	return fmt.Sprintf("%d %s %d %s left", days, plural(days, "day"), hours, plural(hours, "hour"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
