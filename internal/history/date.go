package history

import (
	"fmt"
	"time"
)

var frMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// FormatDate renders t the way a French locale prints a medium date with
// hours and minutes, e.g. "09 oct. 2026, 14:05".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d, %02d:%02d",
		t.Day(), frMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
