package tool

import "time"

const currentTimeLayout = "3:04 PM"

// Clock is the time source behind get_current_time.
type Clock func() time.Time

// CurrentTime renders now in loc as "Current time is 10:30 PM".
func CurrentTime(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return "Current time is " + now.Format(currentTimeLayout)
}
