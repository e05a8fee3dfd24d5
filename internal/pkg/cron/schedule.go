package cron

import (
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
)

// Schedule computes when a cron expression next fires. It is a seam for
// tests; production uses the standard five-field parser.
type Schedule interface {
	NextFireTime(expr, tz string, after time.Time) (time.Time, error)
}

type cronSchedule struct {
	parser robfig.Parser
}

// NewSchedule returns a Schedule backed by the standard cron parser
// (minute hour dom month dow).
func NewSchedule() Schedule {
	return &cronSchedule{
		parser: robfig.NewParser(robfig.Minute | robfig.Hour | robfig.Dom | robfig.Month | robfig.Dow),
	}
}

func (c *cronSchedule) NextFireTime(expr, tz string, after time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	sched, err := c.parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	return sched.Next(after.In(loc)), nil
}
