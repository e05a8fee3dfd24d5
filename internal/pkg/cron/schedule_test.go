package cron

import (
	"testing"
	"time"
)

func TestNextFireTime(t *testing.T) {
	sched := NewSchedule()
	after := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	next, err := sched.NextFireTime("5 23 * * *", "Asia/Seoul", after)
	if err != nil {
		t.Fatalf("NextFireTime returned error: %v", err)
	}

	loc, _ := time.LoadLocation("Asia/Seoul")
	want := time.Date(2026, 3, 9, 23, 5, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextFireTimeRollsToNextDay(t *testing.T) {
	sched := NewSchedule()
	loc, _ := time.LoadLocation("Asia/Seoul")
	after := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)

	next, err := sched.NextFireTime("5 23 * * *", "Asia/Seoul", after)
	if err != nil {
		t.Fatalf("NextFireTime returned error: %v", err)
	}

	want := time.Date(2026, 3, 10, 23, 5, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextFireTimeRejectsBadInput(t *testing.T) {
	sched := NewSchedule()
	after := time.Now()

	if _, err := sched.NextFireTime("not a cron", "UTC", after); err == nil {
		t.Error("expected error for bad expression")
	}
	if _, err := sched.NextFireTime("5 23 * * *", "Mars/Olympus", after); err == nil {
		t.Error("expected error for bad timezone")
	}
}
