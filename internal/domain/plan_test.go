package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestPlan(start time.Time, weeks int) *Plan {
	return &Plan{
		StartDate:     start,
		NumberOfWeeks: weeks,
		Status:        PlanStatusActive,
		CurrentWeek:   1,
	}
}

func TestCurrentWeekAt_FirstWeek(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 4)

	assert.Equal(t, 1, plan.CurrentWeekAt(date(2024, time.January, 1)))
	assert.Equal(t, 1, plan.CurrentWeekAt(date(2024, time.January, 7)))
	assert.Equal(t, 2, plan.CurrentWeekAt(date(2024, time.January, 8)))
}

func TestCurrentWeekAt_StartDateInFuture(t *testing.T) {
	plan := newTestPlan(date(2024, time.March, 1), 4)

	// Before the start date the week never drops below 1.
	assert.Equal(t, 1, plan.CurrentWeekAt(date(2024, time.February, 1)))
}

func TestCurrentWeekAt_ClampsToFinalWeek(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 2)

	// 20 full days elapsed: the raw week is 3, display clamps to 2.
	now := date(2024, time.January, 21)
	assert.Equal(t, 2, plan.CurrentWeekAt(now))
	assert.True(t, plan.IsCompletedAt(now))
}

func TestIsCompletedAt_FalseWithinFinalWeek(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 2)

	// Day 13 is the last day of week 2.
	now := date(2024, time.January, 14)
	assert.Equal(t, 2, plan.CurrentWeekAt(now))
	assert.False(t, plan.IsCompletedAt(now))
}

func TestPauseResume_CreditsWholePausedDays(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 4)

	// Pause on day 9: week 2 is frozen.
	plan.Pause(date(2024, time.January, 10))
	assert.Equal(t, PlanStatusPaused, plan.Status)
	require.NotNil(t, plan.PausedAt)
	assert.Equal(t, 2, plan.CurrentWeek)

	// The frozen week holds no matter how much time passes.
	assert.Equal(t, 2, plan.CurrentWeekAt(date(2024, time.June, 1)))
	assert.False(t, plan.IsCompletedAt(date(2024, time.June, 1)))

	// Resume 5 days later.
	plan.Resume(date(2024, time.January, 15))
	assert.Equal(t, PlanStatusActive, plan.Status)
	assert.Nil(t, plan.PausedAt)
	assert.Equal(t, 5, plan.PausedDays)

	// 21 calendar days elapsed minus 5 paused = 16 plan days, week 3.
	assert.Equal(t, 3, plan.CurrentWeekAt(date(2024, time.January, 22)))
}

func TestResume_SameDayCreditsNothing(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 4)

	pausedAt := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	plan.Pause(pausedAt)
	plan.Resume(pausedAt.Add(6 * time.Hour))

	assert.Equal(t, 0, plan.PausedDays)
}

func TestResume_ClockSkewNeverCreditsNegative(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 4)

	plan.Pause(date(2024, time.January, 10))
	plan.Resume(date(2024, time.January, 9))

	assert.Equal(t, 0, plan.PausedDays)
	assert.Equal(t, PlanStatusActive, plan.Status)
}

func TestPauseResume_RepeatedPausesAccumulate(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 12)

	plan.Pause(date(2024, time.January, 10))
	plan.Resume(date(2024, time.January, 13)) // +3
	plan.Pause(date(2024, time.February, 1))
	plan.Resume(date(2024, time.February, 5)) // +4

	assert.Equal(t, 7, plan.PausedDays)
}

func TestCurrentWeekAt_MonotonicWhileActive(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 6)
	plan.PausedDays = 3

	prev := 0
	for d := 0; d < 60; d++ {
		week := plan.CurrentWeekAt(date(2024, time.January, 1).AddDate(0, 0, d))
		assert.GreaterOrEqual(t, week, prev, "week regressed on day %d", d)
		assert.LessOrEqual(t, week, plan.NumberOfWeeks)
		prev = week
	}
}

func TestEndDate_IncludesPausedDays(t *testing.T) {
	plan := newTestPlan(date(2024, time.January, 1), 4)
	assert.Equal(t, date(2024, time.January, 29), plan.EndDate())

	plan.PausedDays = 5
	assert.Equal(t, date(2024, time.February, 3), plan.EndDate())
}
