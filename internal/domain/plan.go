// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus type for the plan lifecycle.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCompleted PlanStatus = "completed" // Terminal
)

// Allowed plan duration range, in weeks.
const (
	MinPlanWeeks = 1
	MaxPlanWeeks = 52
)

const day = 24 * time.Hour

// DietPlan is nutrition configuration attached to a plan. The plan engine
// stores it verbatim; it is consumed by clients, never interpreted here.
type DietPlan struct {
	DailyCalories int `bson:"dailyCalories,omitempty" json:"dailyCalories,omitempty"`
	ProteinGrams  int `bson:"proteinGrams,omitempty" json:"proteinGrams,omitempty"`
	CarbsGrams    int `bson:"carbsGrams,omitempty" json:"carbsGrams,omitempty"`
	FatGrams      int `bson:"fatGrams,omitempty" json:"fatGrams,omitempty"`
	MealsPerDay   int `bson:"mealsPerDay,omitempty" json:"mealsPerDay,omitempty"`
}

// Goals holds the user's targets for the duration of the plan.
// Pointer fields so that a partial update can tell "not supplied" from zero.
type Goals struct {
	TargetWeightKg *float64 `bson:"targetWeightKg,omitempty" json:"targetWeightKg,omitempty"`
	WeeklyWorkouts *int     `bson:"weeklyWorkouts,omitempty" json:"weeklyWorkouts,omitempty"`
	DailySteps     *int     `bson:"dailySteps,omitempty" json:"dailySteps,omitempty"`
}

// Plan is a user's multi-week diet/workout program. At most one plan per user
// may be active or paused at a time (enforced by a partial unique index on the
// plans collection, see repository/mongo).
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	NumberOfWeeks int                `bson:"numberOfWeeks" json:"numberOfWeeks"`
	Status        PlanStatus         `bson:"status" json:"status"`
	PausedAt      *time.Time         `bson:"pausedAt,omitempty" json:"pausedAt,omitempty"`
	// PausedDays accumulates whole days spent paused over the plan's entire
	// history. Never reset, never decreases.
	PausedDays int `bson:"pausedDays" json:"pausedDays"`
	// CurrentWeek is the last persisted week number. It is a cache: the
	// authoritative value is recomputed from StartDate/PausedDays on every
	// read, except while paused, where the frozen value is authoritative.
	CurrentWeek int       `bson:"currentWeek" json:"currentWeek"`
	DietPlan    *DietPlan `bson:"dietPlan,omitempty" json:"dietPlan,omitempty"`
	Goals       *Goals    `bson:"goals,omitempty" json:"goals,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// rawWeekAt returns the uncapped 1-indexed week number at the given instant:
// elapsed non-paused days divided into 7-day weeks. Values below 1 (start date
// in the future) and above NumberOfWeeks are possible; callers clamp.
func (p *Plan) rawWeekAt(now time.Time) int {
	elapsed := now.Sub(p.StartDate) - time.Duration(p.PausedDays)*day
	elapsedDays := int(elapsed / day)
	return elapsedDays/7 + 1
}

// CurrentWeekAt computes the logical week the plan occupies at the given
// instant, clamped to [1, NumberOfWeeks]. While the plan is paused the clock
// is frozen and the persisted CurrentWeek is returned unchanged.
func (p *Plan) CurrentWeekAt(now time.Time) int {
	if p.Status == PlanStatusPaused {
		if p.CurrentWeek < MinPlanWeeks {
			return MinPlanWeeks
		}
		return p.CurrentWeek
	}
	week := p.rawWeekAt(now)
	if week < MinPlanWeeks {
		week = MinPlanWeeks
	}
	if week > p.NumberOfWeeks {
		week = p.NumberOfWeeks
	}
	return week
}

// IsCompletedAt reports whether the instant lies past the plan's final week.
// The comparison deliberately uses the uncapped week value, so a plan can
// report CurrentWeekAt == NumberOfWeeks and be completed at the same moment.
// A paused plan never completes; its clock is stopped.
func (p *Plan) IsCompletedAt(now time.Time) bool {
	if p.Status == PlanStatusPaused {
		return false
	}
	return p.rawWeekAt(now) > p.NumberOfWeeks
}

// EndDate derives the calendar date the plan logically ends: the start date
// plus the full duration plus every day spent paused. Informational only; it
// plays no part in week computation.
func (p *Plan) EndDate() time.Time {
	return p.StartDate.AddDate(0, 0, p.NumberOfWeeks*7+p.PausedDays)
}

// Pause transitions active -> paused: records the pause instant and persists
// the computed week as the frozen CurrentWeek. The caller is responsible for
// checking the plan is active and for saving the mutated plan.
func (p *Plan) Pause(now time.Time) {
	week := p.CurrentWeekAt(now)
	p.Status = PlanStatusPaused
	p.PausedAt = &now
	p.CurrentWeek = week
}

// Resume transitions paused -> active: credits the whole days elapsed since
// PausedAt into PausedDays and clears PausedAt. Partial days do not count, so
// pausing and resuming within the same calendar day credits zero days.
func (p *Plan) Resume(now time.Time) {
	if p.PausedAt != nil {
		p.PausedDays += wholeDaysBetween(*p.PausedAt, now)
	}
	p.Status = PlanStatusActive
	p.PausedAt = nil
}

// wholeDaysBetween is floor((to - from) / 1 day), never negative.
func wholeDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / day)
}
