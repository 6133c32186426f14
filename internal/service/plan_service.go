package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanValidation = errors.New("plan validation failed")
	ErrPlanConflict   = errors.New("an active or paused plan already exists for this user")
	ErrPlanNotFound   = errors.New("plan not found")
)

// CreatePlanInput carries the caller-supplied fields for a new plan.
type CreatePlanInput struct {
	StartDate     time.Time
	NumberOfWeeks int
	DietPlan      *domain.DietPlan
	Goals         *domain.Goals
}

// UpdatePlanInput carries a partial plan update. Nil fields are left untouched.
type UpdatePlanInput struct {
	DietPlan      *domain.DietPlan
	Goals         *domain.Goals
	NumberOfWeeks *int
}

// WeekResolver is the surface the logging endpoints depend on: given a user,
// resolve the week number (and plan link) to stamp onto a new entry.
type WeekResolver interface {
	ResolveWeekAndPlan(ctx context.Context, userID primitive.ObjectID, explicitWeek *int) (int, *primitive.ObjectID, error)
}

// PlanService owns the plan lifecycle: creation, pause/resume, partial update,
// lazy completion detection, and week resolution for the logging endpoints.
type PlanService interface {
	WeekResolver
	CreatePlan(ctx context.Context, userID primitive.ObjectID, input CreatePlanInput) (*domain.Plan, error)
	// GetCurrentPlan returns the user's live plan together with the freshly
	// computed current week. The persisted status may lag behind real time;
	// this call is where an overrun active plan transitions to completed.
	GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, int, error)
	PausePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error)
	ResumePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, userID primitive.ObjectID, input UpdatePlanInput) (*domain.Plan, error)
	DeletePlan(ctx context.Context, userID primitive.ObjectID) error
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	now      func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return NewPlanServiceWithClock(planRepo, func() time.Time { return time.Now().UTC() })
}

// NewPlanServiceWithClock creates a plan service with a custom time source.
func NewPlanServiceWithClock(planRepo repository.PlanRepository, now func() time.Time) PlanService {
	return &planService{
		planRepo: planRepo,
		now:      now,
	}
}

// CreatePlan validates the input, rejects a second live plan for the user,
// and persists a fresh active plan starting at week 1.
func (s *planService) CreatePlan(ctx context.Context, userID primitive.ObjectID, input CreatePlanInput) (*domain.Plan, error) {
	if userID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: user ID is required", ErrPlanValidation)
	}
	if input.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: startDate is required", ErrPlanValidation)
	}
	if input.NumberOfWeeks < domain.MinPlanWeeks || input.NumberOfWeeks > domain.MaxPlanWeeks {
		return nil, fmt.Errorf("%w: numberOfWeeks must be between %d and %d",
			ErrPlanValidation, domain.MinPlanWeeks, domain.MaxPlanWeeks)
	}

	// Check-then-act guard. The partial unique index on the plans collection
	// is the real enforcement; this check just gives the common case a clean
	// error without a failed insert.
	_, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err == nil {
		return nil, ErrPlanConflict
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan := &domain.Plan{
		UserID:        userID,
		StartDate:     input.StartDate.UTC(),
		NumberOfWeeks: input.NumberOfWeeks,
		Status:        domain.PlanStatusActive,
		PausedDays:    0,
		CurrentWeek:   1,
		DietPlan:      input.DietPlan,
		Goals:         input.Goals,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race to a concurrent create; the index caught it.
			return nil, ErrPlanConflict
		}
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetCurrentPlan fetches the live plan and recomputes its week. An active plan
// read after its logical end transitions to completed here; the transition is
// persisted before returning, so the caller sees the final state.
func (s *planService) GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, int, error) {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrPlanNotFound
		}
		return nil, 0, err
	}

	now := s.now()
	week := plan.CurrentWeekAt(now)

	if plan.Status == domain.PlanStatusActive {
		completed := plan.IsCompletedAt(now)
		if completed {
			plan.Status = domain.PlanStatusCompleted
		}
		// Refresh the persisted week cache whenever it drifted.
		if completed || plan.CurrentWeek != week {
			plan.CurrentWeek = week
			if err := s.planRepo.Update(ctx, plan); err != nil {
				return nil, 0, err
			}
		}
	}

	return plan, week, nil
}

// PausePlan freezes the plan clock. Only an active plan can be paused.
func (s *planService) PausePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.Status != domain.PlanStatusActive {
		return nil, ErrPlanNotFound
	}

	plan.Pause(s.now())
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ResumePlan restarts the clock, crediting whole paused days. Only a paused
// plan can be resumed.
func (s *planService) ResumePlan(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.Status != domain.PlanStatusPaused {
		return nil, ErrPlanNotFound
	}

	now := s.now()
	plan.Resume(now)
	plan.CurrentWeek = plan.CurrentWeekAt(now)
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan applies a partial update: dietPlan is replaced, goals are
// shallow-merged (fields not supplied are preserved), and numberOfWeeks may
// grow or shrink but never below the week the plan has already reached.
func (s *planService) UpdatePlan(ctx context.Context, userID primitive.ObjectID, input UpdatePlanInput) (*domain.Plan, error) {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if input.NumberOfWeeks != nil {
		weeks := *input.NumberOfWeeks
		if weeks < domain.MinPlanWeeks || weeks > domain.MaxPlanWeeks {
			return nil, fmt.Errorf("%w: numberOfWeeks must be between %d and %d",
				ErrPlanValidation, domain.MinPlanWeeks, domain.MaxPlanWeeks)
		}
		if current := plan.CurrentWeekAt(s.now()); weeks < current {
			return nil, fmt.Errorf("%w: numberOfWeeks cannot be reduced below the current week (%d)",
				ErrPlanValidation, current)
		}
		plan.NumberOfWeeks = weeks
	}

	if input.DietPlan != nil {
		plan.DietPlan = input.DietPlan
	}

	if input.Goals != nil {
		plan.Goals = mergeGoals(plan.Goals, input.Goals)
	}

	// Refresh the week cache; a no-op while paused, where the frozen value is
	// authoritative.
	plan.CurrentWeek = plan.CurrentWeekAt(s.now())

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan cancels the user's live plan. Log entries that reference the
// plan are left in place; their planId becomes a dangling weak link.
func (s *planService) DeletePlan(ctx context.Context, userID primitive.ObjectID) error {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if err := s.planRepo.Delete(ctx, plan.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// ResolveWeekAndPlan resolves the week number to stamp onto a new log entry.
// An explicit caller-supplied week always wins. Otherwise the live plan's
// computed week is used, and with no live plan the entry lands in week 1 with
// no plan link.
func (s *planService) ResolveWeekAndPlan(ctx context.Context, userID primitive.ObjectID, explicitWeek *int) (int, *primitive.ObjectID, error) {
	plan, err := s.planRepo.GetActiveOrPausedByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return 0, nil, err
		}
		if explicitWeek != nil && *explicitWeek >= 1 {
			return *explicitWeek, nil, nil
		}
		return 1, nil, nil
	}

	week := plan.CurrentWeekAt(s.now())
	if explicitWeek != nil && *explicitWeek >= 1 {
		week = *explicitWeek
	}
	planID := plan.ID
	return week, &planID, nil
}

// mergeGoals overlays the supplied goal fields onto the existing ones.
// Shallow merge: only non-nil incoming fields replace.
func mergeGoals(existing, incoming *domain.Goals) *domain.Goals {
	if existing == nil {
		return incoming
	}
	merged := *existing
	if incoming.TargetWeightKg != nil {
		merged.TargetWeightKg = incoming.TargetWeightKg
	}
	if incoming.WeeklyWorkouts != nil {
		merged.WeeklyWorkouts = incoming.WeeklyWorkouts
	}
	if incoming.DailySteps != nil {
		merged.DailySteps = incoming.DailySteps
	}
	return &merged
}
