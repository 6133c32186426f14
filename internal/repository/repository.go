package repository

import (
	"context"

	"fittrack/fitness-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with plan data.
// Create returns ErrConflict when the partial unique index rejects a second
// active-or-paused plan for the same user.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetActiveOrPausedByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// WeightRepository defines the interface for interacting with weight entries.
type WeightRepository interface {
	Create(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeightEntry, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error)
	Update(ctx context.Context, entry *domain.WeightEntry) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// StepsRepository defines the interface for interacting with step-count entries.
type StepsRepository interface {
	Create(ctx context.Context, entry *domain.StepsEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.StepsEntry, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.StepsEntry, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout entries.
type WorkoutRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutEntry, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WorkoutEntry, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// MealRepository defines the interface for interacting with meal entries.
type MealRepository interface {
	Create(ctx context.Context, entry *domain.MealEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.MealEntry, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.MealEntry, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
