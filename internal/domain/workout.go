package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutEntry is a completed workout session logged by a user.
type WorkoutEntry struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID          *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Week            int                 `bson:"week" json:"week"`
	Date            time.Time           `bson:"date" json:"date"`
	Name            string              `bson:"name" json:"name"` // e.g., "Upper Body", "Long Run"
	DurationMinutes int                 `bson:"durationMinutes" json:"durationMinutes"`
	CaloriesBurned  int                 `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
