// internal/domain/steps.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StepsEntry is a daily step count logged by a user.
type StepsEntry struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID    *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Week      int                 `bson:"week" json:"week"`
	Date      time.Time           `bson:"date" json:"date"`
	Count     int                 `bson:"count" json:"count"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
