// internal/domain/weight.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightEntry is a single body-weight measurement logged by a user.
// PlanID is a weak link to the plan that was live when the entry was created;
// deleting the plan does not remove the entry.
type WeightEntry struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID  *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Week    int                 `bson:"week" json:"week"` // Stamped at creation by the plan engine
	Date    time.Time           `bson:"date" json:"date"`
	ValueKg float64             `bson:"valueKg" json:"valueKg"`
	Notes   string              `bson:"notes,omitempty" json:"notes,omitempty"`
	// PhotoKey is the object-storage key of an optional progress photo.
	// Never exposed directly; clients fetch a presigned URL instead.
	PhotoKey  string    `bson:"photoKey,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
