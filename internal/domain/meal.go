// internal/domain/meal.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType categorizes a logged meal.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealEntry is a meal logged by a user with its calorie and macro content.
type MealEntry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID       *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Week         int                 `bson:"week" json:"week"`
	Date         time.Time           `bson:"date" json:"date"`
	Name         string              `bson:"name" json:"name"`
	MealType     MealType            `bson:"mealType" json:"mealType"`
	Calories     int                 `bson:"calories" json:"calories"`
	ProteinGrams int                 `bson:"proteinGrams,omitempty" json:"proteinGrams,omitempty"`
	CarbsGrams   int                 `bson:"carbsGrams,omitempty" json:"carbsGrams,omitempty"`
	FatGrams     int                 `bson:"fatGrams,omitempty" json:"fatGrams,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
