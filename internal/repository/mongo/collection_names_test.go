package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The exported names are the contract between the repositories and the index
// setup in main; both sides must address the same collections or the entity
// indexes land on empty collections and every list query runs unindexed.
func TestCollectionNames(t *testing.T) {
	assert.Equal(t, "users", UserCollectionName)
	assert.Equal(t, "plans", PlanCollectionName)
	assert.Equal(t, "weights", WeightCollectionName)
	assert.Equal(t, "steps", StepsCollectionName)
	assert.Equal(t, "workouts", WorkoutCollectionName)
	assert.Equal(t, "meals", MealCollectionName)
}
