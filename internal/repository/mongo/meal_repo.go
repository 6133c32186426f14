// internal/repository/mongo/meal_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MealCollectionName = "meals"

// mongoMealRepository implements repository.MealRepository
type mongoMealRepository struct {
	collection *mongo.Collection
}

// NewMongoMealRepository creates a new MealEntry repository.
func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(MealCollectionName),
	}
}

// Create inserts a new meal entry.
func (r *mongoMealRepository) Create(ctx context.Context, entry *domain.MealEntry) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID || entry.Name == "" {
		return primitive.NilObjectID, errors.New("meal entry requires userId and name")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal entry ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single meal entry, scoped to its owner.
func (r *mongoMealRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.MealEntry, error) {
	var entry domain.MealEntry
	filter := bson.M{"_id": id, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByUserID retrieves all of a user's meal entries, newest first,
// optionally filtered to a single plan week.
func (r *mongoMealRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.MealEntry, error) {
	var entries []domain.MealEntry
	filter := bson.M{"userId": userID}
	if week != nil {
		filter["week"] = *week
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a meal entry owned by the user.
func (r *mongoMealRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealIndexes creates necessary indexes. Call during startup.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "week", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "mealType", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
