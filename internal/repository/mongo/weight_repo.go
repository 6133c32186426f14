// internal/repository/mongo/weight_repo.go
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

const WeightCollectionName = "weights"

// mongoWeightRepository implements repository.WeightRepository
type mongoWeightRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightRepository creates a new WeightEntry repository.
func NewMongoWeightRepository(db *mongo.Database) repository.WeightRepository {
	return &mongoWeightRepository{
		collection: db.Collection(WeightCollectionName),
	}
}

// Create inserts a new weight entry.
func (r *mongoWeightRepository) Create(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("weight entry requires userId")
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
		return primitive.NilObjectID, errors.New("failed to convert inserted weight entry ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single weight entry, scoped to its owner.
func (r *mongoWeightRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeightEntry, error) {
	var entry domain.WeightEntry
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

// GetByUserID retrieves all of a user's weight entries, newest first,
// optionally filtered to a single plan week.
func (r *mongoWeightRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error) {
	var entries []domain.WeightEntry
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

// Update persists the mutable fields of a weight entry.
func (r *mongoWeightRepository) Update(ctx context.Context, entry *domain.WeightEntry) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("weight entry ID is required for update")
	}

	filter := bson.M{"_id": entry.ID, "userId": entry.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"valueKg":   entry.ValueKg,
			"notes":     entry.Notes,
			"photoKey":  entry.PhotoKey,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a weight entry owned by the user.
func (r *mongoWeightRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
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

// EnsureWeightIndexes creates necessary indexes. Call during startup.
func EnsureWeightIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "week", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
