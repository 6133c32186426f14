package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes ---

type fakeWeekResolver struct {
	week   int
	planID *primitive.ObjectID
	err    error
}

func (f *fakeWeekResolver) ResolveWeekAndPlan(ctx context.Context, userID primitive.ObjectID, explicitWeek *int) (int, *primitive.ObjectID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	if explicitWeek != nil && *explicitWeek >= 1 {
		return *explicitWeek, f.planID, nil
	}
	return f.week, f.planID, nil
}

type fakeWeightRepo struct {
	createFn      func(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error)
	getByIDFn     func(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeightEntry, error)
	getByUserIDFn func(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error)
	updateFn      func(ctx context.Context, entry *domain.WeightEntry) error
	deleteFn      func(ctx context.Context, id, userID primitive.ObjectID) error
}

func (f *fakeWeightRepo) Create(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
	return f.createFn(ctx, entry)
}

func (f *fakeWeightRepo) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeightEntry, error) {
	return f.getByIDFn(ctx, id, userID)
}

func (f *fakeWeightRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error) {
	return f.getByUserIDFn(ctx, userID, week)
}

func (f *fakeWeightRepo) Update(ctx context.Context, entry *domain.WeightEntry) error {
	return f.updateFn(ctx, entry)
}

func (f *fakeWeightRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return f.deleteFn(ctx, id, userID)
}

type fakeStepsRepo struct {
	createFn func(ctx context.Context, entry *domain.StepsEntry) (primitive.ObjectID, error)
	deleteFn func(ctx context.Context, id, userID primitive.ObjectID) error
}

func (f *fakeStepsRepo) Create(ctx context.Context, entry *domain.StepsEntry) (primitive.ObjectID, error) {
	return f.createFn(ctx, entry)
}

func (f *fakeStepsRepo) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.StepsEntry, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeStepsRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.StepsEntry, error) {
	return nil, nil
}

func (f *fakeStepsRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return f.deleteFn(ctx, id, userID)
}

type fakeWorkoutRepo struct {
	createFn func(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error)
}

func (f *fakeWorkoutRepo) Create(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error) {
	return f.createFn(ctx, entry)
}

func (f *fakeWorkoutRepo) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutEntry, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeWorkoutRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WorkoutEntry, error) {
	return nil, nil
}

func (f *fakeWorkoutRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return nil
}

type fakeMealRepo struct {
	createFn func(ctx context.Context, entry *domain.MealEntry) (primitive.ObjectID, error)
}

func (f *fakeMealRepo) Create(ctx context.Context, entry *domain.MealEntry) (primitive.ObjectID, error) {
	return f.createFn(ctx, entry)
}

func (f *fakeMealRepo) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.MealEntry, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeMealRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.MealEntry, error) {
	return nil, nil
}

func (f *fakeMealRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return nil
}

type fakeFileStorage struct {
	uploadURLFn   func(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)
	downloadURLFn func(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	deletedKeys   []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	if f.uploadURLFn != nil {
		return f.uploadURLFn(ctx, objectKey, contentType, expires)
	}
	return "https://storage.example.com/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if f.downloadURLFn != nil {
		return f.downloadURLFn(ctx, objectKey, expires)
	}
	return "https://storage.example.com/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

func newTrackingFixture(resolver *fakeWeekResolver, weightRepo *fakeWeightRepo, files *fakeFileStorage) TrackingService {
	if weightRepo == nil {
		weightRepo = &fakeWeightRepo{}
	}
	if files == nil {
		files = &fakeFileStorage{}
	}
	return NewTrackingService(
		weightRepo,
		&fakeStepsRepo{createFn: func(ctx context.Context, entry *domain.StepsEntry) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		}},
		&fakeWorkoutRepo{createFn: func(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		}},
		&fakeMealRepo{createFn: func(ctx context.Context, entry *domain.MealEntry) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		}},
		resolver,
		files,
	)
}

// --- Tests ---

func TestLogWeight_StampsResolvedWeekAndPlan(t *testing.T) {
	planID := primitive.NewObjectID()
	resolver := &fakeWeekResolver{week: 3, planID: &planID}
	weightRepo := &fakeWeightRepo{
		createFn: func(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
			entry.ID = primitive.NewObjectID()
			return entry.ID, nil
		},
	}
	svc := newTrackingFixture(resolver, weightRepo, nil)

	entry, err := svc.LogWeight(context.Background(), primitive.NewObjectID(), LogWeightInput{ValueKg: 82.4})

	require.NoError(t, err)
	assert.Equal(t, 3, entry.Week)
	require.NotNil(t, entry.PlanID)
	assert.Equal(t, planID, *entry.PlanID)
	assert.False(t, entry.Date.IsZero(), "missing date defaults to now")
}

func TestLogWeight_ExplicitWeekOverrides(t *testing.T) {
	planID := primitive.NewObjectID()
	resolver := &fakeWeekResolver{week: 3, planID: &planID}
	weightRepo := &fakeWeightRepo{
		createFn: func(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		},
	}
	svc := newTrackingFixture(resolver, weightRepo, nil)

	one := 1
	entry, err := svc.LogWeight(context.Background(), primitive.NewObjectID(), LogWeightInput{ValueKg: 82.4, Week: &one})

	require.NoError(t, err)
	assert.Equal(t, 1, entry.Week)
}

func TestLogWeight_RejectsNonPositiveValue(t *testing.T) {
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, nil, nil)

	_, err := svc.LogWeight(context.Background(), primitive.NewObjectID(), LogWeightInput{ValueKg: 0})
	assert.ErrorIs(t, err, ErrEntryValidation)
}

func TestLogSteps_NoPlanLeavesPlanUnlinked(t *testing.T) {
	resolver := &fakeWeekResolver{week: 1, planID: nil}
	svc := newTrackingFixture(resolver, nil, nil)

	entry, err := svc.LogSteps(context.Background(), primitive.NewObjectID(), LogStepsInput{Count: 9500})

	require.NoError(t, err)
	assert.Equal(t, 1, entry.Week)
	assert.Nil(t, entry.PlanID)
}

func TestLogWorkout_Validation(t *testing.T) {
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, nil, nil)

	_, err := svc.LogWorkout(context.Background(), primitive.NewObjectID(), LogWorkoutInput{DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrEntryValidation)

	_, err = svc.LogWorkout(context.Background(), primitive.NewObjectID(), LogWorkoutInput{Name: "Upper body"})
	assert.ErrorIs(t, err, ErrEntryValidation)
}

func TestLogMeal_RejectsUnknownMealType(t *testing.T) {
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, nil, nil)

	_, err := svc.LogMeal(context.Background(), primitive.NewObjectID(), LogMealInput{
		Name:     "Oatmeal",
		MealType: domain.MealType("brunch"),
	})
	assert.ErrorIs(t, err, ErrEntryValidation)
}

func TestLogMeal_StampsWeek(t *testing.T) {
	resolver := &fakeWeekResolver{week: 2}
	svc := newTrackingFixture(resolver, nil, nil)

	entry, err := svc.LogMeal(context.Background(), primitive.NewObjectID(), LogMealInput{
		Name:     "Oatmeal",
		MealType: domain.MealTypeBreakfast,
		Calories: 420,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, entry.Week)
}

func TestDeleteWeight_RemovesPhotoObject(t *testing.T) {
	userID := primitive.NewObjectID()
	entryID := primitive.NewObjectID()
	files := &fakeFileStorage{}
	weightRepo := &fakeWeightRepo{
		getByIDFn: func(ctx context.Context, id, uid primitive.ObjectID) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{ID: id, UserID: uid, PhotoKey: "photos/a/b/c.jpeg"}, nil
		},
		deleteFn: func(ctx context.Context, id, uid primitive.ObjectID) error { return nil },
	}
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, weightRepo, files)

	err := svc.DeleteWeight(context.Background(), userID, entryID)

	require.NoError(t, err)
	assert.Equal(t, []string{"photos/a/b/c.jpeg"}, files.deletedKeys)
}

func TestDeleteWeight_NotFound(t *testing.T) {
	weightRepo := &fakeWeightRepo{
		getByIDFn: func(ctx context.Context, id, uid primitive.ObjectID) (*domain.WeightEntry, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, weightRepo, nil)

	err := svc.DeleteWeight(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRequestPhotoUploadURL_RejectsNonImageContentType(t *testing.T) {
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, nil, nil)

	_, err := svc.RequestPhotoUploadURL(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "application/pdf")
	assert.ErrorIs(t, err, ErrPhotoContentType)
}

func TestRequestPhotoUploadURL_KeyIsScopedToUserAndEntry(t *testing.T) {
	userID := primitive.NewObjectID()
	entryID := primitive.NewObjectID()
	weightRepo := &fakeWeightRepo{
		getByIDFn: func(ctx context.Context, id, uid primitive.ObjectID) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{ID: id, UserID: uid}, nil
		},
	}
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, weightRepo, &fakeFileStorage{})

	resp, err := svc.RequestPhotoUploadURL(context.Background(), userID, entryID, "image/jpeg")

	require.NoError(t, err)
	assert.Contains(t, resp.ObjectKey, userID.Hex())
	assert.Contains(t, resp.ObjectKey, entryID.Hex())
	assert.Contains(t, resp.ObjectKey, ".jpeg")
	assert.NotEmpty(t, resp.UploadURL)
}

func TestConfirmPhotoUpload_ReplacesPreviousObject(t *testing.T) {
	userID := primitive.NewObjectID()
	entryID := primitive.NewObjectID()
	files := &fakeFileStorage{}
	var updated *domain.WeightEntry
	weightRepo := &fakeWeightRepo{
		getByIDFn: func(ctx context.Context, id, uid primitive.ObjectID) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{ID: id, UserID: uid, PhotoKey: "photos/old.jpeg"}, nil
		},
		updateFn: func(ctx context.Context, entry *domain.WeightEntry) error {
			updated = entry
			return nil
		},
	}
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, weightRepo, files)

	entry, err := svc.ConfirmPhotoUpload(context.Background(), userID, entryID, "photos/new.jpeg")

	require.NoError(t, err)
	assert.Equal(t, "photos/new.jpeg", entry.PhotoKey)
	require.NotNil(t, updated)
	assert.Equal(t, []string{"photos/old.jpeg"}, files.deletedKeys)
}

func TestGetPhotoDownloadURL_NoPhoto(t *testing.T) {
	weightRepo := &fakeWeightRepo{
		getByIDFn: func(ctx context.Context, id, uid primitive.ObjectID) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{ID: id, UserID: uid}, nil
		},
	}
	svc := newTrackingFixture(&fakeWeekResolver{week: 1}, weightRepo, nil)

	_, err := svc.GetPhotoDownloadURL(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
