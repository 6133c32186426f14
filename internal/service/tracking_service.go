package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"
	"fittrack/fitness-tracker/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEntryValidation  = errors.New("entry validation failed")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrPhotoNotFound    = errors.New("no progress photo for this weight entry")
	ErrPhotoContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// PhotoUploadURLResponse carries a presigned PUT URL and the object key the
// client must report back on confirm.
type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Input structs ---

type LogWeightInput struct {
	ValueKg float64
	Date    *time.Time
	Notes   string
	Week    *int // explicit override of the computed week
}

type LogStepsInput struct {
	Count int
	Date  *time.Time
	Week  *int
}

type LogWorkoutInput struct {
	Name            string
	DurationMinutes int
	CaloriesBurned  int
	Notes           string
	Date            *time.Time
	Week            *int
}

type LogMealInput struct {
	Name         string
	MealType     domain.MealType
	Calories     int
	ProteinGrams int
	CarbsGrams   int
	FatGrams     int
	Date         *time.Time
	Week         *int
}

// TrackingService owns the daily logging entities. Every create resolves its
// week and plan link through the plan engine at write time.
type TrackingService interface {
	LogWeight(ctx context.Context, userID primitive.ObjectID, input LogWeightInput) (*domain.WeightEntry, error)
	GetWeights(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error)
	GetWeightByID(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.WeightEntry, error)
	DeleteWeight(ctx context.Context, userID, entryID primitive.ObjectID) error

	// Progress photo flow for a weight entry: presigned direct-to-storage
	// upload, then confirmation of the object key.
	RequestPhotoUploadURL(ctx context.Context, userID, entryID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, userID, entryID primitive.ObjectID, objectKey string) (*domain.WeightEntry, error)
	GetPhotoDownloadURL(ctx context.Context, userID, entryID primitive.ObjectID) (string, error)

	LogSteps(ctx context.Context, userID primitive.ObjectID, input LogStepsInput) (*domain.StepsEntry, error)
	GetSteps(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.StepsEntry, error)
	DeleteSteps(ctx context.Context, userID, entryID primitive.ObjectID) error

	LogWorkout(ctx context.Context, userID primitive.ObjectID, input LogWorkoutInput) (*domain.WorkoutEntry, error)
	GetWorkouts(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WorkoutEntry, error)
	DeleteWorkout(ctx context.Context, userID, entryID primitive.ObjectID) error

	LogMeal(ctx context.Context, userID primitive.ObjectID, input LogMealInput) (*domain.MealEntry, error)
	GetMeals(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.MealEntry, error)
	DeleteMeal(ctx context.Context, userID, entryID primitive.ObjectID) error
}

// --- Service Implementation ---

// trackingService implements the TrackingService interface.
type trackingService struct {
	weightRepo  repository.WeightRepository
	stepsRepo   repository.StepsRepository
	workoutRepo repository.WorkoutRepository
	mealRepo    repository.MealRepository
	weeks       WeekResolver
	fileStorage storage.FileStorage
	now         func() time.Time
}

// NewTrackingService creates a new instance of trackingService.
func NewTrackingService(
	weightRepo repository.WeightRepository,
	stepsRepo repository.StepsRepository,
	workoutRepo repository.WorkoutRepository,
	mealRepo repository.MealRepository,
	weeks WeekResolver,
	fileStorage storage.FileStorage,
) TrackingService {
	return &trackingService{
		weightRepo:  weightRepo,
		stepsRepo:   stepsRepo,
		workoutRepo: workoutRepo,
		mealRepo:    mealRepo,
		weeks:       weeks,
		fileStorage: fileStorage,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// === Weight ===

func (s *trackingService) LogWeight(ctx context.Context, userID primitive.ObjectID, input LogWeightInput) (*domain.WeightEntry, error) {
	if input.ValueKg <= 0 {
		return nil, fmt.Errorf("%w: weight value must be positive", ErrEntryValidation)
	}

	week, planID, err := s.weeks.ResolveWeekAndPlan(ctx, userID, input.Week)
	if err != nil {
		return nil, err
	}

	entry := &domain.WeightEntry{
		UserID:  userID,
		PlanID:  planID,
		Week:    week,
		Date:    s.entryDate(input.Date),
		ValueKg: input.ValueKg,
		Notes:   input.Notes,
	}
	if _, err := s.weightRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trackingService) GetWeights(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WeightEntry, error) {
	return s.weightRepo.GetByUserID(ctx, userID, week)
}

func (s *trackingService) GetWeightByID(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.WeightEntry, error) {
	entry, err := s.weightRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// DeleteWeight removes the entry and, best effort, its progress photo object.
func (s *trackingService) DeleteWeight(ctx context.Context, userID, entryID primitive.ObjectID) error {
	entry, err := s.GetWeightByID(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if err := s.weightRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	if entry.PhotoKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, entry.PhotoKey); err != nil {
			// The entry is gone; an orphaned object is acceptable.
			log.Printf("WARN: failed to delete photo object %q: %v", entry.PhotoKey, err)
		}
	}
	return nil
}

// === Progress photos ===

// RequestPhotoUploadURL generates a presigned URL for uploading a progress
// photo directly to object storage.
func (s *trackingService) RequestPhotoUploadURL(ctx context.Context, userID, entryID primitive.ObjectID, contentType string) (*PhotoUploadURLResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrPhotoContentType
	}

	// Ownership check before handing out an upload slot.
	if _, err := s.GetWeightByID(ctx, userID, entryID); err != nil {
		return nil, err
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", userID.Hex(), entryID.Hex(),
		fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &PhotoUploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhotoUpload records the uploaded object key on the weight entry.
// Called after the client has PUT the file via the presigned URL. A previous
// photo on the same entry is deleted from storage, best effort.
func (s *trackingService) ConfirmPhotoUpload(ctx context.Context, userID, entryID primitive.ObjectID, objectKey string) (*domain.WeightEntry, error) {
	if objectKey == "" {
		return nil, fmt.Errorf("%w: object key is required", ErrEntryValidation)
	}

	entry, err := s.GetWeightByID(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	previousKey := entry.PhotoKey
	entry.PhotoKey = objectKey
	if err := s.weightRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	if previousKey != "" && previousKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, previousKey); err != nil {
			log.Printf("WARN: failed to delete replaced photo object %q: %v", previousKey, err)
		}
	}
	return entry, nil
}

// GetPhotoDownloadURL generates a temporary URL for viewing the progress photo.
func (s *trackingService) GetPhotoDownloadURL(ctx context.Context, userID, entryID primitive.ObjectID) (string, error) {
	entry, err := s.GetWeightByID(ctx, userID, entryID)
	if err != nil {
		return "", err
	}
	if entry.PhotoKey == "" {
		return "", ErrPhotoNotFound
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, entry.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return downloadURL, nil
}

// === Steps ===

func (s *trackingService) LogSteps(ctx context.Context, userID primitive.ObjectID, input LogStepsInput) (*domain.StepsEntry, error) {
	if input.Count < 1 {
		return nil, fmt.Errorf("%w: step count must be positive", ErrEntryValidation)
	}

	week, planID, err := s.weeks.ResolveWeekAndPlan(ctx, userID, input.Week)
	if err != nil {
		return nil, err
	}

	entry := &domain.StepsEntry{
		UserID: userID,
		PlanID: planID,
		Week:   week,
		Date:   s.entryDate(input.Date),
		Count:  input.Count,
	}
	if _, err := s.stepsRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trackingService) GetSteps(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.StepsEntry, error) {
	return s.stepsRepo.GetByUserID(ctx, userID, week)
}

func (s *trackingService) DeleteSteps(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if err := s.stepsRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// === Workouts ===

func (s *trackingService) LogWorkout(ctx context.Context, userID primitive.ObjectID, input LogWorkoutInput) (*domain.WorkoutEntry, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrEntryValidation)
	}
	if input.DurationMinutes < 1 {
		return nil, fmt.Errorf("%w: workout duration must be positive", ErrEntryValidation)
	}

	week, planID, err := s.weeks.ResolveWeekAndPlan(ctx, userID, input.Week)
	if err != nil {
		return nil, err
	}

	entry := &domain.WorkoutEntry{
		UserID:          userID,
		PlanID:          planID,
		Week:            week,
		Date:            s.entryDate(input.Date),
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		CaloriesBurned:  input.CaloriesBurned,
		Notes:           input.Notes,
	}
	if _, err := s.workoutRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trackingService) GetWorkouts(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.WorkoutEntry, error) {
	return s.workoutRepo.GetByUserID(ctx, userID, week)
}

func (s *trackingService) DeleteWorkout(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if err := s.workoutRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// === Meals ===

func (s *trackingService) LogMeal(ctx context.Context, userID primitive.ObjectID, input LogMealInput) (*domain.MealEntry, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: meal name is required", ErrEntryValidation)
	}
	switch input.MealType {
	case domain.MealTypeBreakfast, domain.MealTypeLunch, domain.MealTypeDinner, domain.MealTypeSnack:
	default:
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrEntryValidation, input.MealType)
	}
	if input.Calories < 0 {
		return nil, fmt.Errorf("%w: calories cannot be negative", ErrEntryValidation)
	}

	week, planID, err := s.weeks.ResolveWeekAndPlan(ctx, userID, input.Week)
	if err != nil {
		return nil, err
	}

	entry := &domain.MealEntry{
		UserID:       userID,
		PlanID:       planID,
		Week:         week,
		Date:         s.entryDate(input.Date),
		Name:         input.Name,
		MealType:     input.MealType,
		Calories:     input.Calories,
		ProteinGrams: input.ProteinGrams,
		CarbsGrams:   input.CarbsGrams,
		FatGrams:     input.FatGrams,
	}
	if _, err := s.mealRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trackingService) GetMeals(ctx context.Context, userID primitive.ObjectID, week *int) ([]domain.MealEntry, error) {
	return s.mealRepo.GetByUserID(ctx, userID, week)
}

func (s *trackingService) DeleteMeal(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if err := s.mealRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// entryDate defaults a missing log date to now.
func (s *trackingService) entryDate(date *time.Time) time.Time {
	if date != nil && !date.IsZero() {
		return date.UTC()
	}
	return s.now()
}
