// internal/api/tracking_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingHandler holds the tracking service dependency. It serves the four
// logging entities (weight, steps, workouts, meals) and the progress photo
// endpoints.
type TrackingHandler struct {
	trackingService service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// --- DTOs ---

// Every Log*Request accepts an optional week: when supplied it overrides the
// week computed from the caller's plan.

type LogWeightRequest struct {
	ValueKg float64    `json:"valueKg" binding:"required,gt=0"`
	Date    *time.Time `json:"date"`
	Notes   string     `json:"notes"`
	Week    *int       `json:"week" binding:"omitempty,min=1"`
}

type LogStepsRequest struct {
	Count int        `json:"count" binding:"required,min=1"`
	Date  *time.Time `json:"date"`
	Week  *int       `json:"week" binding:"omitempty,min=1"`
}

type LogWorkoutRequest struct {
	Name            string     `json:"name" binding:"required"`
	DurationMinutes int        `json:"durationMinutes" binding:"required,min=1"`
	CaloriesBurned  int        `json:"caloriesBurned" binding:"omitempty,min=0"`
	Notes           string     `json:"notes"`
	Date            *time.Time `json:"date"`
	Week            *int       `json:"week" binding:"omitempty,min=1"`
}

type LogMealRequest struct {
	Name         string     `json:"name" binding:"required"`
	MealType     string     `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	Calories     int        `json:"calories" binding:"min=0"`
	ProteinGrams int        `json:"proteinGrams" binding:"omitempty,min=0"`
	CarbsGrams   int        `json:"carbsGrams" binding:"omitempty,min=0"`
	FatGrams     int        `json:"fatGrams" binding:"omitempty,min=0"`
	Date         *time.Time `json:"date"`
	Week         *int       `json:"week" binding:"omitempty,min=1"`
}

type RequestPhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type WeightResponse struct {
	ID        string    `json:"id"`
	PlanID    *string   `json:"planId,omitempty"`
	Week      int       `json:"week"`
	Date      time.Time `json:"date"`
	ValueKg   float64   `json:"valueKg"`
	Notes     string    `json:"notes,omitempty"`
	HasPhoto  bool      `json:"hasPhoto"`
	CreatedAt time.Time `json:"createdAt"`
}

type StepsResponse struct {
	ID        string    `json:"id"`
	PlanID    *string   `json:"planId,omitempty"`
	Week      int       `json:"week"`
	Date      time.Time `json:"date"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

type WorkoutResponse struct {
	ID              string    `json:"id"`
	PlanID          *string   `json:"planId,omitempty"`
	Week            int       `json:"week"`
	Date            time.Time `json:"date"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  int       `json:"caloriesBurned,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type MealResponse struct {
	ID           string    `json:"id"`
	PlanID       *string   `json:"planId,omitempty"`
	Week         int       `json:"week"`
	Date         time.Time `json:"date"`
	Name         string    `json:"name"`
	MealType     string    `json:"mealType"`
	Calories     int       `json:"calories"`
	ProteinGrams int       `json:"proteinGrams,omitempty"`
	CarbsGrams   int       `json:"carbsGrams,omitempty"`
	FatGrams     int       `json:"fatGrams,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// --- DTO mapping ---

func planIDHex(planID *primitive.ObjectID) *string {
	if planID == nil || *planID == primitive.NilObjectID {
		return nil
	}
	hex := planID.Hex()
	return &hex
}

func MapWeightToResponse(e *domain.WeightEntry) WeightResponse {
	if e == nil {
		return WeightResponse{}
	}
	return WeightResponse{
		ID:        e.ID.Hex(),
		PlanID:    planIDHex(e.PlanID),
		Week:      e.Week,
		Date:      e.Date,
		ValueKg:   e.ValueKg,
		Notes:     e.Notes,
		HasPhoto:  e.PhotoKey != "",
		CreatedAt: e.CreatedAt,
	}
}

func MapStepsToResponse(e *domain.StepsEntry) StepsResponse {
	if e == nil {
		return StepsResponse{}
	}
	return StepsResponse{
		ID:        e.ID.Hex(),
		PlanID:    planIDHex(e.PlanID),
		Week:      e.Week,
		Date:      e.Date,
		Count:     e.Count,
		CreatedAt: e.CreatedAt,
	}
}

func MapWorkoutToResponse(e *domain.WorkoutEntry) WorkoutResponse {
	if e == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:              e.ID.Hex(),
		PlanID:          planIDHex(e.PlanID),
		Week:            e.Week,
		Date:            e.Date,
		Name:            e.Name,
		DurationMinutes: e.DurationMinutes,
		CaloriesBurned:  e.CaloriesBurned,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
	}
}

func MapMealToResponse(e *domain.MealEntry) MealResponse {
	if e == nil {
		return MealResponse{}
	}
	return MealResponse{
		ID:           e.ID.Hex(),
		PlanID:       planIDHex(e.PlanID),
		Week:         e.Week,
		Date:         e.Date,
		Name:         e.Name,
		MealType:     string(e.MealType),
		Calories:     e.Calories,
		ProteinGrams: e.ProteinGrams,
		CarbsGrams:   e.CarbsGrams,
		FatGrams:     e.FatGrams,
		CreatedAt:    e.CreatedAt,
	}
}

// weekQueryFilter parses the optional ?week= query parameter. Writes the
// error response itself on a malformed value.
func weekQueryFilter(c *gin.Context) (*int, bool) {
	raw := c.Query("week")
	if raw == "" {
		return nil, true
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid week query parameter.")
		return nil, false
	}
	return &week, true
}

// entryIDFromPath parses the :id path parameter.
func entryIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// mapTrackingError translates tracking service errors to HTTP responses.
func mapTrackingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEntryValidation), errors.Is(err, service.ErrPhotoContentType):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPhotoNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// === Weight handlers ===

// LogWeight creates a weight entry stamped with the resolved plan week.
func (h *TrackingHandler) LogWeight(c *gin.Context) {
	var req LogWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.LogWeight(c.Request.Context(), userID, service.LogWeightInput{
		ValueKg: req.ValueKg,
		Date:    req.Date,
		Notes:   req.Notes,
		Week:    req.Week,
	})
	if err != nil {
		mapTrackingError(c, err, "Failed to log weight.")
		return
	}

	c.JSON(http.StatusCreated, MapWeightToResponse(entry))
}

// GetWeights lists the caller's weight entries, newest first.
func (h *TrackingHandler) GetWeights(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	week, ok := weekQueryFilter(c)
	if !ok {
		return
	}

	entries, err := h.trackingService.GetWeights(c.Request.Context(), userID, week)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve weight entries.")
		return
	}

	responses := make([]WeightResponse, len(entries))
	for i := range entries {
		responses[i] = MapWeightToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetWeightByID returns a single weight entry owned by the caller.
func (h *TrackingHandler) GetWeightByID(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.GetWeightByID(c.Request.Context(), userID, entryID)
	if err != nil {
		mapTrackingError(c, err, "Failed to retrieve weight entry.")
		return
	}

	c.JSON(http.StatusOK, MapWeightToResponse(entry))
}

// DeleteWeight removes a weight entry (and its photo, if any).
func (h *TrackingHandler) DeleteWeight(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	if err := h.trackingService.DeleteWeight(c.Request.Context(), userID, entryID); err != nil {
		mapTrackingError(c, err, "Failed to delete weight entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

// === Progress photo handlers ===

// RequestPhotoUploadURL returns a presigned PUT URL for a progress photo.
func (h *TrackingHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req RequestPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	resp, err := h.trackingService.RequestPhotoUploadURL(c.Request.Context(), userID, entryID, req.ContentType)
	if err != nil {
		mapTrackingError(c, err, "Failed to generate upload URL.")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload records the uploaded object key on the weight entry.
func (h *TrackingHandler) ConfirmPhotoUpload(c *gin.Context) {
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.ConfirmPhotoUpload(c.Request.Context(), userID, entryID, req.ObjectKey)
	if err != nil {
		mapTrackingError(c, err, "Failed to confirm photo upload.")
		return
	}

	c.JSON(http.StatusOK, MapWeightToResponse(entry))
}

// GetPhotoDownloadURL returns a presigned GET URL for the progress photo.
func (h *TrackingHandler) GetPhotoDownloadURL(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	url, err := h.trackingService.GetPhotoDownloadURL(c.Request.Context(), userID, entryID)
	if err != nil {
		mapTrackingError(c, err, "Failed to generate download URL.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// === Steps handlers ===

func (h *TrackingHandler) LogSteps(c *gin.Context) {
	var req LogStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.LogSteps(c.Request.Context(), userID, service.LogStepsInput{
		Count: req.Count,
		Date:  req.Date,
		Week:  req.Week,
	})
	if err != nil {
		mapTrackingError(c, err, "Failed to log steps.")
		return
	}

	c.JSON(http.StatusCreated, MapStepsToResponse(entry))
}

func (h *TrackingHandler) GetSteps(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	week, ok := weekQueryFilter(c)
	if !ok {
		return
	}

	entries, err := h.trackingService.GetSteps(c.Request.Context(), userID, week)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve steps entries.")
		return
	}

	responses := make([]StepsResponse, len(entries))
	for i := range entries {
		responses[i] = MapStepsToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *TrackingHandler) DeleteSteps(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	if err := h.trackingService.DeleteSteps(c.Request.Context(), userID, entryID); err != nil {
		mapTrackingError(c, err, "Failed to delete steps entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

// === Workout handlers ===

func (h *TrackingHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.LogWorkout(c.Request.Context(), userID, service.LogWorkoutInput{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
		Date:            req.Date,
		Week:            req.Week,
	})
	if err != nil {
		mapTrackingError(c, err, "Failed to log workout.")
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(entry))
}

func (h *TrackingHandler) GetWorkouts(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	week, ok := weekQueryFilter(c)
	if !ok {
		return
	}

	entries, err := h.trackingService.GetWorkouts(c.Request.Context(), userID, week)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout entries.")
		return
	}

	responses := make([]WorkoutResponse, len(entries))
	for i := range entries {
		responses[i] = MapWorkoutToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *TrackingHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	if err := h.trackingService.DeleteWorkout(c.Request.Context(), userID, entryID); err != nil {
		mapTrackingError(c, err, "Failed to delete workout entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

// === Meal handlers ===

func (h *TrackingHandler) LogMeal(c *gin.Context) {
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	entry, err := h.trackingService.LogMeal(c.Request.Context(), userID, service.LogMealInput{
		Name:         req.Name,
		MealType:     domain.MealType(req.MealType),
		Calories:     req.Calories,
		ProteinGrams: req.ProteinGrams,
		CarbsGrams:   req.CarbsGrams,
		FatGrams:     req.FatGrams,
		Date:         req.Date,
		Week:         req.Week,
	})
	if err != nil {
		mapTrackingError(c, err, "Failed to log meal.")
		return
	}

	c.JSON(http.StatusCreated, MapMealToResponse(entry))
}

func (h *TrackingHandler) GetMeals(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	week, ok := weekQueryFilter(c)
	if !ok {
		return
	}

	entries, err := h.trackingService.GetMeals(c.Request.Context(), userID, week)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve meal entries.")
		return
	}

	responses := make([]MealResponse, len(entries))
	for i := range entries {
		responses[i] = MapMealToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *TrackingHandler) DeleteMeal(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	entryID, ok := entryIDFromPath(c)
	if !ok {
		return
	}

	if err := h.trackingService.DeleteMeal(c.Request.Context(), userID, entryID); err != nil {
		mapTrackingError(c, err, "Failed to delete meal entry.")
		return
	}

	c.Status(http.StatusNoContent)
}
