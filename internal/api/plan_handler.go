// internal/api/plan_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// CreatePlanRequest defines the payload for starting a new plan.
type CreatePlanRequest struct {
	StartDate     time.Time        `json:"startDate" binding:"required"`
	NumberOfWeeks int              `json:"numberOfWeeks" binding:"required,min=1,max=52"`
	DietPlan      *domain.DietPlan `json:"dietPlan"`
	Goals         *domain.Goals    `json:"goals"`
}

// UpdatePlanRequest defines a partial plan update. Absent fields are left
// untouched; goals are shallow-merged.
type UpdatePlanRequest struct {
	DietPlan      *domain.DietPlan `json:"dietPlan"`
	Goals         *domain.Goals    `json:"goals"`
	NumberOfWeeks *int             `json:"numberOfWeeks" binding:"omitempty,min=1,max=52"`
}

// PlanResponse is the DTO for returning plan details. CurrentWeek is the
// freshly computed week, not the persisted cache.
type PlanResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	NumberOfWeeks int              `json:"numberOfWeeks"`
	Status        string           `json:"status"`
	PausedAt      *time.Time       `json:"pausedAt,omitempty"`
	PausedDays    int              `json:"pausedDays"`
	CurrentWeek   int              `json:"currentWeek"`
	DietPlan      *domain.DietPlan `json:"dietPlan,omitempty"`
	Goals         *domain.Goals    `json:"goals,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// MapPlanToResponse converts a domain.Plan to a PlanResponse DTO.
func MapPlanToResponse(plan *domain.Plan, currentWeek int) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:            plan.ID.Hex(),
		UserID:        plan.UserID.Hex(),
		StartDate:     plan.StartDate,
		EndDate:       plan.EndDate(),
		NumberOfWeeks: plan.NumberOfWeeks,
		Status:        string(plan.Status),
		PausedAt:      plan.PausedAt,
		PausedDays:    plan.PausedDays,
		CurrentWeek:   currentWeek,
		DietPlan:      plan.DietPlan,
		Goals:         plan.Goals,
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Start a new plan
// @Description Creates a new multi-week plan for the authenticated user.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse "Plan created"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "An active or paused plan already exists"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, service.CreatePlanInput{
		StartDate:     req.StartDate,
		NumberOfWeeks: req.NumberOfWeeks,
		DietPlan:      req.DietPlan,
		Goals:         req.Goals,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanConflict) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrPlanValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create plan.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan, plan.CurrentWeek))
}

// GetCurrentPlan godoc
// @Summary Get the current plan
// @Description Returns the caller's live plan with the freshly computed week. An overrun active plan transitions to completed on this read.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse "Current plan"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active or paused plan"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current [get]
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, week, err := h.planService.GetCurrentPlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, week))
}

// PausePlan godoc
// @Summary Pause the current plan
// @Description Freezes the plan clock at the current week.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse "Paused plan"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active plan to pause"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current/pause [post]
func (h *PlanHandler) PausePlan(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.PausePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to pause plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, plan.CurrentWeek))
}

// ResumePlan godoc
// @Summary Resume the current plan
// @Description Restarts the plan clock, crediting whole days spent paused.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse "Resumed plan"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No paused plan to resume"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current/resume [post]
func (h *PlanHandler) ResumePlan(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.ResumePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resume plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, plan.CurrentWeek))
}

// UpdatePlan godoc
// @Summary Update the current plan
// @Description Partially updates dietPlan (replaced), goals (shallow-merged), and numberOfWeeks (never below the week already reached).
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body UpdatePlanRequest true "Fields to update"
// @Success 200 {object} PlanResponse "Updated plan"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active or paused plan"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current [patch]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, service.UpdatePlanInput{
		DietPlan:      req.DietPlan,
		Goals:         req.Goals,
		NumberOfWeeks: req.NumberOfWeeks,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrPlanValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, plan.CurrentWeek))
}

// DeletePlan godoc
// @Summary Cancel the current plan
// @Description Removes the plan record. Log entries referencing it are kept.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 204 "Plan deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active or paused plan"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete plan.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// userIDFromRequest extracts and parses the authenticated user's ObjectID,
// writing the error response itself when that fails.
func userIDFromRequest(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
