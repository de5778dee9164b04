package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// SavingsGoalHandler handles savings goal requests.
type SavingsGoalHandler struct {
	goalService  services.SavingsGoalServicer
	auditService services.AuditServicer
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler.
func NewSavingsGoalHandler(goalService services.SavingsGoalServicer, auditService services.AuditServicer) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a savings goal
type CreateGoalRequest struct {
	Name          string        `json:"name" binding:"required,max=100"`
	TargetAmount  models.Amount `json:"target_amount" swaggertype:"string"`
	CurrentAmount models.Amount `json:"current_amount" swaggertype:"string"`
	WillingToAdd  models.Amount `json:"willing_to_add" swaggertype:"string"`
	TargetDate    *string       `json:"target_date" binding:"omitempty,iso_date"`
	Category      *string       `json:"category" binding:"omitempty,max=100"`
}

// ProgressResponse is a goal's funding percentage.
type ProgressResponse struct {
	GoalID   string  `json:"goal_id"`
	Progress float64 `json:"progress"`
}

// ListGoals returns the user's savings goals
// @Summary     List savings goals
// @Description Return the session's goals. With refresh=true, or when none are loaded yet, refetch them from the data service.
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       refresh query bool false "Refetch from the data service"
// @Success     200 {array}  services.GoalView "Savings goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /savings-goals [get]
func (h *SavingsGoalHandler) ListGoals(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var goals []services.GoalView
	if c.Query("refresh") != "true" {
		goals, err = h.goalService.ListGoals(id)
	}
	if c.Query("refresh") == "true" || errors.Is(err, apperrors.ErrSessionNotLoaded) {
		goals, err = h.goalService.LoadGoals(c.Request.Context(), id)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// CreateGoal creates a savings goal
// @Summary     Create a savings goal
// @Description Insert a goal on the data service and add it to the session once confirmed
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} services.GoalView "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Goals not loaded"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /savings-goals [post]
func (h *SavingsGoalHandler) CreateGoal(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), id, services.NewGoal{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		WillingToAdd:  req.WillingToAdd,
		TargetDate:    req.TargetDate,
		Category:      req.Category,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "CREATE_SAVINGS_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "target_amount": goal.TargetAmount})

	c.JSON(http.StatusCreated, goal)
}

// TopUpGoal adds the goal's increment to its current amount
// @Summary     Top up a savings goal
// @Description Add willing_to_add (or the default increment) to the goal. The local amount is reverted if the data service fails.
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalView "Goal after top-up"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /savings-goals/{id}/top-up [post]
func (h *SavingsGoalHandler) TopUpGoal(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.TopUpGoal(c.Request.Context(), id, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "TOP_UP_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(),
		map[string]interface{}{"current_amount": goal.CurrentAmount})

	c.JSON(http.StatusOK, goal)
}

// GetProgress returns a goal's funding percentage
// @Summary     Savings goal progress
// @Description Current amount as a percentage of the target. Over-funded goals report more than 100.
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} ProgressResponse "Progress"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id}/progress [get]
func (h *SavingsGoalHandler) GetProgress(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	pct, err := h.goalService.Progress(id, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProgressResponse{GoalID: goalID, Progress: pct})
}

// DeleteGoal deletes a savings goal
// @Summary     Delete a savings goal
// @Description Delete the goal on the data service and drop it from the session once confirmed
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) DeleteGoal(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), id, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "DELETE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}
