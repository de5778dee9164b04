package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// PageHandler serves the view models behind the session-gated pages.
// Opening a page loads its data into the session workspace.
type PageHandler struct {
	transactionService services.TransactionServicer
	goalService        services.SavingsGoalServicer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(transactionService services.TransactionServicer, goalService services.SavingsGoalServicer) *PageHandler {
	return &PageHandler{transactionService: transactionService, goalService: goalService}
}

// HomePage is the view model of the dashboard page.
type HomePage struct {
	Page  string `json:"page"`
	Email string `json:"email,omitempty"`
	*services.Dashboard
}

// SavingsPage is the view model of the savings page.
type SavingsPage struct {
	Page  string              `json:"page"`
	Email string              `json:"email,omitempty"`
	Goals []services.GoalView `json:"goals"`
}

// FormPage is the view model of the login and signup pages.
type FormPage struct {
	Page      string `json:"page"`
	Action    string `json:"action"`
	Alternate string `json:"alternate"`
}

// Home loads the dashboard for the signed-in user.
func (h *PageHandler) Home(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.transactionService.LoadDashboard(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, HomePage{Page: "home", Email: c.GetString(middleware.EmailKey), Dashboard: dashboard})
}

// Savings loads the savings goals for the signed-in user.
func (h *PageHandler) Savings(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.LoadGoals(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsPage{Page: "savings", Email: c.GetString(middleware.EmailKey), Goals: goals})
}

// Login describes the login form.
func (h *PageHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, FormPage{Page: "login", Action: "/api/v1/auth/login", Alternate: middleware.SignupPath})
}

// Signup describes the signup form.
func (h *PageHandler) Signup(c *gin.Context) {
	c.JSON(http.StatusOK, FormPage{Page: "signup", Action: "/api/v1/auth/signup", Alternate: middleware.LoginPath})
}

// Health reports that the server is up.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
