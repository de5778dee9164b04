package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles dashboard and transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is validated by the service so a bad value reports INVALID_AMOUNT.
type CreateTransactionRequest struct {
	Amount      models.Amount          `json:"amount" swaggertype:"string"`
	Description string                 `json:"description" binding:"max=500"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	CategoryID  string                 `json:"category_id" binding:"omitempty,uuid"`
	CreatedAt   string                 `json:"created_at" binding:"omitempty,iso_date"`
}

// UpdateTransactionRequest represents the request payload for changing an amount.
type UpdateTransactionRequest struct {
	Amount models.Amount `json:"amount" swaggertype:"string"`
}

// ListTransactionsQuery holds the listing filters.
type ListTransactionsQuery struct {
	Type     string `form:"type" binding:"omitempty,transaction_type"`
	Category string `form:"category" binding:"max=100"`
	pagination.PageRequest
}

// LoadDashboard fetches the user's transactions and rebuilds the session ledger
// @Summary     Load the dashboard
// @Description Fetch transactions and categories, rebuild the session ledger and return totals and breakdowns
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /dashboard [get]
func (h *TransactionHandler) LoadDashboard(c *gin.Context) {
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

	c.JSON(http.StatusOK, dashboard)
}

// GetSummary returns the cached totals and breakdowns
// @Summary     Get dashboard totals
// @Description Totals and category breakdowns of the loaded ledger, without refetching
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ledger.Snapshot "Totals and breakdowns"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Dashboard not loaded"
// @Router      /dashboard/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.transactionService.Dashboard(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ListTransactions lists the loaded transactions
// @Summary     List transactions
// @Description Paginated listing of the loaded ledger, filterable by type and category label
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "income or expense"
// @Param       category  query string false "Category label, uncategorized for none"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Dashboard not loaded"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := ledger.Filter{Type: models.TransactionType(query.Type), Category: query.Category}
	result, err := h.transactionService.ListTransactions(id, filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateTransaction records a new transaction
// @Summary     Create a transaction
// @Description Insert a transaction on the data service and add it to the session ledger once confirmed
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} services.TransactionChange "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Dashboard not loaded"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	change, err := h.transactionService.CreateTransaction(c.Request.Context(), id, services.NewTransaction{
		Amount:      req.Amount,
		Description: req.Description,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "CREATE_TRANSACTION", "transaction", change.Transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": change.Transaction.Type, "amount": change.Transaction.Amount})

	c.JSON(http.StatusCreated, change)
}

// UpdateTransaction changes a transaction's amount
// @Summary     Update a transaction amount
// @Description Change the amount on the data service and apply it to the session ledger once confirmed
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "New amount"
// @Success     200 {object} services.TransactionChange "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	change, err := h.transactionService.UpdateTransactionAmount(c.Request.Context(), id, transactionID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"amount": change.Transaction.Amount})

	c.JSON(http.StatusOK, change)
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Description Delete the transaction on the data service and drop it from the session ledger once confirmed
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} services.TransactionChange "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	change, err := h.transactionService.DeleteTransaction(c.Request.Context(), id, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(id.UserID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, change)
}

// GetBreakdown returns per-category totals for one kind
// @Summary     Category breakdown
// @Description Per-category totals of the loaded ledger for income or expense
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "income or expense"
// @Success     200 {array}  models.CategoryTotal "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Dashboard not loaded"
// @Router      /breakdown/{kind} [get]
func (h *TransactionHandler) GetBreakdown(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind := models.TransactionType(c.Param("kind"))
	if !kind.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be income or expense"))
		return
	}

	breakdown, err := h.transactionService.Breakdown(id, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// ListCategoryNames lists the category labels present in the loaded ledger
// @Summary     Category filter options
// @Description Distinct category labels of the loaded transactions, for filtering
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  string "Category labels"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Dashboard not loaded"
// @Router      /transactions/categories [get]
func (h *TransactionHandler) ListCategoryNames(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	names, err := h.transactionService.CategoryNames(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}
