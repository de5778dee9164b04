package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/graphql"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

const (
	jwtSecret   = "test-secret"
	userID      = "5c8f1a2e-8b1d-4f53-9d0a-7c6b2a1e0f34"
	userEmail   = "ana@example.com"
	salaryCatID = "2f1b7a50-63a4-4d0c-8c47-8f3b6c1d9e21"
	foodCatID   = "a3d2e9c4-7b61-4f08-9a35-1e6c0b8f2d47"
	goalID      = "e4b1c6d2-0a9f-4b37-8e25-6d3c1f7a9b80"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// fakeBackend plays the hosted data and auth APIs for one user.
type fakeBackend struct {
	t *testing.T

	mu             sync.Mutex
	transactions   []models.Transaction
	goals          []models.SavingsGoal
	failGoalUpdate bool
	signOuts       int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{
		t: t,
		transactions: []models.Transaction{{
			ID:          uuid.NewString(),
			Amount:      "500",
			Description: "May salary",
			CreatedAt:   "2024-05-01",
			UserID:      userID,
			Type:        models.TransactionTypeIncome,
			Categories:  &models.CategoryRef{Name: "Salary"},
		}},
		goals: []models.SavingsGoal{{
			ID:            goalID,
			UserID:        userID,
			Name:          "Emergency fund",
			TargetAmount:  "5000",
			CurrentAmount: "1000",
			WillingToAdd:  "200",
		}},
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/graphql/v1":
		f.graphql(w, r)
	case "/auth/v1/token":
		f.token(w, r)
	case "/auth/v1/logout":
		f.mu.Lock()
		f.signOuts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) token(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&creds)
	if creds.Password != "correct horse" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": creds.Email,
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, auth.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        auth.User{ID: userID, Email: creds.Email},
	})
}

func (f *fakeBackend) graphql(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decoding graphql request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	vars := req.Variables

	f.mu.Lock()
	defer f.mu.Unlock()

	switch graphql.OperationName(req.Query) {
	case graphql.OperationName(graphql.GetTransactionsByUser):
		writeData(w, "transactionsCollection", edges(f.transactions))
	case graphql.OperationName(graphql.GetCategories):
		writeData(w, "categoriesCollection", edges([]models.Category{
			{ID: salaryCatID, Name: "Salary", Type: models.CategoryTypeIncome},
			{ID: foodCatID, Name: "Food", Type: models.CategoryTypeExpense},
		}))
	case graphql.OperationName(graphql.AddTransaction):
		tx := models.Transaction{
			ID:          uuid.NewString(),
			Amount:      models.Amount(vars["amount"].(string)),
			Description: vars["description"].(string),
			CreatedAt:   vars["created_at"].(string),
			UserID:      vars["user_id"].(string),
			Type:        models.TransactionType(vars["type"].(string)),
		}
		switch vars["category_id"] {
		case salaryCatID:
			tx.Categories = &models.CategoryRef{Name: "Salary"}
		case foodCatID:
			tx.Categories = &models.CategoryRef{Name: "Food"}
		}
		f.transactions = append(f.transactions, tx)
		writeData(w, "insertIntoTransactionsCollection", mutation(tx))
	case graphql.OperationName(graphql.UpdateTransactionAmount):
		for i := range f.transactions {
			if f.transactions[i].ID == vars["id"] {
				f.transactions[i].Amount = models.Amount(vars["amount"].(string))
				writeData(w, "updateTransactionsCollection", mutation(f.transactions[i]))
				return
			}
		}
		writeData(w, "updateTransactionsCollection", mutation[models.Transaction]())
	case graphql.OperationName(graphql.DeleteTransaction):
		for i, tx := range f.transactions {
			if tx.ID == vars["id"] {
				f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
				writeData(w, "deleteFromTransactionsCollection", mutation(tx))
				return
			}
		}
		writeData(w, "deleteFromTransactionsCollection", mutation[models.Transaction]())
	case graphql.OperationName(graphql.GetSavingsGoalsByUser):
		writeData(w, "savingsCollection", edges(f.goals))
	case graphql.OperationName(graphql.UpdateSavingsGoalAmount):
		if f.failGoalUpdate {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		for i := range f.goals {
			if f.goals[i].ID == vars["id"] {
				f.goals[i].CurrentAmount = models.Amount(vars["amount"].(string))
				writeData(w, "updateSavingsCollection", mutation(f.goals[i]))
				return
			}
		}
		writeData(w, "updateSavingsCollection", mutation[models.SavingsGoal]())
	default:
		writeJSON(w, map[string]any{"errors": []map[string]any{{"message": "unknown operation"}}})
	}
}

func edges[T any](nodes []T) map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{"node": n})
	}
	return map[string]any{"edges": out}
}

func mutation[T any](records ...T) map[string]any {
	if records == nil {
		records = []T{}
	}
	return map[string]any{"affectedCount": len(records), "records": records}
}

func writeData(w http.ResponseWriter, field string, value any) {
	writeJSON(w, map[string]any{"data": map[string]any{field: value}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// --- harness ---

type harness struct {
	t       *testing.T
	router  *gin.Engine
	backend *fakeBackend
}

func newHarness(t *testing.T, loginRate int) *harness {
	backend := newFakeBackend(t)
	upstream := httptest.NewServer(backend)
	t.Cleanup(upstream.Close)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		Env:                "test",
		AuthJWTSecret:      jwtSecret,
		CategoryCacheTTL:   time.Minute,
		SessionTTL:         time.Hour,
		SessionMaxEntries:  10,
		LoginRatePerMinute: loginRate,
		AuditDBDriver:      "sqlite",
	}
	router := NewRouter(cfg, Dependencies{
		GraphQL: graphql.NewClient(upstream.URL+"/graphql/v1", "anon-key", upstream.Client()),
		Auth:    auth.NewClient(upstream.URL+"/auth/v1", "anon-key", upstream.Client()),
		AuditDB: db,
		Now:     func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) },
	})
	return &harness{t: t, router: router, backend: backend}
}

func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login() string {
	h.t.Helper()
	rec := h.do("POST", "/api/v1/auth/login", `{"email":"`+userEmail+`","password":"correct horse"}`, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c.Value
		}
	}
	h.t.Fatal("login set no token cookie")
	return ""
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type snapshotBody struct {
	Summary struct {
		TotalBalance string `json:"total_balance"`
		TotalIncome  string `json:"total_income"`
		TotalExpense string `json:"total_expense"`
	} `json:"summary"`
	IncomeBreakdown  []models.CategoryTotal `json:"income_breakdown"`
	ExpenseBreakdown []models.CategoryTotal `json:"expense_breakdown"`
}

type changeBody struct {
	Transaction models.Transaction `json:"transaction"`
	Snapshot    snapshotBody       `json:"snapshot"`
}

// --- tests ---

func TestRouter_SessionGate(t *testing.T) {
	h := newHarness(t, 10)

	rec := h.do("GET", "/", "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = h.do("GET", "/login", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token := h.login()

	rec = h.do("GET", "/signup", "", token)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = h.do("GET", "/", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var home struct {
		Page  string `json:"page"`
		Email string `json:"email"`
	}
	decode(t, rec, &home)
	assert.Equal(t, "home", home.Page)
	assert.Equal(t, userEmail, home.Email)
}

func TestRouter_RequiresSession(t *testing.T) {
	h := newHarness(t, 10)

	rec := h.do("GET", "/api/v1/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do("GET", "/api/v1/dashboard", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do("GET", "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_InvalidLogin(t *testing.T) {
	h := newHarness(t, 10)

	rec := h.do("POST", "/api/v1/auth/login", `{"email":"`+userEmail+`","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestRouter_LoginRateLimit(t *testing.T) {
	h := newHarness(t, 2)
	body := `{"email":"` + userEmail + `","password":"wrong"}`

	assert.Equal(t, http.StatusUnauthorized, h.do("POST", "/api/v1/auth/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do("POST", "/api/v1/auth/login", body, "").Code)

	rec := h.do("POST", "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRouter_TransactionFlow(t *testing.T) {
	h := newHarness(t, 10)
	token := h.login()

	// Writes need a loaded ledger.
	rec := h.do("GET", "/api/v1/dashboard/summary", "", token)
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = h.do("POST", "/api/v1/transactions", `{"amount":"100","type":"expense","category_id":"`+foodCatID+`"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do("GET", "/api/v1/dashboard", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dashboard snapshotBody
	decode(t, rec, &dashboard)
	assert.Equal(t, "500", dashboard.Summary.TotalBalance)
	require.Len(t, dashboard.IncomeBreakdown, 1)
	assert.Equal(t, "Salary", dashboard.IncomeBreakdown[0].Category)

	rec = h.do("POST", "/api/v1/transactions", `{"amount":"100","type":"expense","category_id":"`+foodCatID+`"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first changeBody
	decode(t, rec, &first)
	assert.Equal(t, "2024-05-20", first.Transaction.CreatedAt)
	assert.Equal(t, "400", first.Snapshot.Summary.TotalBalance)

	rec = h.do("POST", "/api/v1/transactions", `{"amount":250,"type":"expense","category_id":"`+foodCatID+`","created_at":"2024-05-18"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var second changeBody
	decode(t, rec, &second)
	require.Len(t, second.Snapshot.ExpenseBreakdown, 1)
	assert.Equal(t, "Food", second.Snapshot.ExpenseBreakdown[0].Category)
	assert.Equal(t, "350", second.Snapshot.ExpenseBreakdown[0].Amount.String())

	// An expense needs a category once expense categories exist.
	rec = h.do("POST", "/api/v1/transactions", `{"amount":"5","type":"expense"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CATEGORY_REQUIRED")

	rec = h.do("PUT", "/api/v1/transactions/"+first.Transaction.ID, `{"amount":"150"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated changeBody
	decode(t, rec, &updated)
	assert.Equal(t, "400", updated.Snapshot.Summary.TotalExpense)

	rec = h.do("DELETE", "/api/v1/transactions/"+first.Transaction.ID, "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do("GET", "/api/v1/dashboard/summary", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary snapshotBody
	decode(t, rec, &summary)
	assert.Equal(t, "250", summary.Summary.TotalBalance)
	assert.Equal(t, "250", summary.Summary.TotalExpense)

	rec = h.do("GET", "/api/v1/transactions?type=expense", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data       []models.Transaction `json:"data"`
		TotalItems int64                `json:"total_items"`
	}
	decode(t, rec, &page)
	assert.EqualValues(t, 1, page.TotalItems)

	rec = h.do("GET", "/api/v1/transactions?page=4611686018427387904", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page.Data = nil
	decode(t, rec, &page)
	assert.Empty(t, page.Data)

	rec = h.do("DELETE", "/api/v1/transactions/"+first.Transaction.ID, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do("GET", "/api/v1/activity", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var activity struct {
		Data       []models.AuditLog `json:"data"`
		TotalItems int64             `json:"total_items"`
	}
	decode(t, rec, &activity)
	// SIGN_IN, two creates, one update, one delete.
	assert.EqualValues(t, 5, activity.TotalItems)

	rec = h.do("POST", "/api/v1/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.backend.signOuts)

	// The token is still well-formed but its workspace is gone.
	rec = h.do("GET", "/api/v1/dashboard/summary", "", token)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_SavingsTopUp(t *testing.T) {
	h := newHarness(t, 10)
	token := h.login()

	rec := h.do("GET", "/api/v1/savings-goals", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do("POST", "/api/v1/savings-goals/"+goalID+"/top-up", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var goal struct {
		CurrentAmount string  `json:"current_amount"`
		Progress      float64 `json:"progress"`
	}
	decode(t, rec, &goal)
	assert.Equal(t, "1200", goal.CurrentAmount)
	assert.InDelta(t, 24.0, goal.Progress, 1e-9)

	h.backend.mu.Lock()
	h.backend.failGoalUpdate = true
	h.backend.mu.Unlock()

	rec = h.do("POST", "/api/v1/savings-goals/"+goalID+"/top-up", "", token)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = h.do("GET", "/api/v1/savings-goals", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var goals []struct {
		ID            string `json:"id"`
		CurrentAmount string `json:"current_amount"`
	}
	decode(t, rec, &goals)
	require.Len(t, goals, 1)
	assert.Equal(t, "1200", goals[0].CurrentAmount, "failed top-up should be reverted")
}
