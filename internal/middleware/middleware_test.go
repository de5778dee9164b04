package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	claims := &auth.Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func TestSessionAuth(t *testing.T) {
	valid := signedToken(t, "user-1", time.Now().Add(time.Hour))
	expired := signedToken(t, "user-1", time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantUser   string
	}{
		{name: "cookie", setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: valid}) }, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "missing", setup: func(*http.Request) {}, wantStatus: http.StatusUnauthorized},
		{name: "expired", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }, wantStatus: http.StatusUnauthorized},
		{name: "malformed_header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Token "+valid) }, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			var gotUser, gotToken string
			r.GET("/x", SessionAuth(testSecret), func(c *gin.Context) {
				gotUser = c.GetString(UserIDKey)
				gotToken = c.GetString(SessionTokenKey)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if code := errorCode(t, w); code != "UNAUTHORIZED" {
					t.Errorf("code = %q, want UNAUTHORIZED", code)
				}
				return
			}
			if gotUser != tt.wantUser || gotToken != valid {
				t.Errorf("context user=%q token set=%v", gotUser, gotToken == valid)
			}
		})
	}
}

func TestSessionGate(t *testing.T) {
	valid := signedToken(t, "user-1", time.Now().Add(time.Hour))

	tests := []struct {
		name         string
		path         string
		token        string
		wantStatus   int
		wantLocation string
	}{
		{name: "anonymous_home", path: "/", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "anonymous_savings", path: "/savings", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "anonymous_login", path: "/login", wantStatus: http.StatusOK},
		{name: "anonymous_signup", path: "/signup", wantStatus: http.StatusOK},
		{name: "signed_in_home", path: "/", token: valid, wantStatus: http.StatusOK},
		{name: "signed_in_login", path: "/login", token: valid, wantStatus: http.StatusFound, wantLocation: "/"},
		{name: "signed_in_signup", path: "/signup", token: valid, wantStatus: http.StatusFound, wantLocation: "/"},
		{name: "garbage_token_home", path: "/", token: "garbage", wantStatus: http.StatusFound, wantLocation: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			gate := SessionGate(testSecret)
			ok := func(c *gin.Context) { c.Status(http.StatusOK) }
			for _, p := range []string{"/", "/savings", "/login", "/signup"} {
				r.GET(p, gate, ok)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.token})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if loc := w.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && errorCode(t, w) != "RATE_LIMITED" {
			t.Errorf("unexpected error code for limited request")
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", w.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app_error", err: apperrors.ErrGoalNotFound, wantStatus: http.StatusNotFound, wantCode: "GOAL_NOT_FOUND"},
		{name: "wrapped_app_error", err: apperrors.Wrap(apperrors.ErrUpstreamUnavailable, errors.New("dial")), wantStatus: http.StatusBadGateway, wantCode: "UPSTREAM_UNAVAILABLE"},
		{name: "plain_error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if code := errorCode(t, w); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID")
	}

	const incoming = "0190a8a8-0000-7000-8000-000000000001"
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("X-Request-ID = %q, want %q", got, incoming)
	}
}
