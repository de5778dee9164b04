// Package auth talks to the hosted GoTrue-compatible auth API and reads the
// session tokens it issues.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned when the auth API rejects an email and
// password pair.
var ErrInvalidCredentials = errors.New("auth: invalid login credentials")

// APIError is a non-2xx answer from the auth API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth: %s (status %d, %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("auth: %s (status %d)", e.Message, e.StatusCode)
}

// User is the identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a signed-in user's tokens.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// MaxAge returns the session lifetime for a cookie.
func (s *Session) MaxAge() time.Duration {
	return time.Duration(s.ExpiresIn) * time.Second
}

// Client calls the auth API at baseURL.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new auth API client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges an email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.post(ctx, "/token?grant_type=password", "", credentials{Email: email, Password: password}, &session)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}
	if session.AccessToken == "" || session.User.ID == "" {
		return nil, fmt.Errorf("auth: sign in returned no session")
	}
	return &session, nil
}

// SignUp registers a new user. When the project requires email confirmation
// the returned session has no access token, only the user.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/signup", "", credentials{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decoding signup response: %w", err)
	}
	if session.User.ID == "" {
		// Unconfirmed signups return the bare user object.
		if err := json.Unmarshal(raw, &session.User); err != nil {
			return nil, fmt.Errorf("decoding signup user: %w", err)
		}
	}
	if session.User.ID == "" {
		return nil, fmt.Errorf("auth: user creation failed")
	}
	return &session, nil
}

// SignOut revokes accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/logout", accessToken, nil, nil)
}

func (c *Client) post(ctx context.Context, path, bearer string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling auth %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding auth %s response: %w", path, err)
	}
	return nil
}

// decodeAPIError reads the error body variants GoTrue has used over time.
func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	apiErr := &APIError{StatusCode: resp.StatusCode, Code: body.ErrorCode}
	if apiErr.Code == "" {
		apiErr.Code = body.Error
	}
	for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
