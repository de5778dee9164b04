package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
)

func newServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		handler(w, r, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDo_Success(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request, body request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "anon-key", r.Header.Get("apiKey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, GetTransactionsByUser, body.Query)
		assert.Equal(t, "user-1", body.Variables["user_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"transactionsCollection":{"edges":[
			{"node":{"id":"t1","amount":"500","type":"income","categories":{"name":"Salary"}}},
			{"node":{"id":"t2","amount":"20","type":"expense","categories":null}}
		]}}}`))
	})

	c := NewClient(server.URL, "anon-key", server.Client())
	var out struct {
		TransactionsCollection models.Collection[models.Transaction] `json:"transactionsCollection"`
	}
	err := c.Do(context.Background(), GetTransactionsByUser, map[string]any{"user_id": "user-1"}, &out)
	require.NoError(t, err)

	nodes := out.TransactionsCollection.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Salary", nodes[0].CategoryName())
	assert.Equal(t, models.Uncategorized, nodes[1].CategoryName())
}

func TestDo_NonOKStatus(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, _ *http.Request, _ request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := NewClient(server.URL, "anon-key", server.Client())
	err := c.Do(context.Background(), GetCategories, nil, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestDo_ResponseErrors(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, _ *http.Request, _ request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Invalid input for UUID type"},{"message":"second"}]}`))
	})

	c := NewClient(server.URL, "anon-key", server.Client())
	err := c.Do(context.Background(), DeleteTransaction, map[string]any{"id": "nope"}, &struct{}{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTransport)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "DeleteTransactions", respErr.Operation)
	require.Len(t, respErr.Errors, 2)
	assert.Equal(t, "Invalid input for UUID type", respErr.Errors[0].Message)
	assert.Contains(t, err.Error(), "Invalid input for UUID type; second")
}

func TestDo_MissingData(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, _ *http.Request, _ request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})

	c := NewClient(server.URL, "anon-key", server.Client())
	err := c.Do(context.Background(), GetCategories, nil, &struct{}{})
	assert.ErrorIs(t, err, ErrTransport)

	assert.NoError(t, c.Do(context.Background(), GetCategories, nil, nil), "nil out ignores data")
}

func TestDo_MalformedBody(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, _ *http.Request, _ request) {
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	c := NewClient(server.URL, "anon-key", server.Client())
	err := c.Do(context.Background(), GetCategories, nil, &struct{}{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDo_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(url, "anon-key", nil)
	err := c.Do(context.Background(), GetCategories, nil, &struct{}{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDo_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(server.URL, "anon-key", server.Client())
	err := c.Do(ctx, GetCategories, nil, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{doc: GetTransactionsByUser, want: "GetTransactionsWithCategoriesByUserId"},
		{doc: AddTransaction, want: "AddTransactions"},
		{doc: UpdateSavingsGoalAmount, want: "UpdateSavingsGoals"},
		{doc: DeleteSavingsGoal, want: "DeleteSavingsGoal"},
		{doc: "{ categoriesCollection { edges { node { id } } } }", want: "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OperationName(tt.doc))
		})
	}
}
