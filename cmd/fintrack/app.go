package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/graphql"
	"fintrack/internal/services"
	"fintrack/internal/session"
)

// app is the service graph a single CLI invocation runs against. Each
// invocation starts with an empty session and loads what it needs.
type app struct {
	auth         services.AuthServicer
	transactions services.TransactionServicer
	goals        services.SavingsGoalServicer
	categories   services.CategoryServicer
	jwtSecret    string
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	gql := graphql.NewClient(cfg.GraphQLURL, cfg.GraphQLAPIKey, httpClient)
	sessions := session.NewStore(1, time.Hour, time.Now)
	categories := services.NewCategoryService(gql, cfg.CategoryCacheTTL)

	return &app{
		auth:         services.NewAuthService(auth.NewClient(cfg.AuthURL, cfg.GraphQLAPIKey, httpClient), sessions),
		transactions: services.NewTransactionService(gql, sessions, categories, time.Now),
		goals:        services.NewSavingsGoalService(gql, sessions),
		categories:   categories,
		jwtSecret:    cfg.AuthJWTSecret,
	}, nil
}

// identity resolves the --token flag to a session identity.
func (a *app) identity() (session.Identity, error) {
	if token == "" {
		return session.Identity{}, errors.New("not signed in: run 'fintrack login' and set FINTRACK_TOKEN")
	}
	claims, err := auth.ParseToken(token, a.jwtSecret)
	if err != nil {
		return session.Identity{}, fmt.Errorf("invalid session token: %w", err)
	}
	return session.Identity{Token: token, UserID: claims.UserID()}, nil
}
