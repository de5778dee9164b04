package services

import (
	"errors"
	"regexp"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/graphql"
	"fintrack/internal/ledger"
	"fintrack/internal/session"
)

// upstreamError classifies a data API failure.
func upstreamError(err error) error {
	var respErr *graphql.ResponseError
	if errors.As(err, &respErr) {
		return apperrors.Wrap(apperrors.ErrUpstreamRejected, err)
	}
	return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
}

// malformed reports an acknowledgment that did not carry the expected record.
func malformed(reason string) error {
	return apperrors.Wrap(apperrors.ErrUpstreamMalformed, errors.New(reason))
}

// localError maps ledger and session errors to their AppError.
func localError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return apperrors.ErrTransactionNotFound
	case errors.Is(err, ledger.ErrGoalNotFound):
		return apperrors.ErrGoalNotFound
	case errors.Is(err, session.ErrNotLoaded):
		return apperrors.ErrSessionNotLoaded
	}
	return err
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validDate reports whether s is a calendar date in YYYY-MM-DD form.
func validDate(s string) bool {
	if !isoDate.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
