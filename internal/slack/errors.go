package slack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// ErrMissingField is returned when a Slack response lacks a field the
// aggregation depends on
var ErrMissingField = errors.New("missing expected field")

// authErrorCodes are Slack API error codes that indicate authentication problems
var authErrorCodes = map[string]string{
	"invalid_auth":     "Authentication token is invalid. Please check SLACK_BOT_TOKEN.",
	"token_expired":    "Authentication token has expired. Please refresh SLACK_BOT_TOKEN (and SLACK_COOKIE for xoxc tokens).",
	"token_revoked":    "Authentication token has been revoked. Please generate new credentials.",
	"account_inactive": "The Slack account is inactive or disabled.",
	"not_authed":       "No authentication token provided. Please set SLACK_BOT_TOKEN.",
	"missing_scope":    "The token lacks a required scope (channels:read, groups:read, users:read, channels:history).",
}

// AuthError represents a Slack authentication error with guidance for resolution
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("SLACK AUTHENTICATION ERROR: %s (code: %s)", e.Message, e.Code)
}

// matchAuthError checks if an error contains an auth error code.
// Returns nil if no auth error is found.
func matchAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	for code, message := range authErrorCodes {
		if strings.Contains(errStr, code) {
			return &AuthError{Code: code, Message: message}
		}
	}
	return nil
}

// WrapError checks for auth errors and returns an enhanced error with logging.
// This should be called at the boundary (MCP layer or command main) to
// provide clear error messages to callers.
func WrapError(logger *zap.Logger, operation string, err error) error {
	if err == nil {
		return nil
	}

	if authErr := matchAuthError(err); authErr != nil {
		logger.Error("Slack authentication failed",
			zap.String("operation", operation),
			zap.String("guidance", authErr.Message),
			zap.Error(err))
		return authErr
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		logger.Warn("Slack rate limit hit",
			zap.String("operation", operation),
			zap.Duration("retry_after", rateErr.RetryAfter))
		return fmt.Errorf("%s: rate limited by Slack, try again in %s: %w", operation, rateErr.RetryAfter, err)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
