package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	tokenIDKey   contextKey = "tokenID"
	requestIDKey contextKey = "requestID"
	logUserKey   contextKey = "logUser"
)

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// TokenIDFrom retrieves the access token ID (jti) from the request context.
func TokenIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(tokenIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context carrying the authenticated user and token ID.
// The user is also reported to an enclosing access log.
func ContextWithUser(ctx context.Context, userID, tokenID string) context.Context {
	if slot, ok := ctx.Value(logUserKey).(*string); ok {
		*slot = userID
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func contextWithLogUser(ctx context.Context, slot *string) context.Context {
	return context.WithValue(ctx, logUserKey, slot)
}
