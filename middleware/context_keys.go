package middleware

import (
	"context"

	"github.com/NomadCrew/contact-intake/logger"
)

// contextKey defines a type for request context keys to avoid collisions.
type contextKey string

// OperatorContextKey holds the authenticated operator's subject on the
// request context, for code that only sees a context.Context.
const OperatorContextKey contextKey = "operatorID"

// Keys used with gin.Context.Set. They match the names the logger reads.
const (
	RequestIDKey  = logger.RequestIDKey
	OperatorIDKey = logger.OperatorIDKey
)

// OperatorIDFromContext returns the operator subject stored by AuthMiddleware.
func OperatorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OperatorContextKey).(string)
	return id, ok && id != ""
}
