package middleware

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid operator bearer token. Failures are pushed
// as AppErrors for ErrorHandler to render.
func AuthMiddleware(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			log.Warnw("No bearer token provided", "path", c.Request.URL.Path)
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization required"))
			c.Abort()
			return
		}

		operatorID, err := validator.Validate(token)
		if err != nil {
			log.Warnw("Invalid operator token",
				"error", err,
				"token", logger.MaskJWT(token),
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())

			if errors.Is(err, ErrTokenExpired) {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		c.Set(OperatorIDKey, operatorID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), OperatorContextKey, operatorID))
		log.Debugw("Operator authenticated", "operatorID", operatorID, "path", c.Request.URL.Path)
		c.Next()
	}
}
