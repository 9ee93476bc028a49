package middleware

import (
	"net/http"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body written for errors pushed with c.Error on
// operator routes.
type ErrorResponse struct {
	Type    string      `json:"type"`
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
	Code    string      `json:"code,omitempty"`
}

// ErrorHandler renders the last error attached to the context once the
// handler chain has finished. Nothing is written if a response already went out.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		if appErr, ok := apperrors.As(err); ok {
			status := appErr.GetHTTPStatus()
			if status >= http.StatusInternalServerError {
				logger.LogHTTPError(c, err, status, "Request failed")
			} else {
				logger.GetLogger().Infow("Request rejected",
					"type", appErr.Type,
					"status", status,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(RequestIDKey))
			}

			var details interface{}
			switch {
			case appErr.Fields != nil:
				details = appErr.Fields
			case appErr.Detail != "":
				details = appErr.Detail
			}
			c.JSON(status, ErrorResponse{
				Type:    string(appErr.Type),
				Error:   appErr.Message,
				Details: details,
				Code:    appErr.Code,
			})
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Type:    string(apperrors.ValidationError),
				Error:   "Failed to bind request",
				Details: err.Error(),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		resp := ErrorResponse{
			Type:  string(apperrors.ServerError),
			Error: "Internal Server Error",
		}
		if gin.IsDebugging() {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
