package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"userprofile-backend/internal/common/errors"
	"userprofile-backend/internal/common/logger"
)

// ErrorResponse is the body returned for every non-2xx response.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

// RequestID assigns each request an id, reusing X-Request-ID when the
// caller provides one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler turns errors attached to the gin context into the JSON
// error body. Handlers record failures with c.Error and return; the
// translation to a status code happens only here.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Unexpected error")
		}

		sendError(c, appErr)
	}
}

// Recovery converts panics into a 500 response with the standard body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		sendError(c, errors.New(errors.ErrCodeInternal, "Internal server error"))
	})
}

func sendError(c *gin.Context, appErr *errors.AppError) {
	status := httpStatus(appErr)

	logEvent := logger.Info
	if appErr.IsInternal() {
		logEvent = logger.Error
	}
	logEvent().
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Err(appErr).
		Msg("Request failed")

	// Message holds only what the component chose to expose; causes
	// (driver errors, crypto errors) stay in the logs.
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     categoryFor(status),
		Message:   appErr.Message,
	})
}

func httpStatus(appErr *errors.AppError) int {
	switch {
	case appErr.IsNotFound():
		return http.StatusNotFound
	case appErr.IsAlreadyExists(), appErr.Code == errors.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func categoryFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "User Profile Not Found"
	case http.StatusBadRequest:
		return "Bad Request: user already exists"
	default:
		return "Internal Server Error"
	}
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
