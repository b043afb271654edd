package http

import (
	"errors"
	"net/http"

	"marketplace-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const callerKey = "callerId"

// CallerIdentity pulls the authenticated caller's id from the gateway
// header. The services treat an empty id as an auth failure, so public
// routes can share this middleware.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerKey, c.GetHeader("X-User-ID"))
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(callerKey)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
