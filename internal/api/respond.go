package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

// fail is the single error-to-status mapping point: validation errors are the
// caller's fault, not-found is 404, anything else is a 500 with the error
// text in the payload.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case engine.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case engine.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	default:
		s.log.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": detail})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}
