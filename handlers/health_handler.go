package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /check/health.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}
