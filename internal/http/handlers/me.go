package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me echoes the identity carried by the auth token, so clients can
// validate a stored token before opening the websocket.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": c.GetString("name")})
}
