package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"onenight_server/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Name string `json:"name"`
}

// Auth issues a websocket token for a display name. Names are the
// player identity for the whole session, so empty and oversized ones
// are rejected up front.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if utf8.RuneCountInString(name) > 24 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name too long"})
		return
	}

	token, err := service.GenerateJWT(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"name":  name,
	})
}
