package handlers

import (
	"net/http"
	"strings"

	"onenight_server/internal/domain"

	"github.com/gin-gonic/gin"
)

type SessionInfo struct {
	Code          string       `json:"code"`
	Host          string       `json:"host"`
	Phase         domain.Phase `json:"phase"`
	PlayerCount   int          `json:"player_count"`
	ExpectedCount int          `json:"expected_count"`
}

// SessionStatus exposes the public lobby state of one session, used by
// the join page to show whether a code is still open.
func (h *Handler) SessionStatus(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	s, ok := h.Sessions.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	s.Lock()
	info := SessionInfo{
		Code:          s.Code(),
		Host:          s.HostName(),
		Phase:         s.Phase(),
		PlayerCount:   s.PlayerCount(),
		ExpectedCount: s.ExpectedCount(),
	}
	s.Unlock()

	c.JSON(http.StatusOK, info)
}
