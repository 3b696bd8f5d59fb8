package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// JoinQR renders a QR code pointing at the join page for a session,
// so the host can put it on a shared screen.
func (h *Handler) JoinQR(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if _, ok := h.Sessions.Get(code); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	joinURL := strings.TrimRight(base, "/") + "/join/" + code

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
