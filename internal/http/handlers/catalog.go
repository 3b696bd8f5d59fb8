package handlers

import (
	"net/http"

	"onenight_server/internal/domain"

	"github.com/gin-gonic/gin"
)

type RoleEntry struct {
	Role         domain.Role `json:"role"`
	CopyLimit    int         `json:"copy_limit"`
	Instructions string      `json:"instructions,omitempty"`
}

// Roles lists the dealable role catalog in night-order-friendly form so
// lobby UIs can render the picker without hardcoding it.
func (h *Handler) Roles(c *gin.Context) {
	entries := make([]RoleEntry, 0, len(domain.DealableRoles))
	for _, role := range domain.DealableRoles {
		info := domain.Catalog[role]
		entries = append(entries, RoleEntry{
			Role:         role,
			CopyLimit:    info.CopyLimit,
			Instructions: info.Instructions,
		})
	}
	c.JSON(http.StatusOK, gin.H{"roles": entries})
}
