package handlers

import (
	"onenight_server/internal/registry"
)

// Handler carries the shared dependencies of the REST endpoints.
type Handler struct {
	Sessions *registry.Registry
}

func NewHandler(sessions *registry.Registry) *Handler {
	return &Handler{Sessions: sessions}
}
