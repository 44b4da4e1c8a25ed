package api

import (
	"go.uber.org/zap"

	"repair-shop-backend/config"
	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	auth    *auth.Service
	authCfg config.AuthConfig
	log     *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, authSvc *auth.Service, authCfg config.AuthConfig, log *zap.Logger) *Handler {
	return &Handler{
		store:   s,
		auth:    authSvc,
		authCfg: authCfg,
		log:     log,
	}
}
