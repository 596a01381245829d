package wire

import (
	"property-portal/internal/adaptor"
	"property-portal/internal/usecase"
	"property-portal/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	service *usecase.Service,
	log *zap.Logger,
) {
	// Public
	r.Post("/api/login", handler.Auth.Login)

	// Bearer-protected
	bearer := middleware.BearerClaims(service.Token, log)
	r.With(bearer).Get("/api/session", handler.Session.GetSession)
	r.With(bearer).Post("/api/session/refresh", handler.Auth.Refresh)
}
