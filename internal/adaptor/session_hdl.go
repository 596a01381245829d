package adaptor

import (
	"net/http"

	"property-portal/internal/usecase"
	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

// GetSession handles GET /api/session. The response is the per-request
// projection of the bearer claims over a fresh store read.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	claims := usecase.ClaimsFromContext(r.Context())
	if claims == nil {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	shell := &usecase.SessionView{}
	view, err := h.service.Project(r.Context(), claims, shell)
	if err != nil {
		h.log.Error("Failed to project session", zap.Error(err), zap.String("account_id", claims.Subject))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Session", view)
}
