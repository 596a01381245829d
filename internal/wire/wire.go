package wire

import (
	"net/http"

	"property-portal/internal/adaptor"
	"property-portal/internal/data/repository"
	"property-portal/internal/usecase"
	"property-portal/pkg/gateway"
	"property-portal/pkg/middleware"
	"property-portal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring constructs the service graph once at process start: store, gateway
// and token dependencies are injected here, nowhere else.
func Wiring(repo *repository.Repository, otp gateway.OTPVerifier, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, otp, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireAuth(r, handler, service, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
