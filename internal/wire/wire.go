package wire

import (
	"net/http"

	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP entry point.
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers and mounts every route.
func Wiring(repo *repository.Repository, locker lock.Locker, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, locker, config, logger)
	handler := adaptor.NewHandler(service, logger)
	handler.Movie.WithLatestMovies(config.Booking.LatestMovies)

	return &App{
		Router: setupRouter(handler, repo, logger),
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireMovie(r, handler.Movie, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wirePayment(r, handler.Payment, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
