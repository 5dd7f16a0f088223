package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// public
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/{id}", movieHandler.GetMovieByID)
	r.Get("/api/movies/{id}/seats", movieHandler.GetSeatMap)

	// admin
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", movieHandler.CreateMovie)
		r.Put("/{id}", movieHandler.UpdateMovie)
		r.Delete("/{id}", movieHandler.DeleteMovie)
	})
}
