package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/internal/seatmap"
	"movie-booking/pkg/lock"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error)
	GetSeatMap(ctx context.Context, movieID string) (*response.SeatMapResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieDetailResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieDetailResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	store  repository.BookingStore
	locker lock.Locker
	config utils.BookingConfig
	log    *zap.Logger
}

func NewMovieService(
	store repository.BookingStore,
	locker lock.Locker,
	config utils.BookingConfig,
	log *zap.Logger,
) MovieService {
	return &movieService{
		store:  store,
		locker: locker,
		config: config,
		log:    log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, total, err := s.store.ListMovies(ctx, req.Offset(), req.Limit())
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get movies: %w", err)
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie)
	}

	return response.NewPaginatedResponse(movieResponses, req.Page, req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error) {
	movie, err := s.loadMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToDetailResponse(movie)
	return &resp, nil
}

func (s *movieService) GetSeatMap(ctx context.Context, movieID string) (*response.SeatMapResponse, error) {
	movie, err := s.loadMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.SeatMapToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieDetailResponse, error) {
	showtime, err := time.Parse(request.ShowtimeLayout, req.Showtime)
	if err != nil {
		return nil, fmt.Errorf("%w: showtime must look like %s", ErrValidation, request.ShowtimeLayout)
	}

	price := s.config.DefaultTicketPrice
	if req.TicketPrice != nil {
		if req.TicketPrice.IsNegative() {
			return nil, fmt.Errorf("%w: ticket price cannot be negative", ErrValidation)
		}
		price = *req.TicketPrice
	}

	seats, err := s.initialSeatMap(req)
	if err != nil {
		return nil, err
	}

	movie := &entity.Movie{
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		PosterURL:   req.PosterURL,
		Rating:      req.Rating,
		Showtime:    showtime,
		TotalSeats:  req.TotalSeats,
		TicketPrice: price,
		SeatMap:     seats,
	}

	if err := s.store.SaveMovie(ctx, movie); err != nil {
		s.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", req.Title),
		)
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.Int("total_seats", movie.TotalSeats),
	)

	resp := response.MovieToDetailResponse(movie)
	return &resp, nil
}

// initialSeatMap generates the grid from the seat count unless the request
// carries an edited map, which then has to agree with that count.
func (s *movieService) initialSeatMap(req *request.MovieRequest) (seatmap.SeatMap, error) {
	if len(req.SeatMap) == 0 {
		return seatmap.Generate(req.TotalSeats, s.config.SeatsPerRow), nil
	}

	m, err := seatmap.Decode(req.SeatMap)
	if err != nil {
		return seatmap.SeatMap{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if m.SeatCount() != req.TotalSeats {
		return seatmap.SeatMap{}, fmt.Errorf("%w: seat map holds %d seats but total_seats is %d",
			ErrValidation, m.SeatCount(), req.TotalSeats)
	}
	return m, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieDetailResponse, error) {
	id, err := parseID("movie", movieID)
	if err != nil {
		return nil, err
	}

	var showtime *time.Time
	if req.Showtime != nil {
		t, err := time.Parse(request.ShowtimeLayout, *req.Showtime)
		if err != nil {
			return nil, fmt.Errorf("%w: showtime must look like %s", ErrValidation, request.ShowtimeLayout)
		}
		showtime = &t
	}
	if req.TicketPrice != nil && req.TicketPrice.IsNegative() {
		return nil, fmt.Errorf("%w: ticket price cannot be negative", ErrValidation)
	}

	var updated *entity.Movie
	err = withMovieLock(ctx, s.locker, id, s.config.MaxRetries, s.log, func() error {
		movie, err := s.store.LoadMovie(ctx, id)
		if err != nil {
			return err
		}

		applyMovieUpdate(movie, req, showtime)

		if err := s.store.SaveMovie(ctx, movie); err != nil {
			return err
		}
		updated = movie
		return nil
	})
	if err != nil {
		s.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", movieID),
		zap.Int("version", updated.Version),
	)

	resp := response.MovieToDetailResponse(updated)
	return &resp, nil
}

// applyMovieUpdate copies the descriptive fields that were sent. The seat map
// is never rebuilt here; it holds sold seats.
func applyMovieUpdate(movie *entity.Movie, req *request.MovieUpdateRequest, showtime *time.Time) {
	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = req.Description
	}
	if req.Genre != nil {
		movie.Genre = req.Genre
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	if req.Rating != nil {
		movie.Rating = req.Rating
	}
	if showtime != nil {
		movie.Showtime = *showtime
	}
	if req.TicketPrice != nil {
		movie.TicketPrice = *req.TicketPrice
	}
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := parseID("movie", movieID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMovie(ctx, id); err != nil {
		s.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}

func (s *movieService) loadMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, err := parseID("movie", movieID)
	if err != nil {
		return nil, err
	}

	movie, err := s.store.LoadMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return movie, nil
}
