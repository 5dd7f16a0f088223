package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/seatmap"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindLatest(ctx context.Context, offset, limit int) ([]*entity.Movie, error)
	CountAll(ctx context.Context) (int64, error)

	// UpdateIfVersion writes movie only when the stored version still equals
	// expected, bumping it to expected+1. It reports whether a row matched.
	UpdateIfVersion(ctx context.Context, movie *entity.Movie, expected int) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type movieRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieRepository(db database.Querier, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, description, genre, poster_url, rating, showtime,
		       total_seats, ticket_price, seat_map, version, created_at, updated_at`

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	raw, err := seatmap.Encode(movie.SeatMap)
	if err != nil {
		return fmt.Errorf("encode seat map: %w", err)
	}

	query := `
		INSERT INTO movies (id, title, description, genre, poster_url, rating, showtime,
		                    total_seats, ticket_price, seat_map, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genre,
		movie.PosterURL,
		movie.Rating,
		movie.Showtime,
		movie.TotalSeats,
		movie.TicketPrice,
		string(raw),
		movie.Version,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie %s: %w", movie.Title, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie %s: %w", id, err)
	}

	return movie, nil
}

func (r *movieRepository) FindLatest(ctx context.Context, offset, limit int) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list movies", zap.Error(err))
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie", zap.Error(err))
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

func (r *movieRepository) UpdateIfVersion(ctx context.Context, movie *entity.Movie, expected int) (bool, error) {
	raw, err := seatmap.Encode(movie.SeatMap)
	if err != nil {
		return false, fmt.Errorf("encode seat map: %w", err)
	}

	query := `
		UPDATE movies
		SET title = $1, description = $2, genre = $3, poster_url = $4, rating = $5,
		    showtime = $6, ticket_price = $7, seat_map = $8,
		    version = version + 1, updated_at = $9
		WHERE id = $10 AND version = $11
	`

	result, err := r.db.Exec(ctx, query,
		movie.Title,
		movie.Description,
		movie.Genre,
		movie.PosterURL,
		movie.Rating,
		movie.Showtime,
		movie.TicketPrice,
		string(raw),
		movie.UpdatedAt,
		movie.ID,
		expected,
	)
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
			zap.Int("version", expected),
		)
		return false, fmt.Errorf("update movie %s: %w", movie.ID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check movie %s: %w", id, err)
	}
	return exists, nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var (
		movie entity.Movie
		raw   string
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre,
		&movie.PosterURL,
		&movie.Rating,
		&movie.Showtime,
		&movie.TotalSeats,
		&movie.TicketPrice,
		&raw,
		&movie.Version,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m, err := seatmap.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("movie %s: %w", movie.ID, err)
	}
	movie.SeatMap = m

	return &movie, nil
}
