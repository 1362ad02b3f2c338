package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cinisense-api/internal/models"
)

// PostgresStore is the durable backend. Uniqueness (email, one watchlist
// entry and one rating per user/movie pair) is enforced by constraints, and
// the rating upsert runs as a single ON CONFLICT statement.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, favorite_genres, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, favorite_genres, created_at
		FROM users WHERE email = $1
	`, email))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, pq.Array(&u.FavoriteGenres), &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, name, favorite_genres, created_at
	`, uuid.NewString(), email, passwordHash, name).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, pq.Array(&u.FavoriteGenres), &u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			favorite_genres = COALESCE($3, favorite_genres)
		WHERE id = $1
		RETURNING id, email, password_hash, name, favorite_genres, created_at
	`, id, upd.Name, genresParam(upd.FavoriteGenres)).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, pq.Array(&u.FavoriteGenres), &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return &u, nil
}

// genresParam maps a nil slice to SQL NULL so COALESCE keeps the stored value.
func genresParam(genres []string) interface{} {
	if genres == nil {
		return nil
	}
	return pq.Array(genres)
}

func (s *PostgresStore) AddMood(ctx context.Context, userID, mood string) (*models.MoodEvent, error) {
	var e models.MoodEvent
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO mood_events (id, user_id, mood)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, mood, created_at
	`, uuid.NewString(), userID, mood).Scan(&e.ID, &e.UserID, &e.Mood, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to add mood: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) GetUserMoods(ctx context.Context, userID string, limit int) ([]models.MoodEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, mood, created_at
		FROM mood_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moods: %w", err)
	}
	defer rows.Close()

	events := make([]models.MoodEvent, 0)
	for rows.Next() {
		var e models.MoodEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) AddToWatchlist(ctx context.Context, userID string, movieID int) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO watchlist_items (id, user_id, movie_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET movie_id = EXCLUDED.movie_id
		RETURNING id, user_id, movie_id, added_at
	`, uuid.NewString(), userID, movieID).Scan(&item.ID, &item.UserID, &item.MovieID, &item.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) RemoveFromWatchlist(ctx context.Context, userID string, movieID int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist_items WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) GetWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, added_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchlistItem, 0)
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.MovieID, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) IsInWatchlist(ctx context.Context, userID string, movieID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM watchlist_items WHERE user_id = $1 AND movie_id = $2
		)
	`, userID, movieID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) AddRating(ctx context.Context, userID string, movieID, rating int) (*models.Rating, error) {
	// ON CONFLICT keeps the existing row's id; only value and timestamp move.
	var r models.Rating
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ratings (id, user_id, movie_id, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			rated_at = NOW()
		RETURNING id, user_id, movie_id, rating, rated_at
	`, uuid.NewString(), userID, movieID, rating).Scan(
		&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.RatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) GetUserRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, rating, rated_at
		FROM ratings
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.RatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *PostgresStore) GetRating(ctx context.Context, userID string, movieID int) (*models.Rating, error) {
	var r models.Rating
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, movie_id, rating, rated_at
		FROM ratings
		WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.RatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &r, nil
}
