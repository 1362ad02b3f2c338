package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"cinisense-api/internal/models"
	"cinisense-api/internal/storage"
	"cinisense-api/internal/tmdb"
)

const (
	movieListCacheTTL = 5 * time.Minute
	genreCacheTTL     = 24 * time.Hour
)

// MovieService fronts the TMDB client. Upstream failures on list endpoints
// are absorbed into empty results so the UI degrades instead of erroring;
// they stay visible in the logs.
type MovieService struct {
	tmdbClient *tmdb.Client
	store      storage.Store
	redis      *redis.Client
}

// NewMovieService creates a new MovieService.
func NewMovieService(tmdbClient *tmdb.Client, store storage.Store, rdb *redis.Client) *MovieService {
	return &MovieService{
		tmdbClient: tmdbClient,
		store:      store,
		redis:      rdb,
	}
}

// Trending returns this week's trending movies.
func (s *MovieService) Trending(ctx context.Context) []models.Movie {
	return s.cachedList(ctx, "movies:trending", func() ([]models.Movie, error) {
		return s.tmdbClient.Trending(ctx)
	})
}

// Popular returns the current popular movies.
func (s *MovieService) Popular(ctx context.Context) []models.Movie {
	return s.cachedList(ctx, "movies:popular", func() ([]models.Movie, error) {
		return s.tmdbClient.Popular(ctx)
	})
}

// TopRated returns the top-rated movies.
func (s *MovieService) TopRated(ctx context.Context) []models.Movie {
	return s.cachedList(ctx, "movies:top_rated", func() ([]models.Movie, error) {
		return s.tmdbClient.TopRated(ctx)
	})
}

// Search returns movies matching the query. Not cached: queries are
// high-cardinality.
func (s *MovieService) Search(ctx context.Context, query string) []models.Movie {
	return s.absorb(s.tmdbClient.Search(ctx, query))
}

// ByMood returns movies for a mood label.
func (s *MovieService) ByMood(ctx context.Context, mood string) []models.Movie {
	return s.absorb(s.tmdbClient.ByMood(ctx, mood))
}

// Recommend returns movies matching the user's favorite genres, falling back
// to popular when none are stored.
func (s *MovieService) Recommend(ctx context.Context, userID string) ([]models.Movie, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.Popular(ctx), nil
		}
		return nil, err
	}

	genreIDs := make([]int, 0, len(user.FavoriteGenres))
	for _, g := range user.FavoriteGenres {
		if id, err := strconv.Atoi(g); err == nil {
			genreIDs = append(genreIDs, id)
		}
	}
	if len(genreIDs) == 0 {
		return s.Popular(ctx), nil
	}

	return s.absorb(s.tmdbClient.ByGenres(ctx, genreIDs)), nil
}

// Details returns detailed info for one movie, or nil when the movie is
// unknown or the catalog is unreachable.
func (s *MovieService) Details(ctx context.Context, movieID int) *models.MovieDetail {
	detail, err := s.tmdbClient.Details(ctx, movieID)
	if err != nil {
		slog.Warn("movie detail unavailable", "movie_id", movieID, "error", err)
		return nil
	}
	return detail
}

// Genres returns the full genre list.
func (s *MovieService) Genres(ctx context.Context) []models.Genre {
	cacheKey := "movies:genres"
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var genres []models.Genre
		if json.Unmarshal([]byte(cached), &genres) == nil {
			return genres
		}
	}

	genres, err := s.tmdbClient.Genres(ctx)
	if err != nil {
		slog.Warn("genre list unavailable", "error", err)
		return []models.Genre{}
	}

	if data, err := json.Marshal(genres); err == nil {
		s.setCache(ctx, cacheKey, string(data), genreCacheTTL)
	}
	return genres
}

// cachedList serves a list endpoint through the Redis cache-aside path.
func (s *MovieService) cachedList(ctx context.Context, cacheKey string, fetch func() ([]models.Movie, error)) []models.Movie {
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var movies []models.Movie
		if json.Unmarshal([]byte(cached), &movies) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return movies
		}
	}

	movies := s.absorb(fetch())
	if len(movies) > 0 {
		if data, err := json.Marshal(movies); err == nil {
			s.setCache(ctx, cacheKey, string(data), movieListCacheTTL)
		}
	}
	return movies
}

// absorb converts an upstream failure into an empty list, logging the cause.
func (s *MovieService) absorb(movies []models.Movie, err error) []models.Movie {
	if err != nil {
		slog.Warn("catalog request failed, returning empty list", "error", err)
		return []models.Movie{}
	}
	if movies == nil {
		return []models.Movie{}
	}
	return movies
}

// ---- Redis Helpers ----

func (s *MovieService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *MovieService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
