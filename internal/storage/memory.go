package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cinisense-api/internal/models"
)

// MemoryStore is the ephemeral in-process backend. All state lives for the
// process lifetime only. A single mutex covers every multi-step sequence, so
// the duplicate-email and upsert checks are atomic under concurrent requests.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	moods     map[string]models.MoodEvent
	watchlist map[string]models.WatchlistItem
	ratings   map[string]models.Rating
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		moods:     make(map[string]models.MoodEvent),
		watchlist: make(map[string]models.WatchlistItem),
		ratings:   make(map[string]models.Rating),
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, email, passwordHash, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   passwordHash,
		Name:           name,
		FavoriteGenres: []string{},
		CreatedAt:      time.Now().UTC(),
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.FavoriteGenres != nil {
		u.FavoriteGenres = upd.FavoriteGenres
	}
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) AddMood(_ context.Context, userID, mood string) (*models.MoodEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.MoodEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      mood,
		Timestamp: time.Now().UTC(),
	}
	s.moods[event.ID] = event
	return &event, nil
}

func (s *MemoryStore) GetUserMoods(_ context.Context, userID string, limit int) ([]models.MoodEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	events := make([]models.MoodEvent, 0)
	for _, m := range s.moods {
		if m.UserID == userID {
			events = append(events, m)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *MemoryStore) AddToWatchlist(_ context.Context, userID string, movieID int) (*models.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.WatchlistItem{
		ID:      uuid.NewString(),
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now().UTC(),
	}
	s.watchlist[item.ID] = item
	return &item, nil
}

func (s *MemoryStore) RemoveFromWatchlist(_ context.Context, userID string, movieID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.watchlist {
		if item.UserID == userID && item.MovieID == movieID {
			delete(s.watchlist, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetWatchlist(_ context.Context, userID string) ([]models.WatchlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.WatchlistItem, 0)
	for _, item := range s.watchlist {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}

func (s *MemoryStore) IsInWatchlist(_ context.Context, userID string, movieID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.watchlist {
		if item.UserID == userID && item.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AddRating(_ context.Context, userID string, movieID, rating int) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Upsert: an existing rating keeps its id, only value and timestamp move.
	for id, r := range s.ratings {
		if r.UserID == userID && r.MovieID == movieID {
			r.Rating = rating
			r.RatedAt = time.Now().UTC()
			s.ratings[id] = r
			return &r, nil
		}
	}

	r := models.Rating{
		ID:      uuid.NewString(),
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		RatedAt: time.Now().UTC(),
	}
	s.ratings[r.ID] = r
	return &r, nil
}

func (s *MemoryStore) GetUserRatings(_ context.Context, userID string) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]models.Rating, 0)
	for _, r := range s.ratings {
		if r.UserID == userID {
			ratings = append(ratings, r)
		}
	}
	return ratings, nil
}

func (s *MemoryStore) GetRating(_ context.Context, userID string, movieID int) (*models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.ratings {
		if r.UserID == userID && r.MovieID == movieID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}
