package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinisense-api/internal/auth"
	"cinisense-api/internal/config"
	"cinisense-api/internal/gemini"
	"cinisense-api/internal/middleware"
	"cinisense-api/internal/models"
	"cinisense-api/internal/service"
	"cinisense-api/internal/storage"
	"cinisense-api/internal/tmdb"
)

type testEnv struct {
	app   *fiber.App
	store *storage.MemoryStore
}

// newTestEnv builds the full app over the in-memory store, with stub TMDB
// and Gemini backends. The Gemini stub replies with unparsable text, so mood
// detection exercises the default path.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmdbSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genre/movie/list":
			_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
		case "/movie/42":
			_, _ = w.Write([]byte(`{"id":42,"title":"Stub Movie","credits":{"cast":[]},"videos":{"results":[]}}`))
		default:
			_, _ = w.Write([]byte(`{"results":[{"id":550,"title":"Fight Club","vote_average":8.4,"genre_ids":[18]}]}`))
		}
	}))
	t.Cleanup(tmdbSrv.Close)

	geminiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"no json here, sorry"}]}}]}`))
	}))
	t.Cleanup(geminiSrv.Close)

	store := storage.NewMemoryStore()
	jwtManager, err := auth.NewManager(config.AuthConfig{JWTSecret: "handler-test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)

	authH := NewAuthHandler(service.NewAuthService(store, jwtManager))
	movieH := NewMovieHandler(service.NewMovieService(tmdb.NewClient("k", tmdbSrv.URL), store, nil))
	moodH := NewMoodHandler(service.NewMoodService(store, gemini.NewClient("k", geminiSrv.URL)))
	libraryH := NewLibraryHandler(service.NewLibraryService(store))

	app := fiber.New()
	RegisterRoutes(app, authH, movieH, moodH, libraryH, middleware.RequireAuth(jwtManager))

	return &testEnv{app: app, store: store}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) register(t *testing.T, email, password string) models.AuthResponse {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Test User",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[models.AuthResponse](t, resp)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	reg := env.register(t, "a@x.com", "secret1")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.ID)

	// The stored password is hashed, never the plaintext.
	stored, err := env.store.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[models.AuthResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "secret1")

	resp := env.request(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email:    "a@x.com",
		Password: "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Still exactly one user for that email.
	user, err := env.store.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "secret1")

	wrongPassword := env.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})
	unknownEmail := env.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "nobody@x.com",
		Password: "secret1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	bodyA := decode[ErrorResponse](t, wrongPassword)
	bodyB := decode[ErrorResponse](t, unknownEmail)
	assert.Equal(t, bodyA, bodyB, "both failures must have the same shape")
}

func TestAuthRequiredEndpointsReject401(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/watchlist"},
		{http.MethodGet, "/api/ratings"},
		{http.MethodGet, "/api/mood/history"},
		{http.MethodGet, "/api/movies/recommend"},
	} {
		resp := env.request(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)

		resp = env.request(t, tc.method, tc.path, "bogus-token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)
	}
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@x.com", "secret1")

	name := "Renamed"
	resp := env.request(t, http.MethodPut, "/api/auth/profile", reg.Token, models.UpdateProfileRequest{
		Name:           &name,
		FavoriteGenres: []string{"28", "35"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.UserSummary](t, resp)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"28", "35"}, updated.FavoriteGenres)

	resp = env.request(t, http.MethodGet, "/api/auth/profile", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[models.UserSummary](t, resp)
	assert.Equal(t, "Renamed", profile.Name)
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestWatchlistEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@x.com", "secret1")

	resp := env.request(t, http.MethodPost, "/api/watchlist", reg.Token, models.AddWatchlistRequest{MovieID: 550})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[models.WatchlistItem](t, resp)
	assert.Equal(t, 550, item.MovieID)

	// Duplicate add is rejected.
	resp = env.request(t, http.MethodPost, "/api/watchlist", reg.Token, models.AddWatchlistRequest{MovieID: 550})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/watchlist", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]models.WatchlistItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, 550, items[0].MovieID)

	resp = env.request(t, http.MethodGet, "/api/watchlist/check/550", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	check := decode[map[string]bool](t, resp)
	assert.True(t, check["inWatchlist"])

	resp = env.request(t, http.MethodDelete, "/api/watchlist/550", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/watchlist", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items = decode[[]models.WatchlistItem](t, resp)
	assert.Empty(t, items)

	// Removing again yields 404.
	resp = env.request(t, http.MethodDelete, "/api/watchlist/550", reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatingValidationAndUpsert(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@x.com", "secret1")

	// Out-of-range rating is rejected and nothing is stored.
	resp := env.request(t, http.MethodPost, "/api/ratings", reg.Token, models.AddRatingRequest{MovieID: 27205, Rating: 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/ratings", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ratings := decode[[]models.Rating](t, resp)
	assert.Empty(t, ratings)

	resp = env.request(t, http.MethodPost, "/api/ratings", reg.Token, models.AddRatingRequest{MovieID: 27205, Rating: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[models.Rating](t, resp)

	resp = env.request(t, http.MethodPost, "/api/ratings", reg.Token, models.AddRatingRequest{MovieID: 27205, Rating: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[models.Rating](t, resp)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)

	resp = env.request(t, http.MethodGet, "/api/ratings/27205", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Rating](t, resp)
	assert.Equal(t, 5, got.Rating)

	// Unrated movie returns null.
	resp = env.request(t, http.MethodGet, "/api/ratings/550", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", string(bytes.TrimSpace(body)))
}

func TestMoodEndpoints(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@x.com", "secret1")

	// Unknown label is rejected.
	resp := env.request(t, http.MethodPost, "/api/mood", reg.Token, models.AddMoodRequest{Mood: "Confused"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/mood", reg.Token, models.AddMoodRequest{Mood: "Sad"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	event := decode[models.MoodEvent](t, resp)
	assert.Equal(t, "Sad", event.Mood)

	// The Gemini stub replies without JSON, so detection falls back to
	// Happy/50 and the event is still recorded.
	resp = env.request(t, http.MethodPost, "/api/mood/detect", reg.Token, models.DetectMoodRequest{Text: "long day"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[models.MoodResult](t, resp)
	assert.Equal(t, "Happy", result.Mood)
	assert.Equal(t, 50, result.Confidence)

	resp = env.request(t, http.MethodGet, "/api/mood/history", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]models.MoodEvent](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, "Happy", history[0].Mood, "detected mood is the most recent event")

	resp = env.request(t, http.MethodGet, "/api/mood/history?limit=1", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history = decode[[]models.MoodEvent](t, resp)
	assert.Len(t, history, 1)

	// Detection without text is a validation error.
	resp = env.request(t, http.MethodPost, "/api/mood/detect", reg.Token, models.DetectMoodRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovieEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/movies/trending", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movies := decode[[]models.Movie](t, resp)
	require.Len(t, movies, 1)
	assert.Equal(t, "Fight Club", movies[0].Title)

	resp = env.request(t, http.MethodGet, "/api/movies/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/movies/search?q=club", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/movies/by-mood", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/movies/by-mood?mood=Happy", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/movies/42", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[models.MovieDetail](t, resp)
	assert.Equal(t, "Stub Movie", detail.Title)

	resp = env.request(t, http.MethodGet, "/api/genres", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	genres := decode[[]models.Genre](t, resp)
	require.Len(t, genres, 1)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestRecommendFallsBackToPopular(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@x.com", "secret1")

	// No favorite genres stored yet: popular fallback.
	resp := env.request(t, http.MethodGet, "/api/movies/recommend", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movies := decode[[]models.Movie](t, resp)
	assert.NotEmpty(t, movies)

	// With genres stored, discovery is used; the stub answers everything.
	name := "x"
	resp = env.request(t, http.MethodPut, "/api/auth/profile", reg.Token, models.UpdateProfileRequest{
		Name:           &name,
		FavoriteGenres: []string{"28"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/movies/recommend", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movies = decode[[]models.Movie](t, resp)
	assert.NotEmpty(t, movies)
}

func TestUpstreamFailureYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	movieH := NewMovieHandler(service.NewMovieService(tmdb.NewClient("k", srv.URL), storage.NewMemoryStore(), nil))
	app := fiber.New()
	app.Get("/api/movies/trending", movieH.Trending)
	app.Get("/api/movies/:id", movieH.Details)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/trending", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movies := decode[[]models.Movie](t, resp)
	assert.Empty(t, movies)

	// Detail fetch against a dead catalog is a 404, not a 500.
	req = httptest.NewRequest(http.MethodGet, "/api/movies/42", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
