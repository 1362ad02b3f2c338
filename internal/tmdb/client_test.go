package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinisense-api/internal/models"
)

func newTestServer(t *testing.T, routes map[string]any) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, NewClient("test-key", srv.URL)
}

func TestListEndpoints(t *testing.T) {
	movies := []models.Movie{
		{ID: 550, Title: "Fight Club", VoteAverage: 8.4, GenreIDs: []int{18}},
	}
	_, client := newTestServer(t, map[string]any{
		"/trending/movie/week": listResponse{Results: movies},
		"/movie/popular":       listResponse{Results: movies},
		"/movie/top_rated":     listResponse{Results: movies},
		"/search/movie":        listResponse{Results: movies},
	})

	ctx := context.Background()
	for name, fetch := range map[string]func() ([]models.Movie, error){
		"trending":  func() ([]models.Movie, error) { return client.Trending(ctx) },
		"popular":   func() ([]models.Movie, error) { return client.Popular(ctx) },
		"top rated": func() ([]models.Movie, error) { return client.TopRated(ctx) },
		"search":    func() ([]models.Movie, error) { return client.Search(ctx, "fight club") },
	} {
		got, err := fetch()
		require.NoError(t, err, name)
		require.Len(t, got, 1, name)
		assert.Equal(t, "Fight Club", got[0].Title, name)
	}
}

func TestByMoodUsesGenreMapping(t *testing.T) {
	var discoverGenres string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			discoverGenres = r.URL.Query().Get("with_genres")
			_ = json.NewEncoder(w).Encode(listResponse{Results: []models.Movie{{ID: 1}}})
		case "/trending/movie/week":
			_ = json.NewEncoder(w).Encode(listResponse{Results: []models.Movie{{ID: 2}}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	client := NewClient("k", srv.URL)
	ctx := context.Background()

	got, err := client.ByMood(ctx, "Adventurous")
	require.NoError(t, err)
	assert.Equal(t, "12,28,878", discoverGenres)
	assert.Equal(t, 1, got[0].ID)

	// An unmapped mood falls back to trending.
	got, err = client.ByMood(ctx, "Confused")
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].ID)
}

func TestByGenresEmptyFallsBackToPopular(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/movie/popular": listResponse{Results: []models.Movie{{ID: 7}}},
	})

	got, err := client.ByGenres(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
}

func TestDetailsIncludesCreditsAndVideos(t *testing.T) {
	var appended string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appended = r.URL.Query().Get("append_to_response")
		_ = json.NewEncoder(w).Encode(models.MovieDetail{
			ID:    550,
			Title: "Fight Club",
			Credits: models.Credits{
				Cast: []models.CastMember{{Name: "Edward Norton", Character: "The Narrator"}},
			},
			Videos: models.Videos{
				Results: []models.Video{{Key: "abc", Site: "YouTube", Type: "Trailer"}},
			},
		})
	}))
	defer srv.Close()
	client := NewClient("k", srv.URL)

	detail, err := client.Details(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "credits,videos", appended)
	assert.Equal(t, "Fight Club", detail.Title)
	require.Len(t, detail.Credits.Cast, 1)
	assert.Equal(t, "The Narrator", detail.Credits.Cast[0].Character)
	require.Len(t, detail.Videos.Results, 1)
}

func TestGenres(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/genre/movie/list": genreListResponse{Genres: []models.Genre{{ID: 28, Name: "Action"}}},
	})

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()
	client := NewClient("k", srv.URL)

	_, err := client.Trending(context.Background())
	assert.Error(t, err)

	_, err = client.Details(context.Background(), 550)
	assert.Error(t, err)
}

func TestNullResultsNormalizedToEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": null}`))
	}))
	defer srv.Close()
	client := NewClient("k", srv.URL)

	got, err := client.Popular(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
