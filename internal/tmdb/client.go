// Package tmdb wraps the TMDB HTTP API and normalizes results to the flat
// movie record the rest of the application works with.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinisense-api/internal/models"
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// moodGenres maps each mood label to the TMDB genre ids used for discovery.
var moodGenres = map[string][]int{
	"Happy":       {35, 10751, 16},
	"Sad":         {18, 10749},
	"Romantic":    {10749, 35},
	"Adventurous": {12, 28, 878},
	"Angry":       {28, 53, 80},
	"Relaxed":     {99, 10402, 10770},
}

// listResponse is the shared shape of TMDB list endpoints.
type listResponse struct {
	Results []models.Movie `json:"results"`
}

type genreListResponse struct {
	Genres []models.Genre `json:"genres"`
}

// Trending fetches this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]models.Movie, error) {
	return c.list(ctx, "/trending/movie/week", nil)
}

// Popular fetches the current popular movies.
func (c *Client) Popular(ctx context.Context) ([]models.Movie, error) {
	return c.list(ctx, "/movie/popular", nil)
}

// TopRated fetches the top-rated movies.
func (c *Client) TopRated(ctx context.Context) ([]models.Movie, error) {
	return c.list(ctx, "/movie/top_rated", nil)
}

// Search fetches movies matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]models.Movie, error) {
	return c.list(ctx, "/search/movie", url.Values{"query": {query}})
}

// ByMood fetches movies for a mood label via its genre mapping. An unmapped
// mood falls back to trending.
func (c *Client) ByMood(ctx context.Context, mood string) ([]models.Movie, error) {
	genreIDs, ok := moodGenres[mood]
	if !ok || len(genreIDs) == 0 {
		return c.Trending(ctx)
	}
	return c.discover(ctx, genreIDs)
}

// ByGenres fetches movies matching any of the given genre ids. An empty list
// falls back to popular.
func (c *Client) ByGenres(ctx context.Context, genreIDs []int) ([]models.Movie, error) {
	if len(genreIDs) == 0 {
		return c.Popular(ctx)
	}
	return c.discover(ctx, genreIDs)
}

func (c *Client) discover(ctx context.Context, genreIDs []int) ([]models.Movie, error) {
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	return c.list(ctx, "/discover/movie", url.Values{
		"with_genres": {strings.Join(ids, ",")},
		"sort_by":     {"popularity.desc"},
	})
}

// Details fetches detailed movie info including cast, crew and videos.
func (c *Client) Details(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	u := c.buildURL(fmt.Sprintf("/movie/%d", movieID), url.Values{
		"append_to_response": {"credits,videos"},
	})

	slog.Debug("fetching TMDB movie detail", "movie_id", movieID)
	body, err := c.doGet(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var detail models.MovieDetail
	if err := json.NewDecoder(body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode movie detail response: %w", err)
	}
	return &detail, nil
}

// Genres fetches the full TMDB movie genre list.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	u := c.buildURL("/genre/movie/list", nil)

	slog.Debug("fetching TMDB genres")
	body, err := c.doGet(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result genreListResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode genres response: %w", err)
	}
	return result.Genres, nil
}

func (c *Client) list(ctx context.Context, path string, params url.Values) ([]models.Movie, error) {
	u := c.buildURL(path, params)

	slog.Debug("fetching TMDB list", "path", path)
	body, err := c.doGet(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var result listResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	if result.Results == nil {
		result.Results = []models.Movie{}
	}
	return result.Results, nil
}

func (c *Client) buildURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	return c.baseURL + path + "?" + params.Encode()
}

func (c *Client) doGet(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}
