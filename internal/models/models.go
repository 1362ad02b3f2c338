package models

import "time"

// User represents a registered user. The password hash is never serialized.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MoodEvent is an append-only record of a user's mood at a point in time.
type MoodEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

// WatchlistItem links a user to a movie they want to watch.
type WatchlistItem struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	MovieID int       `json:"movieId"`
	AddedAt time.Time `json:"addedAt"`
}

// Rating is a user's 1-5 score for a movie. One rating per (user, movie).
type Rating struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	MovieID int       `json:"movieId"`
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"ratedAt"`
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name           *string
	FavoriteGenres []string
}

// Valid mood labels, the closed set driving recommendation filtering.
var ValidMoods = map[string]bool{
	"Happy":       true,
	"Sad":         true,
	"Romantic":    true,
	"Adventurous": true,
	"Angry":       true,
	"Relaxed":     true,
}

// ---- Request bodies ----

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Name           *string  `json:"name"`
	FavoriteGenres []string `json:"favoriteGenres"`
}

// DetectMoodRequest is the request body for AI mood detection.
type DetectMoodRequest struct {
	Text string `json:"text"`
}

// AddMoodRequest is the request body for manually logging a mood.
type AddMoodRequest struct {
	Mood string `json:"mood"`
}

// AddWatchlistRequest is the request body for adding a movie to the watchlist.
type AddWatchlistRequest struct {
	MovieID int `json:"movieId"`
}

// AddRatingRequest is the request body for rating a movie.
type AddRatingRequest struct {
	MovieID int `json:"movieId"`
	Rating  int `json:"rating"`
}

// ---- Response shapes ----

// UserSummary is the user shape returned by auth endpoints.
type UserSummary struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

// MoodResult is the mood inference outcome.
type MoodResult struct {
	Mood       string `json:"mood"`
	Confidence int    `json:"confidence"`
}
