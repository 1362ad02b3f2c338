package service

import (
	"context"
	"errors"
	"fmt"

	"cinisense-api/internal/gemini"
	"cinisense-api/internal/models"
	"cinisense-api/internal/storage"
)

// ErrUnknownMood is returned when a mood label is not in the valid set.
var ErrUnknownMood = errors.New("unknown mood label")

// MoodService handles mood detection and the mood history.
type MoodService struct {
	store  storage.Store
	gemini *gemini.Client
}

// NewMoodService creates a new MoodService.
func NewMoodService(store storage.Store, geminiClient *gemini.Client) *MoodService {
	return &MoodService{store: store, gemini: geminiClient}
}

// Detect infers the caller's mood from free text and records it as a mood
// event. Inference never fails outward; the default result is still recorded.
func (s *MoodService) Detect(ctx context.Context, userID, text string) (*models.MoodResult, error) {
	result := s.gemini.DetectMood(ctx, text)
	if _, err := s.store.AddMood(ctx, userID, result.Mood); err != nil {
		return nil, fmt.Errorf("failed to record mood: %w", err)
	}
	return &result, nil
}

// Add records a manually selected mood after validating the label.
func (s *MoodService) Add(ctx context.Context, userID, mood string) (*models.MoodEvent, error) {
	if !models.ValidMoods[mood] {
		return nil, ErrUnknownMood
	}
	return s.store.AddMood(ctx, userID, mood)
}

// History returns the caller's most recent mood events, newest first.
func (s *MoodService) History(ctx context.Context, userID string, limit int) ([]models.MoodEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.GetUserMoods(ctx, userID, limit)
}
