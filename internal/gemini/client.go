// Package gemini infers a mood label from free text via the Gemini
// generateContent API. Every failure path degrades to a default result, so
// callers always receive a usable mood.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cinisense-api/internal/models"
)

// Defaults returned when the upstream reply is missing or unparsable.
const (
	defaultMood           = "Happy"
	defaultConfidence     = 50
	missingMoodConfidence = 75
)

// Client is the Gemini API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Gemini API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

const promptTemplate = `Analyze the following text and determine the person's mood. Choose ONE mood from this list: Happy, Sad, Romantic, Adventurous, Angry, Relaxed.

Also provide a confidence score from 0 to 100.

Respond in this exact JSON format:
{
  "mood": "one of: Happy, Sad, Romantic, Adventurous, Angry, Relaxed",
  "confidence": number between 0-100
}

Text to analyze:
%q`

// ---- Gemini request/response shapes ----

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type moodReply struct {
	Mood       string `json:"mood"`
	Confidence int    `json:"confidence"`
}

// DetectMood asks Gemini for the mood behind the given text. It never
// returns an error: transport or parsing failures yield Happy/50, a reply
// that parses but lacks a mood field yields Happy/75, and confidence is
// always clamped into [0,100].
func (c *Client) DetectMood(ctx context.Context, text string) models.MoodResult {
	generated, err := c.generate(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		slog.Warn("mood detection failed, using default", "error", err)
		return models.MoodResult{Mood: defaultMood, Confidence: defaultConfidence}
	}

	raw, ok := extractJSONObject(generated)
	if !ok {
		return models.MoodResult{Mood: defaultMood, Confidence: defaultConfidence}
	}

	var reply moodReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		slog.Warn("unparsable mood reply, using default", "error", err)
		return models.MoodResult{Mood: defaultMood, Confidence: defaultConfidence}
	}

	result := models.MoodResult{Mood: reply.Mood, Confidence: reply.Confidence}
	if result.Mood == "" {
		result.Mood = defaultMood
		result.Confidence = missingMoodConfidence
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}
	return result
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	u := c.baseURL + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty Gemini response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSONObject finds the first {...} substring in generated text,
// tolerating commentary around it.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
