package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"wellnest/config"
	"wellnest/models"
)

// Generator produces personalized content for one user profile.
type Generator interface {
	Generate(ctx context.Context, kind string, profile models.ContentProfile) (*models.GeneratedContent, error)
}

// NewGenerator picks the provider from config. Without an API key the
// mock generator is used so the rest of the app keeps working.
func NewGenerator(cfg *config.Config) Generator {
	if cfg.LLMProvider == "mock" || cfg.LLMAPIKey == "" {
		return NewMockGenerator()
	}
	return NewOpenAIGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
}

// ============================================================================
// OPENAI-COMPATIBLE PROVIDER
// ============================================================================

// OpenAIGenerator talks to any chat-completions compatible endpoint.
type OpenAIGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIGenerator(baseURL, apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, kind string, profile models.ContentProfile) (*models.GeneratedContent, error) {
	system, user := buildPrompt(kind, profile)

	payload := chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.8,
		MaxTokens:   400,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content provider returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("content provider response unreadable: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("content provider error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("content provider returned no choices")
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("content provider returned empty content")
	}

	content := &models.GeneratedContent{
		Kind:        kind,
		Text:        text,
		GeneratedAt: time.Now(),
	}

	if kind == models.ContentKindActivity {
		content.Activity = parseGeneratedActivity(text)
		if content.Activity != nil && content.Activity.Description != "" {
			content.Text = content.Activity.Description
		}
	}

	return content, nil
}

// parseGeneratedActivity tries to read the model output as the JSON
// shape the activity prompt asks for. Models don't always comply, so a
// nil return just means the caller keeps the plain text.
func parseGeneratedActivity(text string) *models.GeneratedActivity {
	// Strip markdown fences the model sometimes wraps JSON in
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil
	}

	var activity models.GeneratedActivity
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &activity); err != nil {
		return nil
	}
	if activity.Title == "" || activity.Description == "" {
		return nil
	}
	return &activity
}

// ============================================================================
// PROMPTS
// ============================================================================

var goalPhrases = map[string]string{
	models.GoalReduceStress:     "reducing stress",
	models.GoalImproveSleep:     "improving sleep quality",
	models.GoalBuildHabits:      "building consistent healthy habits",
	models.GoalBoostEnergy:      "boosting daily energy",
	models.GoalEmotionalBalance: "finding emotional balance",
	models.GoalMindfulness:      "practicing mindfulness",
}

var tonePhrases = map[string]string{
	"gentle":    "Use a warm, gentle, encouraging tone.",
	"energetic": "Use an upbeat, energetic, motivating tone.",
	"direct":    "Use a clear, direct, no-fluff tone.",
}

func buildPrompt(kind string, profile models.ContentProfile) (system, user string) {
	goal := goalPhrases[profile.Goal]
	if goal == "" {
		goal = "general wellbeing"
	}
	tone := tonePhrases[profile.Tone]
	if tone == "" {
		tone = tonePhrases["gentle"]
	}

	system = "You are a wellness companion writing short personalized content. " +
		tone + " Never give medical advice. Keep output concise."

	who := "someone"
	if profile.FirstName != "" {
		who = profile.FirstName
	}
	mood := profile.Mood
	if mood == "" {
		mood = "neutral"
	}

	switch kind {
	case models.ContentKindAffirmation:
		user = fmt.Sprintf(
			"Write one short first-person affirmation (max 25 words) for %s, who is feeling %s and working on %s. Return only the affirmation.",
			who, mood, goal)
	case models.ContentKindActivity:
		user = fmt.Sprintf(
			`Suggest one small wellness activity for %s, who is feeling %s and working on %s. Respond with JSON only: {"title": "...", "description": "...", "type": "one of affirmation|exercise|meditation|journaling|breathing|gratitude|custom", "durationMinutes": 5}`,
			who, mood, goal)
	case models.ContentKindJournalingPrompt:
		user = fmt.Sprintf(
			"Write one reflective journaling prompt (one or two sentences) for %s, who is feeling %s and working on %s. Return only the prompt.",
			who, mood, goal)
	case models.ContentKindTip:
		user = fmt.Sprintf(
			"Share one practical wellness tip (max 40 words) for %s, who is feeling %s and working on %s. Return only the tip.",
			who, mood, goal)
	case models.ContentKindMotivation:
		user = fmt.Sprintf(
			"Write a short motivational message (max 40 words) for %s, who is feeling %s and working on %s. Return only the message.",
			who, mood, goal)
	default:
		user = fmt.Sprintf(
			"Write a short encouraging wellness message for %s, who is feeling %s and working on %s.",
			who, mood, goal)
	}

	return system, user
}

// ============================================================================
// MOCK PROVIDER
// ============================================================================

// MockGenerator serves canned content keyed by mood. It keeps local
// development and tests independent of any external provider.
type MockGenerator struct {
	rng *rand.Rand
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var mockAffirmations = map[string][]string{
	models.MoodStressed: {
		"I release what I cannot control and focus on this moment.",
		"One breath at a time, I am finding my calm.",
	},
	models.MoodSad: {
		"My feelings are valid, and this moment will pass.",
		"I am gentle with myself today.",
	},
	models.MoodAnxious: {
		"I am safe in this moment, and this moment is all I need.",
		"My breath anchors me when my thoughts race.",
	},
	models.MoodTired: {
		"Rest is productive. I honor what my body needs.",
		"I give myself permission to move slowly today.",
	},
	models.MoodHappy: {
		"I carry this lightness with me and share it freely.",
		"Today I notice and savor the good around me.",
	},
}

var mockDefaultAffirmations = []string{
	"I show up for myself a little more each day.",
	"Small steps forward still move me forward.",
	"I deserve the same kindness I give to others.",
}

var mockActivities = []models.GeneratedActivity{
	{Title: "Box breathing", Description: "Breathe in for 4 counts, hold for 4, out for 4, hold for 4. Repeat for five rounds.", Type: models.ActivityTypeBreathing, DurationMinutes: 3},
	{Title: "Gratitude trio", Description: "Write down three small things from today you're grateful for, and why each one mattered.", Type: models.ActivityTypeGratitude, DurationMinutes: 5},
	{Title: "Body scan", Description: "Sit comfortably and slowly move your attention from your toes to your head, noticing without judging.", Type: models.ActivityTypeMeditation, DurationMinutes: 10},
	{Title: "Brain dump", Description: "Set a 5-minute timer and write everything on your mind without stopping or editing.", Type: models.ActivityTypeJournaling, DurationMinutes: 5},
}

var mockPrompts = map[string]string{
	models.ContentKindJournalingPrompt: "What is one thing weighing on you today, and what would you tell a friend carrying the same weight?",
	models.ContentKindTip:              "Keep a glass of water at your desk. A sip between tasks is a tiny reset your body notices.",
	models.ContentKindMotivation:       "You don't need a perfect day, just one honest minute of showing up. Start there.",
}

func (g *MockGenerator) Generate(_ context.Context, kind string, profile models.ContentProfile) (*models.GeneratedContent, error) {
	content := &models.GeneratedContent{
		Kind:        kind,
		GeneratedAt: time.Now(),
	}

	switch kind {
	case models.ContentKindAffirmation:
		pool := mockAffirmations[profile.Mood]
		if len(pool) == 0 {
			pool = mockDefaultAffirmations
		}
		content.Text = pool[g.rng.Intn(len(pool))]
	case models.ContentKindActivity:
		activity := mockActivities[g.rng.Intn(len(mockActivities))]
		content.Activity = &activity
		content.Text = activity.Description
	default:
		if text, ok := mockPrompts[kind]; ok {
			content.Text = text
		} else {
			content.Text = mockDefaultAffirmations[g.rng.Intn(len(mockDefaultAffirmations))]
		}
	}

	return content, nil
}
