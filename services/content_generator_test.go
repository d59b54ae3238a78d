package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wellnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedActivity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *models.GeneratedActivity
	}{
		{
			name: "plain JSON",
			text: `{"title": "Box breathing", "description": "Breathe in squares.", "type": "breathing", "durationMinutes": 3}`,
			want: &models.GeneratedActivity{Title: "Box breathing", Description: "Breathe in squares.", Type: "breathing", DurationMinutes: 3},
		},
		{
			name: "fenced JSON",
			text: "```json\n{\"title\": \"Body scan\", \"description\": \"Head to toe.\"}\n```",
			want: &models.GeneratedActivity{Title: "Body scan", Description: "Head to toe."},
		},
		{
			name: "JSON embedded in prose",
			text: "Here you go: {\"title\": \"Gratitude trio\", \"description\": \"Three good things.\"} Enjoy!",
			want: &models.GeneratedActivity{Title: "Gratitude trio", Description: "Three good things."},
		},
		{
			name: "plain prose returns nil",
			text: "Take a short mindful walk outside.",
			want: nil,
		},
		{
			name: "missing required fields returns nil",
			text: `{"title": "Nameless"}`,
			want: nil,
		},
		{
			name: "malformed JSON returns nil",
			text: `{"title": "Broken", "description": `,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseGeneratedActivity(tt.text))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	profile := models.ContentProfile{
		Mood:      models.MoodStressed,
		Goal:      models.GoalReduceStress,
		Tone:      "direct",
		FirstName: "River",
	}

	system, user := buildPrompt(models.ContentKindAffirmation, profile)
	assert.Contains(t, system, "direct")
	assert.Contains(t, user, "River")
	assert.Contains(t, user, "stressed")
	assert.Contains(t, user, "reducing stress")

	// Unknown tone and empty profile fall back to gentle defaults.
	system, user = buildPrompt(models.ContentKindTip, models.ContentProfile{})
	assert.Contains(t, system, "gentle")
	assert.Contains(t, user, "someone")
	assert.Contains(t, user, "neutral")
	assert.Contains(t, user, "general wellbeing")

	// The activity prompt asks for the JSON shape the parser expects.
	_, user = buildPrompt(models.ContentKindActivity, profile)
	assert.Contains(t, user, `"title"`)
	assert.Contains(t, user, `"description"`)
}

func TestOpenAIGeneratorGenerate(t *testing.T) {
	t.Run("successful affirmation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)

			json.NewEncoder(w).Encode(chatCompletionResponse{
				Choices: []struct {
					Message chatMessage `json:"message"`
				}{
					{Message: chatMessage{Role: "assistant", Content: "  I am enough, exactly as I am today.  "}},
				},
			})
		}))
		defer server.Close()

		g := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		content, err := g.Generate(context.Background(), models.ContentKindAffirmation, models.ContentProfile{Mood: models.MoodCalm})
		require.NoError(t, err)
		assert.Equal(t, models.ContentKindAffirmation, content.Kind)
		assert.Equal(t, "I am enough, exactly as I am today.", content.Text)
		assert.Nil(t, content.Activity)
	})

	t.Run("activity kind parses structured output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(chatCompletionResponse{
				Choices: []struct {
					Message chatMessage `json:"message"`
				}{
					{Message: chatMessage{Content: `{"title": "Box breathing", "description": "Four counts each way.", "type": "breathing", "durationMinutes": 3}`}},
				},
			})
		}))
		defer server.Close()

		g := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		content, err := g.Generate(context.Background(), models.ContentKindActivity, models.ContentProfile{})
		require.NoError(t, err)
		require.NotNil(t, content.Activity)
		assert.Equal(t, "Box breathing", content.Activity.Title)
		assert.Equal(t, "Four counts each way.", content.Text)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		g := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		_, err := g.Generate(context.Background(), models.ContentKindAffirmation, models.ContentProfile{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("provider error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
		}))
		defer server.Close()

		g := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		_, err := g.Generate(context.Background(), models.ContentKindAffirmation, models.ContentProfile{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		g := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		_, err := g.Generate(context.Background(), models.ContentKindAffirmation, models.ContentProfile{})
		require.Error(t, err)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		g := NewOpenAIGenerator("http://127.0.0.1:1", "test-key", "test-model")
		_, err := g.Generate(context.Background(), models.ContentKindAffirmation, models.ContentProfile{})
		require.Error(t, err)
	})
}

func TestMockGenerator(t *testing.T) {
	g := NewMockGenerator()
	ctx := context.Background()

	t.Run("mood-keyed affirmations", func(t *testing.T) {
		content, err := g.Generate(ctx, models.ContentKindAffirmation, models.ContentProfile{Mood: models.MoodStressed})
		require.NoError(t, err)
		assert.Contains(t, mockAffirmations[models.MoodStressed], content.Text)
	})

	t.Run("unknown mood falls back to defaults", func(t *testing.T) {
		content, err := g.Generate(ctx, models.ContentKindAffirmation, models.ContentProfile{Mood: "bewildered"})
		require.NoError(t, err)
		assert.Contains(t, mockDefaultAffirmations, content.Text)
	})

	t.Run("activity kind returns structured content", func(t *testing.T) {
		content, err := g.Generate(ctx, models.ContentKindActivity, models.ContentProfile{})
		require.NoError(t, err)
		require.NotNil(t, content.Activity)
		assert.NotEmpty(t, content.Activity.Title)
		assert.Equal(t, content.Activity.Description, content.Text)
	})

	t.Run("prompt kinds", func(t *testing.T) {
		for _, kind := range []string{models.ContentKindJournalingPrompt, models.ContentKindTip, models.ContentKindMotivation} {
			content, err := g.Generate(ctx, kind, models.ContentProfile{})
			require.NoError(t, err)
			assert.Equal(t, mockPrompts[kind], content.Text)
			assert.Equal(t, kind, content.Kind)
		}
	})
}
