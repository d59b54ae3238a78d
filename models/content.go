package models

import "time"

// Content kinds the generation adapter can produce.
const (
	ContentKindAffirmation      = "affirmation"
	ContentKindActivity         = "activity"
	ContentKindJournalingPrompt = "journaling_prompt"
	ContentKindTip              = "tip"
	ContentKindMotivation       = "motivation"
)

var ContentKinds = []string{
	ContentKindAffirmation, ContentKindActivity, ContentKindJournalingPrompt,
	ContentKindTip, ContentKindMotivation,
}

type GenerateContentRequest struct {
	Kind string `json:"kind" validate:"required,content_kind"`
}

// GeneratedContent is the adapter's output. For the "activity" kind,
// Activity carries the structured form when the model returned parseable
// JSON; Text always carries a usable plain rendering.
type GeneratedContent struct {
	Kind        string             `json:"kind"`
	Text        string             `json:"text"`
	Activity    *GeneratedActivity `json:"activity,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

type GeneratedActivity struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// ContentProfile is the slice of the user the prompt templates key on.
type ContentProfile struct {
	Mood           string   `json:"mood"`
	Goal           string   `json:"goal"`
	Tone           string   `json:"tone,omitempty"`
	PreferredKinds []string `json:"preferredKinds,omitempty"`
	FirstName      string   `json:"firstName,omitempty"`
}
