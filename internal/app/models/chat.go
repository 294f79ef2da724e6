package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is the normalized result of one successful provider call.
// Adapters never construct a Candidate with empty or whitespace-only text.
type Candidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Provider   string  `json:"provider"`
}

// ScoredCandidate is a Candidate plus its heuristic quality score.
// Scores are only comparable against other scores from the same
// selection run.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
}

// InvocationResult is the outcome of one fan-out slot. Exactly one of
// Candidate/Err is set. Slot order matches provider registration order.
type InvocationResult struct {
	Provider  string
	Candidate *Candidate
	Err       error
}

// Ok reports whether the slot holds a usable candidate.
func (r InvocationResult) Ok() bool {
	return r.Err == nil && r.Candidate != nil
}

// ChatMessageRequest is the payload of POST /api/v1/chat/message.
type ChatMessageRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// ChatMessageResponse is what the chat endpoint returns to the client.
// Provider and Score are exposed for observability; the UI only renders Reply.
type ChatMessageResponse struct {
	Reply    string  `json:"reply"`
	Provider string  `json:"provider,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Cached   bool    `json:"cached"`
	Fallback bool    `json:"fallback"`
}

// AssistantInteraction is the persisted record of one chat turn.
type AssistantInteraction struct {
	ID         uuid.UUID
	PromptHash string
	Language   string
	Provider   string
	Confidence float64
	Score      float64
	LatencyMs  int
	Fallback   bool
	CreatedAt  time.Time
}
