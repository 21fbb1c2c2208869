// Package domain holds the core entities, ports, and error taxonomy for the
// career discovery engine.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrSessionBusy         = errors.New("session busy")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrIndexUnavailable    = errors.New("index unavailable")
	ErrModelMismatch       = errors.New("embedding model mismatch")
	ErrInternal            = errors.New("internal error")
)

// Confidence grades how certain a preference analysis is.
type Confidence string

// Confidence levels reported by the preference extractor.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence normalizes a free-form confidence string to a known level.
// Unknown values map to medium so a sloppy model reply never breaks the flow.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return Confidence(s)
	}
	return ConfidenceMedium
}

// PreferenceAnalysis is the structured view of a user's accumulated
// preferences. The heuristic fallback populates the same fields as the
// generative path so downstream code never special-cases the source.
type PreferenceAnalysis struct {
	PrimaryInterests  []string   `json:"primary_interests"`
	ExtractedKeywords []string   `json:"extracted_keywords"`
	PersonalityTraits []string   `json:"personality_traits"`
	Confidence        Confidence `json:"confidence_level"`
	MissingInfo       []string   `json:"missing_info"`
	// RawAnalysis carries the unparsed model reply when strict parsing failed.
	RawAnalysis  string `json:"raw_analysis,omitempty"`
	ParsingError bool   `json:"parsing_error,omitempty"`
}

// EffectiveConfidence treats a parse-failure wrap as low confidence.
func (a PreferenceAnalysis) EffectiveConfidence() Confidence {
	if a.ParsingError {
		return ConfidenceLow
	}
	return a.Confidence
}

// CareerRecord is one immutable entry of the retrieval corpus.
type CareerRecord struct {
	ID               string   `yaml:"id" json:"id"`
	Title            string   `yaml:"title" json:"title"`
	Tagline          string   `yaml:"tagline" json:"tagline"`
	Description      string   `yaml:"description" json:"description"`
	Industry         string   `yaml:"industry" json:"industry"`
	Skills           []string `yaml:"skills" json:"skills"`
	Education        []string `yaml:"education" json:"education"`
	SalaryRange      string   `yaml:"salary_range" json:"salary_range"`
	JobOutlook       string   `yaml:"job_outlook" json:"job_outlook"`
	Companies        []string `yaml:"companies" json:"companies"`
	CareerPaths      []string `yaml:"career_paths" json:"career_paths"`
	PersonalityMatch []string `yaml:"personality_match" json:"personality_match"`
	Emoji            string   `yaml:"emoji" json:"emoji"`
}

// CareerHit is a raw retrieval result: record plus cosine distance.
type CareerHit struct {
	Career   CareerRecord
	Distance float64
}

// ScoredCareer pairs a record with its relevance score.
type ScoredCareer struct {
	Career CareerRecord `json:"career"`
	Score  float64      `json:"relevance_score"`
}

// MatchResult is ordered highest relevance first; ties keep corpus insertion
// order.
type MatchResult []ScoredCareer

// Feedback is the terminal-stage telemetry captured for a completed session.
type Feedback struct {
	SessionID string
	CareerID  string
	Rating    int
	Email     string
	CreatedAt time.Time
}

// SessionEvent is a lifecycle notification published to the event stream.
type SessionEvent struct {
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type"`
	Stage      string    `json:"stage"`
	CareerID   string    `json:"career_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AIClient (port)

type AIClient interface {
	// Embed returns one vector per input text; deterministic for identical input.
	Embed(ctx Context, texts []string) ([][]float32, error)
	// ChatJSON sends a system+user prompt pair and returns the raw reply text.
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// CareerIndex (port) wraps the vector collection keyed by career id.

type CareerIndex interface {
	Query(ctx Context, text string, k int) ([]CareerHit, error)
	// Upsert is administrative and must not race with query traffic.
	Upsert(ctx Context, records []CareerRecord) error
}

// FeedbackRepository (port) persists terminal-stage telemetry.

type FeedbackRepository interface {
	Save(ctx Context, f Feedback) error
}

// EventPublisher (port) emits session lifecycle events, fire-and-forget.

type EventPublisher interface {
	Publish(ctx Context, ev SessionEvent) error
	Close() error
}

// Context is an alias so adapters and usecases share one signature shape.
type Context = context.Context
