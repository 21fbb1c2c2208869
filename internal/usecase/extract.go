// Package usecase contains the conversation orchestration core: preference
// extraction, clarification, matching, and the stage state machine.
package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/prompts"
)

const extractorSystemPrompt = "You are a career counselor assistant. Always respond with a single valid JSON object and nothing else."

// defaultMissingInfo backfills the generative invariant that low confidence
// names at least one missing topic.
var defaultMissingInfo = []string{"specific interests", "preferred work style"}

// PreferenceExtractor turns accumulated profile evidence into a structured
// PreferenceAnalysis. It never returns an error: any provider or parse
// failure resolves to a documented fallback shape.
type PreferenceExtractor struct {
	ai               domain.AIClient
	store            *prompts.Store
	chatModel        string
	maxTokens        int
	promptTokenLimit int
}

// NewPreferenceExtractor wires the extractor with its provider and template
// store.
func NewPreferenceExtractor(client domain.AIClient, store *prompts.Store, chatModel string, maxTokens, promptTokenLimit int) *PreferenceExtractor {
	return &PreferenceExtractor{ai: client, store: store, chatModel: chatModel, maxTokens: maxTokens, promptTokenLimit: promptTokenLimit}
}

// Extract derives a PreferenceAnalysis from the profile. Identical evidence
// and a deterministic provider yield identical results; callers memoize the
// result on the profile and invalidate it when evidence changes.
func (e *PreferenceExtractor) Extract(ctx domain.Context, p *domain.UserProfile) domain.PreferenceAnalysis {
	tmpl := e.store.Load(prompts.FilePreferenceExtraction)
	if tmpl == "" {
		observability.RecordFallback("extractor", "template_missing")
		return e.heuristic(p)
	}

	history := SerializeEvidence(p)
	history = tokencount.ClampTokensDefault(history, e.chatModel, e.promptTokenLimit)
	userPrompt := prompts.Render(tmpl, map[string]string{
		"conversation_history": history,
	})

	reply, err := e.ai.ChatJSON(ctx, extractorSystemPrompt, userPrompt, e.maxTokens)
	if err != nil {
		slog.Warn("preference extraction degraded to heuristic", slog.Any("error", err))
		observability.RecordFallback("extractor", "provider")
		return e.heuristic(p)
	}

	var parsed struct {
		PrimaryInterests  []string `json:"primary_interests"`
		ExtractedKeywords []string `json:"extracted_keywords"`
		PersonalityTraits []string `json:"personality_traits"`
		ConfidenceLevel   string   `json:"confidence_level"`
		MissingInfo       []string `json:"missing_info"`
	}
	raw := ai.ExtractJSON(reply)
	if raw == "" || json.Unmarshal([]byte(raw), &parsed) != nil {
		// Keep the reply rather than discarding it; downstream treats the
		// wrapped form as low confidence.
		slog.Warn("preference extraction parse failure", slog.Int("reply_len", len(reply)))
		observability.RecordFallback("extractor", "parse")
		return domain.PreferenceAnalysis{
			Confidence:   domain.ConfidenceLow,
			MissingInfo:  defaultMissingInfo,
			RawAnalysis:  reply,
			ParsingError: true,
		}
	}

	analysis := domain.PreferenceAnalysis{
		PrimaryInterests:  parsed.PrimaryInterests,
		ExtractedKeywords: parsed.ExtractedKeywords,
		PersonalityTraits: parsed.PersonalityTraits,
		Confidence:        domain.ParseConfidence(parsed.ConfidenceLevel),
		MissingInfo:       parsed.MissingInfo,
	}
	if analysis.Confidence == domain.ConfidenceLow && len(analysis.MissingInfo) == 0 {
		analysis.MissingInfo = defaultMissingInfo
	}
	return analysis
}

// heuristic is the total-failure fallback: same shape as the generative
// path so downstream code never special-cases the source.
func (e *PreferenceExtractor) heuristic(p *domain.UserProfile) domain.PreferenceAnalysis {
	interests := make([]string, len(p.SelectedCategories))
	copy(interests, p.SelectedCategories)
	return domain.PreferenceAnalysis{
		PrimaryInterests:  interests,
		ExtractedKeywords: strings.Fields(p.FreeformText),
		Confidence:        domain.ConfidenceMedium,
		MissingInfo:       []string{},
	}
}

// SerializeEvidence renders the profile's accumulated facts as a plain-text
// conversation history for prompt templates.
func SerializeEvidence(p *domain.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stage: %s\n", p.Stage)
	if p.LifeStage != "" {
		fmt.Fprintf(&b, "Life stage: %s\n", p.LifeStage)
	}
	if len(p.SelectedCategories) > 0 {
		fmt.Fprintf(&b, "Selected interests: %s\n", strings.Join(p.SelectedCategories, ", "))
	}
	if p.FreeformText != "" {
		fmt.Fprintf(&b, "In their own words: %s\n", p.FreeformText)
	}
	for _, c := range p.ClarificationLog {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", c.Question, c.Answer)
	}
	return strings.TrimSpace(b.String())
}
