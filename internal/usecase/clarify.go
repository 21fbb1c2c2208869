package usecase

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/prompts"
)

// maxClarifyingQuestions caps the displayed question count regardless of how
// many the provider returns.
const maxClarifyingQuestions = 4

const clarifierSystemPrompt = "You are a helpful career counselor. Always respond with valid JSON."

// fallbackQuestionBank is returned verbatim whenever the generative path is
// unavailable or unparseable. Same list every call, never empty.
var fallbackQuestionBank = []string{
	"What activities do you enjoy most in your free time?",
	"What subjects or topics naturally interest you?",
	"Do you prefer working with people, data, or hands-on projects?",
	"What does your ideal workday look like?",
}

// ClarificationGenerator produces clarifying questions for low-confidence
// analyses. It never returns an empty list.
type ClarificationGenerator struct {
	ai        domain.AIClient
	store     *prompts.Store
	maxTokens int
}

// NewClarificationGenerator wires the generator with its provider and
// template store.
func NewClarificationGenerator(client domain.AIClient, store *prompts.Store, maxTokens int) *ClarificationGenerator {
	return &ClarificationGenerator{ai: client, store: store, maxTokens: maxTokens}
}

// Generate returns up to 4 clarifying questions for the given evidence and
// missing topics.
func (g *ClarificationGenerator) Generate(ctx domain.Context, userContext string, missingInfo []string, stage domain.Stage) []string {
	tmpl := g.store.Load(prompts.FileClarifyingQuestions)
	if tmpl == "" {
		observability.RecordFallback("clarifier", "template_missing")
		return fallbackQuestions()
	}

	userPrompt := prompts.Render(tmpl, map[string]string{
		"user_context":       userContext,
		"missing_info":       strings.Join(missingInfo, ", "),
		"conversation_stage": string(stage),
	})

	reply, err := g.ai.ChatJSON(ctx, clarifierSystemPrompt, userPrompt, g.maxTokens)
	if err != nil {
		slog.Warn("clarifying questions degraded to fixed bank", slog.Any("error", err))
		observability.RecordFallback("clarifier", "provider")
		return fallbackQuestions()
	}

	var parsed struct {
		ClarifyingQuestions []string `json:"clarifying_questions"`
	}
	raw := ai.ExtractJSON(reply)
	if raw == "" || json.Unmarshal([]byte(raw), &parsed) != nil {
		slog.Warn("clarifying questions parse failure", slog.Int("reply_len", len(reply)))
		observability.RecordFallback("clarifier", "parse")
		return fallbackQuestions()
	}

	questions := make([]string, 0, maxClarifyingQuestions)
	for _, q := range parsed.ClarifyingQuestions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == maxClarifyingQuestions {
			break
		}
	}
	if len(questions) == 0 {
		observability.RecordFallback("clarifier", "empty")
		return fallbackQuestions()
	}
	return questions
}

func fallbackQuestions() []string {
	out := make([]string, len(fallbackQuestionBank))
	copy(out, fallbackQuestionBank)
	return out
}
