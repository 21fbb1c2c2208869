package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/prompts"
)

const explainerSystemPrompt = "You are an encouraging career counselor. Respond with plain prose only."

// Explainer produces the short "why this fits you" text shown at the detail
// stage. Failure degrades to a deterministic sentence naming the career.
type Explainer struct {
	ai        domain.AIClient
	store     *prompts.Store
	maxTokens int
}

// NewExplainer wires the explainer with its provider and template store.
func NewExplainer(client domain.AIClient, store *prompts.Store, maxTokens int) *Explainer {
	return &Explainer{ai: client, store: store, maxTokens: maxTokens}
}

// Explain returns a short explanation of why the career fits the profile.
func (e *Explainer) Explain(ctx domain.Context, career domain.CareerRecord, p *domain.UserProfile) string {
	tmpl := e.store.Load(prompts.FileCareerExplanation)
	if tmpl == "" {
		observability.RecordFallback("explainer", "template_missing")
		return fallbackExplanation(career)
	}
	userPrompt := prompts.Render(tmpl, map[string]string{
		"career_name":  career.Title,
		"user_stage":   p.LifeStage,
		"user_profile": SerializeEvidence(p),
	})
	reply, err := e.ai.ChatJSON(ctx, explainerSystemPrompt, userPrompt, e.maxTokens)
	if err != nil {
		slog.Warn("career explanation degraded to static text", slog.Any("error", err))
		observability.RecordFallback("explainer", "provider")
		return fallbackExplanation(career)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		observability.RecordFallback("explainer", "empty")
		return fallbackExplanation(career)
	}
	return reply
}

func fallbackExplanation(career domain.CareerRecord) string {
	return fmt.Sprintf("I believe %s would be a great fit for you based on your interests and skills!", career.Title)
}

// genericNextSteps is the checklist shown when no career-specific list exists.
var genericNextSteps = []string{
	"Research the role through day-in-the-life articles and videos",
	"Talk to someone working in the field",
	"Take an introductory online course",
	"Start a small project you can show off later",
}

// nextStepsByCareer holds concrete starter checklists for well-known ids.
var nextStepsByCareer = map[string][]string{
	"data_analyst": {
		"Learn Python programming basics (try Codecademy or freeCodeCamp)",
		"Practice with Excel and Google Sheets",
		"Take an online statistics course",
		"Build a portfolio with sample data projects",
	},
	"data_scientist": {
		"Learn Python programming basics (try Codecademy or freeCodeCamp)",
		"Take an online statistics and machine learning course",
		"Practice on public datasets and share your notebooks",
		"Build a portfolio with sample data projects",
	},
	"graphic_designer": {
		"Learn Adobe Creative Suite or Figma",
		"Study design principles and color theory",
		"Create a portfolio of design projects",
		"Join design communities online",
	},
	"product_designer": {
		"Learn Adobe Creative Suite or Figma",
		"Study design principles and color theory",
		"Create a portfolio of design projects",
		"Join design communities online",
	},
	"sports_coach": {
		"Get certified in your sport of choice",
		"Study sports psychology and training methods",
		"Volunteer as an assistant coach",
		"Network with other coaches and athletes",
	},
	"ux_researcher": {
		"Learn user research methodologies",
		"Get familiar with tools like Figma and Miro",
		"Practice conducting user interviews",
		"Read books on UX design and psychology",
	},
}

// NextSteps returns the starter checklist for a career.
func NextSteps(careerID string) []string {
	if steps, ok := nextStepsByCareer[careerID]; ok {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
	out := make([]string, len(genericNextSteps))
	copy(out, genericNextSteps)
	return out
}
