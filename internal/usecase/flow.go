package usecase

import (
	"hash/fnv"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// InterestCategory is one selectable option at interest_exploration.
type InterestCategory struct {
	Label string `json:"label"`
	Hint  string `json:"hint"`
}

// InterestCategories is the fixed option set shown to the user.
var InterestCategories = []InterestCategory{
	{Label: "Creative", Hint: "design, writing, art"},
	{Label: "Analytical", Hint: "math, coding, puzzles"},
	{Label: "Social", Hint: "teaching, counseling, teamwork"},
	{Label: "Physical", Hint: "sports, crafting, hands-on"},
	{Label: "Tech", Hint: "robotics, gaming, gadgets"},
}

// defaultCategorySeed is applied when the user skips clarification.
var defaultCategorySeed = []string{"Creative", "Tech"}

// StagePayload is what the presentation layer renders after each action:
// the profile view plus stage-specific content.
type StagePayload struct {
	Stage        domain.Stage               `json:"stage"`
	Profile      *domain.UserProfile        `json:"profile"`
	Rejected     bool                       `json:"rejected,omitempty"`
	Notice       string                     `json:"notice,omitempty"`
	LifeStages   []string                   `json:"life_stages,omitempty"`
	Categories   []InterestCategory         `json:"categories,omitempty"`
	Analysis     *domain.PreferenceAnalysis `json:"analysis,omitempty"`
	Questions    []string                   `json:"questions,omitempty"`
	Matches      domain.MatchResult         `json:"matches,omitempty"`
	Explanation  string                     `json:"explanation,omitempty"`
	RelatedRoles []domain.CareerRecord      `json:"related_roles,omitempty"`
	NextSteps    []string                   `json:"next_steps,omitempty"`
}

// FlowController is the stage state machine. Every Apply call yields a valid
// next state and payload: invalid actions are no-ops, degraded providers
// resolve to fallbacks, and an unknown stage resets to onboarding.
type FlowController struct {
	extractor *PreferenceExtractor
	clarifier *ClarificationGenerator
	matcher   *MatchingEngine
	explainer *Explainer
	feedback  domain.FeedbackRepository // nil disables persistence
	events    domain.EventPublisher     // nil disables events
	validate  *validator.Validate
	topK      int
}

// NewFlowController wires the state machine. feedback and events may be nil.
func NewFlowController(extractor *PreferenceExtractor, clarifier *ClarificationGenerator, matcher *MatchingEngine, explainer *Explainer, feedback domain.FeedbackRepository, events domain.EventPublisher, topK int) *FlowController {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &FlowController{
		extractor: extractor,
		clarifier: clarifier,
		matcher:   matcher,
		explainer: explainer,
		feedback:  feedback,
		events:    events,
		validate:  validator.New(),
		topK:      topK,
	}
}

// Apply processes one user action against the profile and returns the next
// rendering payload. The caller serializes actions per session.
func (f *FlowController) Apply(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	if !p.Stage.Known() {
		// Routing error: reset, never silently advance.
		slog.Error("unknown stage, resetting session", slog.String("session_id", sessionID), slog.String("stage", string(p.Stage)))
		observability.RecordTransition("unknown", string(domain.StageOnboarding))
		p.Reset()
		return f.payload(ctx, p, "The conversation hit an unknown state and was restarted.")
	}

	switch p.Stage {
	case domain.StageOnboarding:
		return f.applyOnboarding(ctx, sessionID, p, a)
	case domain.StageContextCheck:
		return f.applyContextCheck(ctx, sessionID, p, a)
	case domain.StageInterestExploration:
		return f.applyInterestExploration(ctx, sessionID, p, a)
	case domain.StagePreferenceValidation:
		return f.applyPreferenceValidation(ctx, sessionID, p, a)
	case domain.StageFallbackClarification:
		return f.applyFallbackClarification(ctx, sessionID, p, a)
	case domain.StageCareerMatching:
		return f.applyCareerMatching(ctx, sessionID, p, a)
	case domain.StageDetailedPath:
		return f.applyDetailedPath(ctx, sessionID, p, a)
	case domain.StageFinalRecommendation:
		return f.applyFinalRecommendation(ctx, sessionID, p, a)
	case domain.StageFeedback:
		return f.applyFeedback(ctx, sessionID, p, a)
	}
	// Unreachable: Known() covers the full enumeration.
	return f.payload(ctx, p, "")
}

// Describe returns the rendering payload for the current stage without
// applying an action.
func (f *FlowController) Describe(ctx domain.Context, sessionID string, p *domain.UserProfile) StagePayload {
	if !p.Stage.Known() {
		observability.RecordTransition("unknown", string(domain.StageOnboarding))
		p.Reset()
		return f.payload(ctx, p, "The conversation hit an unknown state and was restarted.")
	}
	return f.payload(ctx, p, "")
}

func (f *FlowController) applyOnboarding(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	if a.Type == domain.ActionStart {
		return f.transition(ctx, sessionID, p, domain.StageContextCheck, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyContextCheck(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	if a.Type != domain.ActionSetLifeStage {
		return f.reject(ctx, sessionID, p, a, "")
	}
	if !domain.ValidLifeStage(a.Value) {
		return f.reject(ctx, sessionID, p, a, "Please pick one of the listed life stages.")
	}
	p.SetLifeStage(a.Value)
	return f.transition(ctx, sessionID, p, domain.StageInterestExploration, "")
}

func (f *FlowController) applyInterestExploration(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionToggleCategory:
		if !knownCategory(a.Value) {
			return f.reject(ctx, sessionID, p, a, "That interest is not one of the listed options.")
		}
		p.ToggleCategory(a.Value)
		return f.payload(ctx, p, "")
	case domain.ActionSetFreeform:
		p.SetFreeform(textx.SanitizeText(a.Value))
		return f.payload(ctx, p, "")
	case domain.ActionContinue:
		if !p.HasInterestInput() {
			return f.reject(ctx, sessionID, p, a, "Select at least one interest or tell us something in your own words.")
		}
		return f.transition(ctx, sessionID, p, domain.StagePreferenceValidation, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyPreferenceValidation(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionAccept:
		return f.transition(ctx, sessionID, p, domain.StageCareerMatching, "")
	case domain.ActionClarify:
		return f.transition(ctx, sessionID, p, domain.StageFallbackClarification, "")
	case domain.ActionEdit:
		p.InvalidateAnalysis()
		return f.transition(ctx, sessionID, p, domain.StageInterestExploration, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyFallbackClarification(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionAnswerClarification:
		question := textx.SanitizeText(a.Question)
		answer := textx.SanitizeText(a.Value)
		if question == "" || answer == "" {
			return f.reject(ctx, sessionID, p, a, "Please provide an answer to continue.")
		}
		p.AppendClarification(question, answer)
		return f.transition(ctx, sessionID, p, domain.StagePreferenceValidation, "Great answer! Re-analyzing your preferences.")
	case domain.ActionSkipClarification:
		for _, c := range defaultCategorySeed {
			if !p.HasCategory(c) {
				p.ToggleCategory(c)
			}
		}
		return f.transition(ctx, sessionID, p, domain.StageCareerMatching, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyCareerMatching(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionSelectCareer:
		matches := f.matcher.Match(ctx, p, f.topK)
		for _, m := range matches {
			if m.Career.ID == a.Value {
				career := m.Career
				p.SelectedCareer = &career
				return f.transition(ctx, sessionID, p, domain.StageDetailedPath, "")
			}
		}
		return f.reject(ctx, sessionID, p, a, "That career is not in your current matches.")
	case domain.ActionSurprise:
		matches := f.matcher.Match(ctx, p, f.topK)
		if len(matches) == 0 {
			return f.reject(ctx, sessionID, p, a, "No matches available right now.")
		}
		pick := matches[surpriseIndex(sessionID, len(matches))].Career
		p.SelectedCareer = &pick
		return f.transition(ctx, sessionID, p, domain.StageDetailedPath, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyDetailedPath(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionBack:
		// Matches are recomputed from the memoized analysis, so the prior
		// ranking is preserved.
		return f.transition(ctx, sessionID, p, domain.StageCareerMatching, "")
	case domain.ActionHowToStart:
		return f.transition(ctx, sessionID, p, domain.StageFinalRecommendation, "")
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyFinalRecommendation(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionContinue:
		return f.transition(ctx, sessionID, p, domain.StageFeedback, "")
	case domain.ActionRestart:
		return f.restart(ctx, sessionID, p)
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) applyFeedback(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action) StagePayload {
	switch a.Type {
	case domain.ActionRate:
		rating, err := strconv.Atoi(a.Value)
		if err != nil || f.validate.Var(rating, "min=1,max=5") != nil {
			return f.reject(ctx, sessionID, p, a, "Rating must be a whole number between 1 and 5.")
		}
		p.Rating = rating
		f.recordFeedback(ctx, sessionID, p)
		return f.payload(ctx, p, "Thanks for the feedback!")
	case domain.ActionSetEmail:
		if f.validate.Var(a.Value, "required,email") != nil {
			return f.reject(ctx, sessionID, p, a, "That email address does not look valid.")
		}
		p.Email = a.Value
		return f.payload(ctx, p, "")
	case domain.ActionRestart:
		return f.restart(ctx, sessionID, p)
	}
	return f.reject(ctx, sessionID, p, a, "")
}

func (f *FlowController) restart(ctx domain.Context, sessionID string, p *domain.UserProfile) StagePayload {
	from := p.Stage
	p.Reset()
	observability.RecordTransition(string(from), string(p.Stage))
	return f.payload(ctx, p, "")
}

// recordFeedback persists telemetry and publishes the completion event.
// Both are best-effort: failures are logged, never surfaced as flow errors.
func (f *FlowController) recordFeedback(ctx domain.Context, sessionID string, p *domain.UserProfile) {
	careerID := ""
	if p.SelectedCareer != nil {
		careerID = p.SelectedCareer.ID
	}
	if f.feedback != nil {
		fb := domain.Feedback{
			SessionID: sessionID,
			CareerID:  careerID,
			Rating:    p.Rating,
			Email:     p.Email,
			CreatedAt: time.Now().UTC(),
		}
		if err := f.feedback.Save(ctx, fb); err != nil {
			slog.Warn("feedback persistence failed", slog.String("session_id", sessionID), slog.Any("error", err))
		}
	}
	if f.events != nil {
		ev := domain.SessionEvent{
			SessionID:  sessionID,
			Type:       "session_completed",
			Stage:      string(p.Stage),
			CareerID:   careerID,
			OccurredAt: time.Now().UTC(),
		}
		if err := f.events.Publish(ctx, ev); err != nil {
			slog.Warn("session event publish failed", slog.String("session_id", sessionID), slog.Any("error", err))
		}
	}
}

// transition moves the profile to a new stage and builds its payload.
func (f *FlowController) transition(ctx domain.Context, sessionID string, p *domain.UserProfile, to domain.Stage, notice string) StagePayload {
	observability.RecordTransition(string(p.Stage), string(to))
	p.Stage = to
	return f.payload(ctx, p, notice)
}

// reject refuses an action: profile and stage unchanged.
func (f *FlowController) reject(ctx domain.Context, sessionID string, p *domain.UserProfile, a domain.Action, notice string) StagePayload {
	observability.RecordRejectedAction(string(p.Stage), string(a.Type))
	out := f.payload(ctx, p, notice)
	out.Rejected = true
	return out
}

// payload assembles stage-specific content. Entering preference_validation
// is the one place extraction runs; the result is memoized on the profile
// until an upstream input invalidates it.
func (f *FlowController) payload(ctx domain.Context, p *domain.UserProfile, notice string) StagePayload {
	out := StagePayload{Stage: p.Stage, Profile: p, Notice: notice}
	switch p.Stage {
	case domain.StageContextCheck:
		out.LifeStages = domain.LifeStages
	case domain.StageInterestExploration:
		out.Categories = InterestCategories
	case domain.StagePreferenceValidation:
		if p.Analysis == nil {
			analysis := f.extractor.Extract(ctx, p)
			p.Analysis = &analysis
		}
		out.Analysis = p.Analysis
	case domain.StageFallbackClarification:
		missing := []string{}
		if p.Analysis != nil {
			missing = p.Analysis.MissingInfo
		}
		out.Questions = f.clarifier.Generate(ctx, SerializeEvidence(p), missing, p.Stage)
	case domain.StageCareerMatching:
		out.Matches = f.matcher.Match(ctx, p, f.topK)
	case domain.StageDetailedPath:
		if p.SelectedCareer != nil {
			out.Explanation = f.explainer.Explain(ctx, *p.SelectedCareer, p)
			out.RelatedRoles = f.matcher.Related(ctx, *p.SelectedCareer, 3)
		}
	case domain.StageFinalRecommendation:
		if p.SelectedCareer != nil {
			out.NextSteps = NextSteps(p.SelectedCareer.ID)
		}
	}
	return out
}

func knownCategory(label string) bool {
	for _, c := range InterestCategories {
		if c.Label == label {
			return true
		}
	}
	return false
}

// surpriseIndex derives a stable pick from the session id so "surprise me"
// is reproducible within a session.
func surpriseIndex(sessionID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(n))
}
