package domain

import "fmt"

// Stage is a named point in the guided conversation flow.
type Stage string

// The flow is linear from onboarding to feedback with two non-linear edges:
// fallback_clarification loops back to preference_validation, and
// detailed_path_exploration may return to career_matching.
const (
	StageOnboarding            Stage = "onboarding"
	StageContextCheck          Stage = "context_check"
	StageInterestExploration   Stage = "interest_exploration"
	StagePreferenceValidation  Stage = "preference_validation"
	StageCareerMatching        Stage = "career_matching"
	StageDetailedPath          Stage = "detailed_path_exploration"
	StageFallbackClarification Stage = "fallback_clarification"
	StageFinalRecommendation   Stage = "final_recommendation"
	StageFeedback              Stage = "feedback"
)

var knownStages = map[Stage]struct{}{
	StageOnboarding:            {},
	StageContextCheck:          {},
	StageInterestExploration:   {},
	StagePreferenceValidation:  {},
	StageCareerMatching:        {},
	StageDetailedPath:          {},
	StageFallbackClarification: {},
	StageFinalRecommendation:   {},
	StageFeedback:              {},
}

// Known reports whether s is a valid stage value.
func (s Stage) Known() bool {
	_, ok := knownStages[s]
	return ok
}

// ParseStage converts a wire string into a Stage.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Known() {
		return "", fmt.Errorf("%w: unknown stage %q", ErrInvalidArgument, s)
	}
	return st, nil
}

// LifeStages is the fixed set of answers for the context check.
var LifeStages = []string{
	"School Student",
	"College Student",
	"Working Professional",
	"Career Switcher",
}

// ValidLifeStage reports whether s is one of the enumerated life stages.
func ValidLifeStage(s string) bool {
	for _, ls := range LifeStages {
		if s == ls {
			return true
		}
	}
	return false
}

// ActionType is a discrete token sent by the presentation layer.
type ActionType string

// Action tokens understood by the flow controller. Tokens that are invalid
// for the current stage are no-ops.
const (
	ActionStart               ActionType = "start"
	ActionSetLifeStage        ActionType = "set_life_stage"
	ActionToggleCategory      ActionType = "toggle_category"
	ActionSetFreeform         ActionType = "set_freeform"
	ActionContinue            ActionType = "continue"
	ActionAccept              ActionType = "accept"
	ActionClarify             ActionType = "clarify"
	ActionEdit                ActionType = "edit"
	ActionAnswerClarification ActionType = "answer_clarification"
	ActionSkipClarification   ActionType = "skip_clarification"
	ActionSelectCareer        ActionType = "select_career"
	ActionSurprise            ActionType = "surprise"
	ActionBack                ActionType = "back"
	ActionHowToStart          ActionType = "how_to_start"
	ActionRate                ActionType = "rate"
	ActionSetEmail            ActionType = "set_email"
	ActionRestart             ActionType = "restart"
)

// Action carries an action token plus its user-entered value, if any.
// For answer_clarification, Question holds the question being answered.
type Action struct {
	Type     ActionType `json:"type"`
	Value    string     `json:"value,omitempty"`
	Question string     `json:"question,omitempty"`
}
