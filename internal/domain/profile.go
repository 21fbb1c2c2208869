package domain

// ClarificationEntry is one recorded question/answer pair.
type ClarificationEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UserProfile accumulates everything a session learns about the user.
// It is owned by exactly one session and mutated by the flow controller only;
// the presentation layer serializes actions per session.
//
// Analysis is derived state: any change to the inputs it was computed from
// (categories, free text, clarification answers) clears it so the next
// preference_validation entry recomputes it.
type UserProfile struct {
	Stage              Stage                `json:"stage"`
	LifeStage          string               `json:"life_stage,omitempty"`
	SelectedCategories []string             `json:"selected_categories"`
	FreeformText       string               `json:"freeform_text,omitempty"`
	Analysis           *PreferenceAnalysis  `json:"analysis,omitempty"`
	ClarificationLog   []ClarificationEntry `json:"clarification_log,omitempty"`
	SelectedCareer     *CareerRecord        `json:"selected_career,omitempty"`
	Rating             int                  `json:"rating,omitempty"`
	Email              string               `json:"email,omitempty"`
}

// NewUserProfile returns a fresh profile at the initial stage.
func NewUserProfile() *UserProfile {
	return &UserProfile{Stage: StageOnboarding}
}

// SetLifeStage records the context-check answer. Set once; never auto-cleared.
func (p *UserProfile) SetLifeStage(s string) {
	p.LifeStage = s
}

// ToggleCategory adds the category if absent, removes it if present, and
// invalidates any derived analysis. Insertion order is preserved so query
// construction stays deterministic.
func (p *UserProfile) ToggleCategory(c string) {
	for i, have := range p.SelectedCategories {
		if have == c {
			p.SelectedCategories = append(p.SelectedCategories[:i], p.SelectedCategories[i+1:]...)
			p.InvalidateAnalysis()
			return
		}
	}
	p.SelectedCategories = append(p.SelectedCategories, c)
	p.InvalidateAnalysis()
}

// HasCategory reports whether the category is currently selected.
func (p *UserProfile) HasCategory(c string) bool {
	for _, have := range p.SelectedCategories {
		if have == c {
			return true
		}
	}
	return false
}

// SetFreeform overwrites the free-text entry and invalidates the analysis.
func (p *UserProfile) SetFreeform(t string) {
	p.FreeformText = t
	p.InvalidateAnalysis()
}

// AppendClarification records an answered clarifying question (append-only)
// and invalidates the analysis so re-extraction sees the new evidence.
func (p *UserProfile) AppendClarification(question, answer string) {
	p.ClarificationLog = append(p.ClarificationLog, ClarificationEntry{Question: question, Answer: answer})
	p.InvalidateAnalysis()
}

// InvalidateAnalysis clears the memoized analysis.
func (p *UserProfile) InvalidateAnalysis() {
	p.Analysis = nil
}

// HasInterestInput reports whether the profile carries enough input to leave
// interest_exploration: at least one category or non-empty free text.
func (p *UserProfile) HasInterestInput() bool {
	return len(p.SelectedCategories) > 0 || p.FreeformText != ""
}

// Reset clears every field and returns the profile to the initial stage.
// This is the only full reset; nothing else partially resets the profile.
func (p *UserProfile) Reset() {
	*p = UserProfile{Stage: StageOnboarding}
}
