package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func TestExplainUsesProvider(t *testing.T) {
	t.Parallel()
	var gotPrompt string
	ai := &stubAI{chatFn: func(_ domain.Context, _, userPrompt string, _ int) (string, error) {
		gotPrompt = userPrompt
		return "Chef fits your love of hands-on creative work.", nil
	}}
	e := usecase.NewExplainer(ai, promptStore(t), 512)

	p := domain.NewUserProfile()
	p.LifeStage = "high_school"
	got := e.Explain(context.Background(), domain.CareerRecord{ID: "chef", Title: "Chef"}, p)

	assert.Equal(t, "Chef fits your love of hands-on creative work.", got)
	assert.Contains(t, gotPrompt, "Chef")
}

func TestExplainFallsBackOnProviderFailure(t *testing.T) {
	t.Parallel()
	e := usecase.NewExplainer(downAI(), promptStore(t), 512)

	got := e.Explain(context.Background(), domain.CareerRecord{ID: "chef", Title: "Chef"}, domain.NewUserProfile())
	assert.Equal(t, "I believe Chef would be a great fit for you based on your interests and skills!", got)
}

func TestExplainFallsBackOnEmptyReply(t *testing.T) {
	t.Parallel()
	ai := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) { return "   ", nil }}
	e := usecase.NewExplainer(ai, promptStore(t), 512)

	got := e.Explain(context.Background(), domain.CareerRecord{ID: "chef", Title: "Chef"}, domain.NewUserProfile())
	assert.Contains(t, got, "Chef")
}

func TestExplainMissingTemplateSkipsProvider(t *testing.T) {
	t.Parallel()
	called := false
	ai := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		called = true
		return "unused", nil
	}}
	e := usecase.NewExplainer(ai, emptyPromptStore(t), 512)

	got := e.Explain(context.Background(), domain.CareerRecord{ID: "chef", Title: "Chef"}, domain.NewUserProfile())
	assert.False(t, called)
	assert.Contains(t, got, "Chef")
}

func TestNextSteps(t *testing.T) {
	t.Parallel()
	steps := usecase.NextSteps("data_analyst")
	require.Len(t, steps, 4)
	assert.Contains(t, steps[0], "Python")

	generic := usecase.NextSteps("astronaut")
	require.Len(t, generic, 4)
	assert.Contains(t, generic[1], "Talk to someone")

	// Mutating the returned slice must not corrupt the shared checklist.
	steps[0] = "mutated"
	assert.NotEqual(t, "mutated", usecase.NextSteps("data_analyst")[0])
}
