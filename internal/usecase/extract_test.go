package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func newExtractor(t *testing.T, client *stubAI) *usecase.PreferenceExtractor {
	t.Helper()
	return usecase.NewPreferenceExtractor(client, promptStore(t), "gpt-4", 1500, 4000)
}

func TestExtractGenerativePath(t *testing.T) {
	t.Parallel()
	client := &stubAI{chatFn: func(_ domain.Context, _, userPrompt string, _ int) (string, error) {
		assert.Contains(t, userPrompt, "Selected interests: Creative")
		return `{"primary_interests":["design","art"],"extracted_keywords":["figma"],"personality_traits":["visual"],"confidence_level":"high","missing_info":[]}`, nil
	}}
	p := domain.NewUserProfile()
	p.ToggleCategory("Creative")

	got := newExtractor(t, client).Extract(context.Background(), p)
	assert.Equal(t, []string{"design", "art"}, got.PrimaryInterests)
	assert.Equal(t, []string{"figma"}, got.ExtractedKeywords)
	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
	assert.False(t, got.ParsingError)
}

func TestExtractIdempotentWithDeterministicProvider(t *testing.T) {
	t.Parallel()
	client := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		return `{"primary_interests":["music"],"extracted_keywords":[],"personality_traits":[],"confidence_level":"medium","missing_info":[]}`, nil
	}}
	ex := newExtractor(t, client)
	p := domain.NewUserProfile()
	p.SetFreeform("I play guitar")

	first := ex.Extract(context.Background(), p)
	second := ex.Extract(context.Background(), p)
	assert.Equal(t, first, second)
}

func TestExtractToleratesFencedReply(t *testing.T) {
	t.Parallel()
	client := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		return "```json\n{\"primary_interests\":[\"sports\"],\"extracted_keywords\":[],\"personality_traits\":[],\"confidence_level\":\"medium\",\"missing_info\":[]}\n```", nil
	}}
	p := domain.NewUserProfile()
	p.ToggleCategory("Physical")

	got := newExtractor(t, client).Extract(context.Background(), p)
	assert.Equal(t, []string{"sports"}, got.PrimaryInterests)
	assert.False(t, got.ParsingError)
}

func TestExtractParseFailureWrapsRawReply(t *testing.T) {
	t.Parallel()
	client := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		return "I think you would enjoy creative work!", nil
	}}
	p := domain.NewUserProfile()
	p.ToggleCategory("Creative")

	got := newExtractor(t, client).Extract(context.Background(), p)
	assert.True(t, got.ParsingError)
	assert.Equal(t, "I think you would enjoy creative work!", got.RawAnalysis)
	assert.Equal(t, domain.ConfidenceLow, got.EffectiveConfidence())
	assert.NotEmpty(t, got.MissingInfo)
}

func TestExtractProviderFailureUsesHeuristic(t *testing.T) {
	t.Parallel()
	p := domain.NewUserProfile()
	p.ToggleCategory("Analytical")
	p.ToggleCategory("Tech")
	p.SetFreeform("robots and chess")

	got := newExtractor(t, downAI()).Extract(context.Background(), p)
	assert.Equal(t, []string{"Analytical", "Tech"}, got.PrimaryInterests)
	assert.Equal(t, []string{"robots", "and", "chess"}, got.ExtractedKeywords)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
	assert.Empty(t, got.MissingInfo)
	assert.False(t, got.ParsingError)
}

func TestExtractMissingTemplateUsesHeuristic(t *testing.T) {
	t.Parallel()
	called := false
	client := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		called = true
		return "{}", nil
	}}
	ex := usecase.NewPreferenceExtractor(client, emptyPromptStore(t), "gpt-4", 1500, 4000)
	p := domain.NewUserProfile()
	p.ToggleCategory("Social")

	got := ex.Extract(context.Background(), p)
	assert.False(t, called, "provider must not be called without a template")
	assert.Equal(t, []string{"Social"}, got.PrimaryInterests)
	assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
}

func TestExtractLowConfidenceBackfillsMissingInfo(t *testing.T) {
	t.Parallel()
	client := &stubAI{chatFn: func(_ domain.Context, _, _ string, _ int) (string, error) {
		return `{"primary_interests":[],"extracted_keywords":[],"personality_traits":[],"confidence_level":"low","missing_info":[]}`, nil
	}}
	p := domain.NewUserProfile()
	p.SetFreeform("idk")

	got := newExtractor(t, client).Extract(context.Background(), p)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
	assert.NotEmpty(t, got.MissingInfo)
}

func TestSerializeEvidence(t *testing.T) {
	t.Parallel()
	p := domain.NewUserProfile()
	p.SetLifeStage("Career Switcher")
	p.ToggleCategory("Creative")
	p.SetFreeform("I sketch daily")
	p.AppendClarification("Preferred setting?", "studio")

	got := usecase.SerializeEvidence(p)
	require.NotEmpty(t, got)
	for _, want := range []string{
		"Life stage: Career Switcher",
		"Selected interests: Creative",
		"In their own words: I sketch daily",
		"Q: Preferred setting?",
		"A: studio",
	} {
		assert.True(t, strings.Contains(got, want), "missing %q in %q", want, got)
	}
}
