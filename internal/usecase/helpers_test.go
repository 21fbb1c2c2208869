package usecase_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/prompts"
)

type stubAI struct {
	chatFn  func(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	embedFn func(ctx domain.Context, texts []string) ([][]float32, error)
}

func (s *stubAI) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if s.chatFn == nil {
		return "", errors.New("chat not stubbed")
	}
	return s.chatFn(ctx, systemPrompt, userPrompt, maxTokens)
}

func (s *stubAI) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if s.embedFn == nil {
		return nil, errors.New("embed not stubbed")
	}
	return s.embedFn(ctx, texts)
}

type stubIndex struct {
	queryFn func(ctx domain.Context, text string, k int) ([]domain.CareerHit, error)
}

func (s *stubIndex) Query(ctx domain.Context, text string, k int) ([]domain.CareerHit, error) {
	if s.queryFn == nil {
		return nil, errors.New("query not stubbed")
	}
	return s.queryFn(ctx, text, k)
}

func (s *stubIndex) Upsert(_ domain.Context, _ []domain.CareerRecord) error { return nil }

// downIndex always fails, simulating an unavailable vector store.
func downIndex() *stubIndex {
	return &stubIndex{queryFn: func(_ domain.Context, _ string, _ int) ([]domain.CareerHit, error) {
		return nil, domain.ErrIndexUnavailable
	}}
}

// downAI always fails, simulating an unreachable provider.
func downAI() *stubAI {
	fail := func(_ domain.Context, _, _ string, _ int) (string, error) {
		return "", domain.ErrProviderUnavailable
	}
	return &stubAI{chatFn: fail}
}

// promptStore writes the standard template files into a temp dir and returns
// a store over it.
func promptStore(t *testing.T) *prompts.Store {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		prompts.FilePreferenceExtraction: "Analyze:\n{conversation_history}\nReturn JSON.",
		prompts.FileClarifyingQuestions:  "Known: {user_context}\nMissing: {missing_info}\nStage: {conversation_stage}",
		prompts.FileCareerExplanation:    "Explain {career_name} for a {user_stage}.\n{user_profile}",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return prompts.NewStore(dir)
}

// emptyPromptStore points at a directory with no templates.
func emptyPromptStore(t *testing.T) *prompts.Store {
	t.Helper()
	return prompts.NewStore(t.TempDir())
}
