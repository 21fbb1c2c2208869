package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/corpus"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "careers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKeepsFileOrder(t *testing.T) {
	t.Parallel()
	path := writeCorpus(t, `
careers:
  - id: teacher
    title: Teacher
    description: Educate students
    industry: Education
  - id: chef
    title: Chef
    description: Cook food
    industry: Food & Hospitality
`)
	records, err := corpus.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "teacher", records[0].ID)
	assert.Equal(t, "chef", records[1].ID)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty corpus", content: "careers: []"},
		{name: "missing id", content: "careers:\n  - title: Teacher\n"},
		{name: "missing title", content: "careers:\n  - id: teacher\n"},
		{name: "duplicate id", content: "careers:\n  - id: a\n    title: A\n  - id: a\n    title: B\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := corpus.Load(writeCorpus(t, tc.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := corpus.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadShippedCorpus(t *testing.T) {
	t.Parallel()
	records, err := corpus.Load("../../configs/corpus/careers.yaml")
	require.NoError(t, err)
	assert.Len(t, records, 10)
	for _, rec := range records {
		assert.NotEmpty(t, rec.ID)
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Description)
	}
}

func TestDocumentText(t *testing.T) {
	t.Parallel()
	rec := domain.CareerRecord{
		Title:       "Chef",
		Description: "Cook food",
		Skills:      []string{"Culinary Arts", "Leadership"},
		Industry:    "Food & Hospitality",
	}
	assert.Equal(t, "Chef Cook food Culinary Arts Leadership Food & Hospitality", corpus.DocumentText(rec))

	bare := domain.CareerRecord{Title: "Chef", Description: "Cook food"}
	assert.Equal(t, "Chef Cook food", corpus.DocumentText(bare))
}

func TestFallbackCatalog(t *testing.T) {
	t.Parallel()
	catalog := corpus.FallbackCatalog()
	require.Len(t, catalog, 4)
	assert.Equal(t, "graphic_designer", catalog[0].ID)
	assert.Equal(t, "data_analyst", catalog[1].ID)
	assert.Equal(t, "sports_coach", catalog[2].ID)
	assert.Equal(t, "ux_researcher", catalog[3].ID)

	// Callers may mutate their copy without corrupting the catalog.
	catalog[0].Title = "mutated"
	assert.Equal(t, "Graphic Designer", corpus.FallbackCatalog()[0].Title)
}
