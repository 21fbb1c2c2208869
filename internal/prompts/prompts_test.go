package prompts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/prompts"
)

func TestLoadExisting(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.txt"), []byte("  hello {name}  \n"), 0o600))

	s := prompts.NewStore(dir)
	assert.Equal(t, "hello {name}", s.Load("x.txt"))
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	s := prompts.NewStore(t.TempDir())
	assert.Empty(t, s.Load("absent.txt"))
}

func TestRender(t *testing.T) {
	t.Parallel()
	got := prompts.Render("Hi {name}, stage {stage}, again {name}.", map[string]string{
		"name":  "Ada",
		"stage": "context_check",
	})
	assert.Equal(t, "Hi Ada, stage context_check, again Ada.", got)
}

func TestRenderLeavesUnknownMarkers(t *testing.T) {
	t.Parallel()
	got := prompts.Render("known {a}, unknown {b}", map[string]string{"a": "1"})
	assert.Equal(t, "known 1, unknown {b}", got)
}

func TestRenderEmptyTemplate(t *testing.T) {
	t.Parallel()
	assert.Empty(t, prompts.Render("", map[string]string{"a": "1"}))
}
