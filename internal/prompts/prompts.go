// Package prompts loads plain-text prompt templates with named placeholders.
//
// Templates live under a directory configured at startup and use
// {placeholder} markers. A missing file is a recoverable condition: Load
// returns an empty template and the caller falls back to its deterministic
// path.
package prompts

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Template file names looked up under the prompts directory.
const (
	FilePreferenceExtraction = "preference_extraction.txt"
	FileClarifyingQuestions  = "clarifying_questions.txt"
	FileCareerExplanation    = "career_explanation.txt"
)

// Store resolves and renders prompt templates from a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads a template by file name. Missing or unreadable files yield an
// empty string; callers treat that as "template unavailable" and fall back.
func (s *Store) Load(name string) string {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		slog.Warn("prompt template unavailable", slog.String("name", name), slog.Any("error", err))
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Render substitutes {key} markers in tmpl with the given values.
// Unknown markers are left untouched.
func Render(tmpl string, vars map[string]string) string {
	if tmpl == "" {
		return ""
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
