// Package corpus loads the career corpus from YAML and exposes the static
// fallback catalog used when retrieval is degraded.
package corpus

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

type corpusYAML struct {
	Careers []domain.CareerRecord `yaml:"careers"`
}

// Load reads career records from a YAML file. Records keep file order; that
// order is the corpus insertion order used for ranking tie-breaks.
func Load(path string) ([]domain.CareerRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus read: %w", err)
	}
	var doc corpusYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("corpus parse: %w", err)
	}
	if len(doc.Careers) == 0 {
		return nil, fmt.Errorf("%w: corpus has no careers", domain.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(doc.Careers))
	for _, c := range doc.Careers {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("%w: career record missing id or title", domain.ErrInvalidArgument)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate career id %q", domain.ErrInvalidArgument, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return doc.Careers, nil
}

// DocumentText builds the text embedded for a record: title, description,
// skills, and industry. Index build and query time must use the same shape.
func DocumentText(c domain.CareerRecord) string {
	return textx.JoinNonEmpty(" ", c.Title, c.Description, strings.Join(c.Skills, " "), c.Industry)
}

// FallbackCatalog returns the static catalog served when the vector index is
// unavailable or the query is empty. Always four records, fixed order.
func FallbackCatalog() []domain.CareerRecord {
	return []domain.CareerRecord{
		{
			ID:          "graphic_designer",
			Title:       "Graphic Designer",
			Tagline:     "Bring ideas to life visually.",
			Description: "Create visual concepts using computer software or by hand to communicate ideas that inspire, inform, and captivate consumers.",
			Industry:    "Design",
			Emoji:       "🎨",
		},
		{
			ID:          "data_analyst",
			Title:       "Data Analyst",
			Tagline:     "Find stories in numbers.",
			Description: "Collect, clean, and interpret data sets to answer questions or solve problems.",
			Industry:    "Technology",
			Emoji:       "📊",
		},
		{
			ID:          "sports_coach",
			Title:       "Sports Coach",
			Tagline:     "Inspire and train athletes.",
			Description: "Teach athletic skills and strategies while motivating athletes to develop their abilities.",
			Industry:    "Sports & Recreation",
			Emoji:       "🏃",
		},
		{
			ID:          "ux_researcher",
			Title:       "UX Researcher",
			Tagline:     "Understand users to build better products.",
			Description: "Study user behaviors and motivations to inform product design decisions.",
			Industry:    "Technology",
			Emoji:       "💻",
		},
	}
}
