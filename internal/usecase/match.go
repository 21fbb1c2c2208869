package usecase

import (
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/corpus"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// DefaultTopK is the match set size when the caller does not specify one.
const DefaultTopK = 4

// MatchingEngine ranks careers against the profile's accumulated preferences.
// It never fails: an empty query or an unavailable index resolves to the
// static fallback catalog.
type MatchingEngine struct {
	index domain.CareerIndex
	topK  int
}

// NewMatchingEngine wires the engine over the career index.
func NewMatchingEngine(index domain.CareerIndex, topK int) *MatchingEngine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &MatchingEngine{index: index, topK: topK}
}

// BuildQuery constructs the retrieval query: analysis interests plus
// keywords when an analysis exists, otherwise raw selections plus free text.
func BuildQuery(p *domain.UserProfile) string {
	var parts []string
	if p.Analysis != nil && !p.Analysis.ParsingError {
		parts = append(parts, p.Analysis.PrimaryInterests...)
		parts = append(parts, p.Analysis.ExtractedKeywords...)
	} else {
		parts = append(parts, p.SelectedCategories...)
		if p.FreeformText != "" {
			parts = append(parts, p.FreeformText)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Match returns up to k ranked careers for the profile. Ties keep corpus
// insertion order; the result is never padded past the corpus size.
func (m *MatchingEngine) Match(ctx domain.Context, p *domain.UserProfile, k int) domain.MatchResult {
	if k <= 0 {
		k = m.topK
	}
	query := BuildQuery(p)
	if query == "" {
		observability.RecordFallback("matcher", "empty_query")
		return fallbackMatches(k)
	}
	hits, err := m.index.Query(ctx, query, k)
	if err != nil {
		// Degraded capability, not an error: the catalog keeps the flow
		// moving and the notice layer tells the user.
		slog.Warn("match degraded to fallback catalog", slog.Any("error", err))
		observability.RecordFallback("matcher", "index")
		return fallbackMatches(k)
	}
	if len(hits) == 0 {
		observability.RecordFallback("matcher", "no_results")
		return fallbackMatches(k)
	}
	result := make(domain.MatchResult, 0, len(hits))
	scores := make([]float64, 0, len(hits))
	for _, h := range hits {
		score := clamp01(1 - h.Distance)
		result = append(result, domain.ScoredCareer{Career: h.Career, Score: score})
		scores = append(scores, score)
	}
	observability.ObserveMatchScores(scores)
	return result
}

// Related returns up to k careers near the given record, excluding the
// record itself. Degrades to an empty list; related roles are informational.
func (m *MatchingEngine) Related(ctx domain.Context, career domain.CareerRecord, k int) []domain.CareerRecord {
	if k <= 0 {
		k = 3
	}
	query := strings.TrimSpace(career.Industry + " " + strings.Join(career.Skills, " "))
	if query == "" {
		return nil
	}
	hits, err := m.index.Query(ctx, query, k+1)
	if err != nil {
		slog.Warn("related roles unavailable", slog.Any("error", err))
		observability.RecordFallback("matcher", "related")
		return nil
	}
	out := make([]domain.CareerRecord, 0, k)
	for _, h := range hits {
		if h.Career.ID == career.ID {
			continue
		}
		out = append(out, h.Career)
		if len(out) == k {
			break
		}
	}
	return out
}

// fallbackMatches maps the static catalog into a MatchResult with synthetic
// descending scores so ordering semantics match the retrieval path.
func fallbackMatches(k int) domain.MatchResult {
	catalog := corpus.FallbackCatalog()
	if k > len(catalog) {
		k = len(catalog)
	}
	result := make(domain.MatchResult, 0, k)
	for i := 0; i < k; i++ {
		result = append(result, domain.ScoredCareer{
			Career: catalog[i],
			Score:  0.95 - 0.05*float64(i),
		})
	}
	return result
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
