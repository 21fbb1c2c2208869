// Package vector implements the career index on top of Qdrant: embedding
// documents, guarding the collection against embedding-model drift, and
// translating similarity scores into distances.
package vector

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/corpus"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// seedBatchSize bounds how many documents go into one embeddings call.
const seedBatchSize = 16

// metaPointName seeds the UUID of the reserved point that records which
// embedding model produced the collection's vectors.
const metaPointName = "meta:model"

var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// EmbeddingIndex implements domain.CareerIndex backed by Qdrant.
type EmbeddingIndex struct {
	qd         *qdrant.Client
	ai         domain.AIClient
	collection string
	model      string
	dim        int
}

// NewEmbeddingIndex constructs an index over the given collection.
func NewEmbeddingIndex(qd *qdrant.Client, ai domain.AIClient, collection, model string, dim int) *EmbeddingIndex {
	return &EmbeddingIndex{qd: qd, ai: ai, collection: collection, model: model, dim: dim}
}

// PointID derives a stable UUID for a career id so repeated seeding upserts
// in place instead of duplicating points.
func PointID(careerID string) string {
	return uuid.NewSHA1(pointNamespace, []byte("career:"+careerID)).String()
}

func metaPointID() string {
	return uuid.NewSHA1(pointNamespace, []byte(metaPointName)).String()
}

// EnsureReady creates the collection if needed and verifies that the stored
// embedding model matches the configured one. Vectors from different models
// are not comparable, so a mismatch is a startup failure, not a degraded
// mode.
func (x *EmbeddingIndex) EnsureReady(ctx domain.Context) error {
	if err := x.qd.EnsureCollection(ctx, x.collection, x.dim, "Cosine"); err != nil {
		return fmt.Errorf("%w: ensure collection: %v", domain.ErrIndexUnavailable, err)
	}
	payload, err := x.qd.GetPoint(ctx, x.collection, metaPointID())
	if err != nil {
		return fmt.Errorf("%w: read model marker: %v", domain.ErrIndexUnavailable, err)
	}
	if payload == nil {
		// Fresh collection: write the marker. The vector is a unit vector so
		// Qdrant accepts it under cosine distance; Query filters it out by
		// payload kind.
		vec := make([]float32, x.dim)
		vec[0] = 1
		meta := map[string]any{"kind": "meta", "embeddings_model": x.model}
		if err := x.qd.UpsertPoints(ctx, x.collection, [][]float32{vec}, []map[string]any{meta}, []any{metaPointID()}); err != nil {
			return fmt.Errorf("%w: write model marker: %v", domain.ErrIndexUnavailable, err)
		}
		slog.Info("career index initialized", slog.String("collection", x.collection), slog.String("embeddings_model", x.model))
		return nil
	}
	stored, _ := payload["embeddings_model"].(string)
	if stored != x.model {
		return fmt.Errorf("%w: collection %q built with %q, configured %q", domain.ErrModelMismatch, x.collection, stored, x.model)
	}
	return nil
}

// Upsert embeds and writes career records in batches.
func (x *EmbeddingIndex) Upsert(ctx domain.Context, records []domain.CareerRecord) error {
	for start := 0; start < len(records); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = corpus.DocumentText(rec)
		}
		vecs, err := x.ai.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed corpus batch: %w", err)
		}
		payloads := make([]map[string]any, len(batch))
		ids := make([]any, len(batch))
		for i, rec := range batch {
			p, err := recordPayload(rec)
			if err != nil {
				return err
			}
			payloads[i] = p
			ids[i] = PointID(rec.ID)
		}
		if err := x.qd.UpsertPoints(ctx, x.collection, vecs, payloads, ids); err != nil {
			return fmt.Errorf("%w: upsert batch: %v", domain.ErrIndexUnavailable, err)
		}
	}
	return nil
}

// Query embeds the text and returns up to k nearest careers. Distance is
// 1 - cosine similarity, so smaller is closer.
func (x *EmbeddingIndex) Query(ctx domain.Context, text string, k int) ([]domain.CareerHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: non-positive k", domain.ErrInvalidArgument)
	}
	vecs, err := x.ai.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	// Over-fetch one so the meta marker never crowds out a real hit.
	results, err := x.qd.Search(ctx, x.collection, vecs[0], k+1)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrIndexUnavailable, err)
	}
	hits := make([]domain.CareerHit, 0, k)
	for _, r := range results {
		if kind, _ := r.Payload["kind"].(string); kind == "meta" {
			continue
		}
		rec, err := payloadRecord(r.Payload)
		if err != nil {
			slog.Warn("skipping malformed index payload", slog.Any("id", r.ID), slog.Any("error", err))
			continue
		}
		hits = append(hits, domain.CareerHit{Career: rec, Distance: 1 - r.Score})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func recordPayload(rec domain.CareerRecord) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: encode career %q: %v", domain.ErrInternal, rec.ID, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: encode career %q: %v", domain.ErrInternal, rec.ID, err)
	}
	return m, nil
}

func payloadRecord(p map[string]any) (domain.CareerRecord, error) {
	var rec domain.CareerRecord
	b, err := json.Marshal(p)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, err
	}
	if rec.ID == "" {
		return rec, fmt.Errorf("payload has no career id")
	}
	return rec, nil
}

var _ domain.CareerIndex = (*EmbeddingIndex)(nil)
