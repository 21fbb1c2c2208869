package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
)

func TestEnsureCollectionExisting(t *testing.T) {
	t.Parallel()
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			created = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	require.NoError(t, c.EnsureCollection(context.Background(), "careers", 1536, "Cosine"))
	assert.False(t, created)
}

func TestEnsureCollectionCreates(t *testing.T) {
	t.Parallel()
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	require.NoError(t, c.EnsureCollection(context.Background(), "careers", 1536, "Cosine"))
	vectors, ok := body["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1536), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestEnsureCollectionCreateFails(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	assert.Error(t, c.EnsureCollection(context.Background(), "careers", 1536, "Cosine"))
}

func TestUpsertPoints(t *testing.T) {
	t.Parallel()
	var body struct {
		Points []struct {
			ID      any            `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/careers/points", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	err := c.UpsertPoints(context.Background(), "careers",
		[][]float32{{1, 0}, {0, 1}},
		[]map[string]any{{"id": "a"}, {"id": "b"}},
		[]any{"id-a", "id-b"},
	)
	require.NoError(t, err)
	require.Len(t, body.Points, 2)
	assert.Equal(t, "id-a", body.Points[0].ID)
	assert.Equal(t, map[string]any{"id": "b"}, body.Points[1].Payload)
}

func TestUpsertPointsLengthMismatch(t *testing.T) {
	t.Parallel()
	c := qdrant.New("http://unused", "")
	err := c.UpsertPoints(context.Background(), "careers", [][]float32{{1}}, nil, nil)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/careers/points/search", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(3), req["limit"])
		assert.Equal(t, true, req["with_payload"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": "p1", "score": 0.91, "payload": map[string]any{"id": "data_analyst"}},
				{"id": "p2", "score": 0.42, "payload": map[string]any{"id": "chef"}},
			},
		})
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	res, err := c.Search(context.Background(), "careers", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 0.91, res[0].Score)
	assert.Equal(t, "chef", res[1].Payload["id"])
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	_, err := c.Search(context.Background(), "careers", []float32{1}, 3)
	assert.Error(t, err)
}

func TestGetPoint(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections/careers/points/known":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"payload": map[string]any{"kind": "meta"}},
			})
		case "/collections/careers/points/bare":
			_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")

	payload, err := c.GetPoint(context.Background(), "careers", "known")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "meta"}, payload)

	payload, err = c.GetPoint(context.Background(), "careers", "bare")
	require.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Empty(t, payload)

	payload, err = c.GetPoint(context.Background(), "careers", "absent")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/readyz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, qdrant.New(srv.URL, "").Healthz(context.Background()))
}

func TestAPIKeyHeader(t *testing.T) {
	t.Parallel()
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, qdrant.New(srv.URL, "secret").Healthz(context.Background()))
	assert.Equal(t, "secret", gotKey)
}
