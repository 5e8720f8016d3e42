package ioapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycfoodgap/foodgap/pkg/config"
	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
	"github.com/nycfoodgap/foodgap/pkg/storage"
)

type stubStorage struct {
	scalar    any
	scalarErr error
	closed    bool
}

func (s *stubStorage) Init(ctx context.Context) error { return nil }

func (s *stubStorage) CreateTableFromSchema(ctx context.Context, d schema.Descriptor) error {
	return nil
}

func (s *stubStorage) Store(
	ctx context.Context, f frame.Frame, tableName, datasetID, mode string,
) (int, error) {
	return 0, nil
}

func (s *stubStorage) Upsert(
	ctx context.Context, f frame.Frame, tableName, datasetID string,
	uniqueColumns []string,
) (int, error) {
	return 0, nil
}

func (s *stubStorage) RecordFailure(ctx context.Context, datasetID, tableName string) error {
	return nil
}

func (s *stubStorage) ExportParquet(f frame.Frame, datasetID, path string) (string, error) {
	return path, nil
}

func (s *stubStorage) Query(
	ctx context.Context, sql string, args ...any,
) (frame.Frame, error) {
	return frame.New(nil), nil
}

func (s *stubStorage) QueryScalar(
	ctx context.Context, sql string, args ...any,
) (any, error) {
	return s.scalar, s.scalarErr
}

func (s *stubStorage) Close() error {
	s.closed = true
	return nil
}

func newTestServer(st *stubStorage, factoryErr error) *Server {
	cfg := config.New()
	return NewServer(cfg, func(ctx context.Context) (storage.Storage, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return st, nil
	})
}

func TestRoot(t *testing.T) {
	srv := newTestServer(&stubStorage{}, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NYC Food Gap Visualization API", body["message"])
}

func TestFoodGaps(t *testing.T) {
	doc := `{"type": "FeatureCollection", "features": [{"type": "Feature"}]}`
	st := &stubStorage{scalar: doc}
	srv := newTestServer(st, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/food-gaps", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, doc, w.Body.String())
	assert.True(t, st.closed, "storage must be closed after the request")
}

func TestFoodGapsEmpty(t *testing.T) {
	// json_agg over zero rows yields SQL NULL; the scalar comes back nil.
	st := &stubStorage{scalar: nil}
	srv := newTestServer(st, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/food-gaps", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Nil(t, body["features"])
	assert.True(t, st.closed)
}

func TestFoodGapsQueryError(t *testing.T) {
	st := &stubStorage{scalarErr: errors.New("relation does not exist")}
	srv := newTestServer(st, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/food-gaps", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "relation does not exist")
	assert.True(t, st.closed, "storage must be closed on the error path too")
}

func TestFoodGapsStorageError(t *testing.T) {
	srv := newTestServer(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/food-gaps", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "connection refused")
}
