package ioingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycfoodgap/foodgap/internal/ioingest"
	"github.com/nycfoodgap/foodgap/pkg/catalog"
	"github.com/nycfoodgap/foodgap/pkg/config"
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/foodgaps"
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/ntas2020"
	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

// stubStorage records the calls the pipeline makes.
type stubStorage struct {
	created    []string
	stored     []string
	upserted   []string
	failures   []string
	storeErr   error
	upsertErr  error
	exported   []string
	lastFrame  frame.Frame
	lastUnique []string
}

func (s *stubStorage) Init(context.Context) error { return nil }

func (s *stubStorage) CreateTableFromSchema(
	_ context.Context, d schema.Descriptor,
) error {
	s.created = append(s.created, d.TableName)
	return nil
}

func (s *stubStorage) Store(
	_ context.Context, f frame.Frame, table, datasetID, mode string,
) (int, error) {
	if s.storeErr != nil {
		return 0, s.storeErr
	}
	s.stored = append(s.stored, table)
	s.lastFrame = f
	return f.Len(), nil
}

func (s *stubStorage) Upsert(
	_ context.Context, f frame.Frame, table, datasetID string, unique []string,
) (int, error) {
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	s.upserted = append(s.upserted, table)
	s.lastFrame = f
	s.lastUnique = unique
	return f.Len(), nil
}

func (s *stubStorage) RecordFailure(
	_ context.Context, datasetID, table string,
) error {
	s.failures = append(s.failures, datasetID)
	return nil
}

func (s *stubStorage) ExportParquet(
	f frame.Frame, datasetID, path string,
) (string, error) {
	s.exported = append(s.exported, datasetID)
	return datasetID + ".parquet", nil
}

func (s *stubStorage) Query(
	context.Context, string, ...any,
) (frame.Frame, error) {
	return frame.Frame{}, nil
}

func (s *stubStorage) QueryScalar(
	context.Context, string, ...any,
) (any, error) {
	return nil, nil
}

func (s *stubStorage) Close() error { return nil }

func testCfg(rawDir string) *config.Config {
	cfg := config.New()
	cfg.Data.RawDir = rawDir
	return cfg
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const ntaExtract = `[
	{"nta2020": "MN0703", "ntaname": "Upper West Side", "borocode": "1",
	 "the_geom": {"type": "Point", "coordinates": [-73.97, 40.78]}}
]`

const gapsExtract = `[
	{"nta_code": "MN0703", "year": "2023", "supply_gap_lbs": "125000.5"}
]`

func TestRunReplaceDataset(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "ntas.json", ntaExtract)

	st := &stubStorage{}
	res, err := ioingest.Run(context.Background(), st, testCfg(dir),
		catalog.Entry{ID: "ntas_2020", Input: "ntas.json"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RowCount)
	assert.Equal(t, []string{"ntas_2020"}, st.created)
	assert.Equal(t, []string{"ntas_2020"}, st.stored)
	assert.Empty(t, st.upserted)
	assert.Equal(t, []string{"ntas_2020"}, st.exported)
	// The stored frame is the cleaned one.
	assert.True(t, st.lastFrame.Has("dataset_id"))
}

func TestRunUpsertDataset(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "gaps.json", gapsExtract)

	st := &stubStorage{}
	res, err := ioingest.Run(context.Background(), st, testCfg(dir),
		catalog.Entry{ID: "food_supply_gaps", Input: "gaps.json"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RowCount)
	assert.Equal(t, []string{"food_supply_gaps"}, st.upserted)
	assert.Empty(t, st.stored)
	assert.Equal(t, []string{"nta_code", "year"}, st.lastUnique)
}

func TestRunUnknownDataset(t *testing.T) {
	st := &stubStorage{}
	_, err := ioingest.Run(context.Background(), st, testCfg(t.TempDir()),
		catalog.Entry{ID: "mystery", Input: "x.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestRunValidationErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	// Extract missing required columns entirely.
	writeRaw(t, dir, "ntas.json", `[{"countyfips": "061"}]`)

	st := &stubStorage{}
	_, err := ioingest.Run(context.Background(), st, testCfg(dir),
		catalog.Entry{ID: "ntas_2020", Input: "ntas.json"})
	require.Error(t, err)

	assert.Empty(t, st.created)
	assert.Empty(t, st.stored)
	assert.Empty(t, st.failures)
}

func TestRunStorageFailureRecordsFailure(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "ntas.json", ntaExtract)

	st := &stubStorage{storeErr: errors.New("disk on fire")}
	_, err := ioingest.Run(context.Background(), st, testCfg(dir),
		catalog.Entry{ID: "ntas_2020", Input: "ntas.json"})
	require.Error(t, err)

	assert.Equal(t, []string{"ntas_2020"}, st.failures)
	assert.Empty(t, st.exported)
}
