package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkproof/galley/internal/models"
)

func TestCreateLocalBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := Create(BackendLocal, map[string]any{"root": dir})
	require.NoError(t, err)

	l, ok := s.(*Local)
	require.True(t, ok)
	assert.Equal(t, dir, l.Root())
}

func TestCreateDefaultsToLocal(t *testing.T) {
	s, err := Create("", nil)
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)
}

func TestCreateUnknownBackend(t *testing.T) {
	_, err := Create("ftp", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestCreateAzureRequiresAccount(t *testing.T) {
	_, err := Create(BackendAzure, map[string]any{"container": "drafts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account")
}

func sampleResult() *models.EvaluationResult {
	return &models.EvaluationResult{
		EvalID:    "4f2c6a1e-aaaa-bbbb-cccc-000000000000",
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Manuscript: models.ManuscriptInfo{
			Filename:  "draft.docx",
			Format:    "docx",
			CharCount: 4821,
		},
		Setup: models.ResultSetup{ModelID: "mock", TimeoutSec: 30, Workers: 4, MockMode: true},
		CategoryScores: []models.CategoryScore{
			{Category: models.CategoryPlot, Score: 78, Summary: "Coherent arc.", Strengths: []string{"Stakes"}, Weaknesses: []string{"Middle sags"}, Sourced: models.SourceMock},
		},
		CompositeScore: 78,
		Methods:        []models.Method{models.MethodBasic},
		Degraded:       true,
	}
}

func TestResultArtifactRoundTrip(t *testing.T) {
	s := NewLocal(t.TempDir())
	ctx := context.Background()
	want := sampleResult()

	require.NoError(t, WriteResult(ctx, s, "results/draft.json", want))

	// Stored bytes are a zstd frame, not plain JSON.
	raw, err := s.Retrieve(ctx, "results/draft.json")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, zstdMagic, raw[:4])

	got, err := ReadResult(ctx, s, "results/draft.json")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeResultPlainJSON(t *testing.T) {
	s := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "plain.json", []byte(`{"eval_id":"abc","composite_score":64}`)))

	got, err := ReadResult(ctx, s, "plain.json")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.EvalID)
	assert.Equal(t, 64.0, got.CompositeScore)
}

func TestDecodeResultGarbage(t *testing.T) {
	_, err := DecodeResult([]byte("not a result"))
	assert.Error(t, err)
}

func TestReadResultMissingKey(t *testing.T) {
	_, err := ReadResult(context.Background(), NewLocal(t.TempDir()), "absent.json")
	assert.ErrorIs(t, err, ErrNotFound)
}
