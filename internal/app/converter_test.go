package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/counts2csv/internal/adapters/progress"
	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields ...ports.Field) { m.record(msg) }

func (m *mockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.msgs...)
}

// stubReader returns a fixed dataset or error for every path.
type stubReader struct {
	ds  domain.Dataset
	err error
}

func (s stubReader) Read(ctx context.Context, path string) (domain.Dataset, error) {
	return s.ds, s.err
}

func testDataset(t *testing.T) domain.Dataset {
	t.Helper()
	m, err := domain.NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float32{1, 0.5, 4})
	require.NoError(t, err)
	return domain.Dataset{
		Matrix:   m,
		ObsNames: []string{"c1", "c2"},
		VarNames: []string{"g1", "g2", "g3"},
	}
}

func TestConverter_Convert(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	logger := &mockLogger{}
	c := NewConverter(stubReader{ds: testDataset(t)}, progress.NewFactory(nil, false), logger)

	res, err := c.Convert(context.Background(), Job{
		Input:     "in.h5ad",
		Output:    out,
		Delimiter: domain.Comma,
		Orient:    domain.VarNames,
	})
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "cell,g1,g2,g3\nc1,1.0,0.0,0.5\nc2,0.0,4.0,0.0\n"
	assert.Equal(t, want, string(b))

	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 3, res.Cols)
	assert.Equal(t, int64(len(want)), res.Bytes)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, []string{"Reading H5 file", "Writing " + out, "Done writing " + out}, logger.Messages())
}

func TestConverter_ConvertObsNamesTab(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.tsv")
	c := NewConverter(stubReader{ds: testDataset(t)}, progress.NewFactory(nil, false), &mockLogger{})

	_, err := c.Convert(context.Background(), Job{Output: out, Delimiter: domain.Tab, Orient: domain.ObsNames})
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "gene\tc1\tc2\ng1\t1.0\t0.0\ng2\t0.0\t4.0\ng3\t0.5\t0.0\n", string(b))
}

func TestConverter_ReadErrorLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	boom := errors.New("boom")
	c := NewConverter(stubReader{err: boom}, progress.NewFactory(nil, false), &mockLogger{})

	_, err := c.Convert(context.Background(), Job{Input: "in.h5ad", Output: out})
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConverter_InvalidDatasetLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t)
	ds.VarNames = ds.VarNames[:2]
	c := NewConverter(stubReader{ds: ds}, progress.NewFactory(nil, false), &mockLogger{})

	_, err := c.Convert(context.Background(), Job{Output: filepath.Join(dir, "out.csv")})
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConverter_CanceledRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConverter(stubReader{ds: testDataset(t)}, progress.NewFactory(nil, false), &mockLogger{})

	_, err := c.Convert(ctx, Job{Output: filepath.Join(dir, "out.csv")})
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
