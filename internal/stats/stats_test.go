package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRelay(t *testing.T) {
	s := New("")
	s.RecordRelay(1, OutcomeSuccess, 100)
	s.RecordRelay(1, OutcomeFailed, 50)
	s.RecordRelay(2, OutcomeCancelled, 0)
	s.RecordRelay(3, OutcomeSuccess, 20)

	snap := s.Snapshot()
	assert.Equal(t, int64(4), snap.TotalRelays)
	assert.Equal(t, int64(2), snap.SuccessRelays)
	assert.Equal(t, int64(1), snap.FailedRelays)
	assert.Equal(t, int64(1), snap.CancelledRelays)
	assert.Equal(t, int64(120), snap.TotalBytes, "only successful relays count bytes")
	assert.Equal(t, 3, snap.UniqueUsers)
	assert.Equal(t, int64(4), snap.TodayRelays)
	assert.Equal(t, int64(120), snap.TodayBytes)
	assert.False(t, snap.LastRelayTime.IsZero())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "stats.json")

	s := New(path)
	s.RecordRelay(7, OutcomeSuccess, 2048)
	require.NoError(t, s.SaveToFile())

	loaded := New(path)
	require.NoError(t, loaded.LoadFromFile())
	snap := loaded.Snapshot()
	assert.Equal(t, int64(1), snap.SuccessRelays)
	assert.Equal(t, int64(2048), snap.TotalBytes)
	assert.Equal(t, 1, snap.UniqueUsers)
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, s.LoadFromFile())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Error(t, New(path).LoadFromFile())
}

func TestNoPathDisablesPersistence(t *testing.T) {
	s := New("")
	assert.NoError(t, s.SaveToFile())
	assert.NoError(t, s.LoadFromFile())
}

func TestFreeSpace(t *testing.T) {
	free, err := FreeSpace(filepath.Join(t.TempDir(), "not", "created", "yet"))
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
