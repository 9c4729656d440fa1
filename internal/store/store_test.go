package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "orders.json"),
	})
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	dataset, state := s.Load()
	require.Equal(t, LoadEmpty, state)
	require.Empty(t, dataset.Orders)
}

func TestLoadCorruptFileIsFailed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	dataset, state := s.Load()
	require.Equal(t, LoadFailed, state)
	require.Empty(t, dataset.Orders)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	dataset := models.Dataset{Orders: []models.Order{
		{
			OrderNumber: "O-1",
			OrderStatus: models.StatusPending,
			Items: []models.Item{
				{ItemID: "I-1", Bottles: []models.Bottle{
					{DecoCode: "D-1", Name: "amber-500ml", Quantity: 100, AvailableStock: 500, Status: models.StatusPending},
				}},
			},
		},
	}}

	require.NoError(t, s.Save(dataset))

	loaded, state := s.Load()
	require.Equal(t, LoadOK, state)
	require.Equal(t, dataset, loaded)
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(models.Dataset{Orders: []models.Order{{OrderNumber: "O-1"}, {OrderNumber: "O-2"}}}))
	require.NoError(t, s.Save(models.Dataset{Orders: []models.Order{{OrderNumber: "O-3"}}}))

	loaded, state := s.Load()
	require.Equal(t, LoadOK, state)
	require.Len(t, loaded.Orders, 1)
	require.Equal(t, "O-3", loaded.Orders[0].OrderNumber)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(models.Dataset{Orders: []models.Order{}}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Base(s.Path()), entries[0].Name())
}

func TestBackupAndPrune(t *testing.T) {
	s := newTestStore(t)
	backupDir := filepath.Join(filepath.Dir(s.Path()), "backups")

	// No dataset yet: nothing to back up, not an error.
	dest, err := s.Backup(backupDir)
	require.NoError(t, err)
	require.Empty(t, dest)

	require.NoError(t, s.Save(models.Dataset{Orders: []models.Order{{OrderNumber: "O-1"}}}))

	dest, err = s.Backup(backupDir)
	require.NoError(t, err)
	require.FileExists(t, dest)

	original, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, original, copied)

	// Extra backups beyond the keep limit get pruned.
	for i := 0; i < 3; i++ {
		name := filepath.Join(backupDir, "orders-2000010"+string(rune('1'+i))+"T000000Z.json")
		require.NoError(t, os.WriteFile(name, []byte("{}"), 0o644))
	}

	require.NoError(t, s.PruneBackups(backupDir, 2))

	remaining, err := filepath.Glob(filepath.Join(backupDir, "orders-*.json"))
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}
