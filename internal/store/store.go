package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoadState tags the outcome of a dataset load so callers can tell a dataset
// that does not exist yet apart from one that could not be read. Writers
// refuse to proceed on LoadFailed rather than risk overwriting a corrupt
// file with a near-empty dataset.
type LoadState int

const (
	// LoadOK means the dataset file was read and parsed.
	LoadOK LoadState = iota
	// LoadEmpty means no dataset file exists yet.
	LoadEmpty
	// LoadFailed means the file exists but could not be read or parsed.
	LoadFailed
)

// FileStore persists the whole dataset as a single JSON file. Every save is
// a full overwrite staged through a temp file and rename, so a failed save
// leaves the previously persisted bytes untouched.
type FileStore struct {
	path   string
	pretty bool
}

// NewFileStore creates a file store for the configured dataset path.
func NewFileStore(cfg config.StoreConfig) *FileStore {
	return &FileStore{
		path:   cfg.Path,
		pretty: cfg.PrettyJSON,
	}
}

// Path returns the dataset file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the whole dataset into memory. It never fails the caller: on
// any problem it returns an empty dataset plus a LoadState describing what
// happened.
func (s *FileStore) Load() (models.Dataset, LoadState) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Dataset{Orders: []models.Order{}}, LoadEmpty
		}
		log.Error().Err(err).Str("path", s.path).Msg("Failed to read dataset file")
		return models.Dataset{Orders: []models.Order{}}, LoadFailed
	}

	if len(data) == 0 {
		return models.Dataset{Orders: []models.Order{}}, LoadEmpty
	}

	var dataset models.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to parse dataset file")
		return models.Dataset{Orders: []models.Order{}}, LoadFailed
	}

	if dataset.Orders == nil {
		dataset.Orders = []models.Order{}
	}

	return dataset, LoadOK
}

// Save overwrites the persisted dataset. The new contents are written to a
// temp file in the same directory and renamed into place, so readers never
// observe a partial file and a failure leaves the prior state on disk.
func (s *FileStore) Save(dataset models.Dataset) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(dataset, "", "  ")
	} else {
		data, err = json.Marshal(dataset)
	}
	if err != nil {
		return errors.Wrap(err, "failed to marshal dataset")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create dataset directory")
	}

	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temp dataset file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write temp dataset file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close temp dataset file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to replace dataset file")
	}

	return nil
}

// Backup copies the current dataset file into the backup directory with a
// timestamped name and returns the backup path. A missing dataset file is
// not an error; there is simply nothing to back up yet.
func (s *FileStore) Backup(backupDir string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read dataset for backup")
	}

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create backup directory")
	}

	name := fmt.Sprintf("orders-%s.json", time.Now().UTC().Format("20060102T150405Z"))
	dest := filepath.Join(backupDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write backup file")
	}

	return dest, nil
}

// PruneBackups removes the oldest backups beyond the keep limit.
func (s *FileStore) PruneBackups(backupDir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := filepath.Glob(filepath.Join(backupDir, "orders-*.json"))
	if err != nil {
		return errors.Wrap(err, "failed to list backups")
	}
	if len(entries) <= keep {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(entries)
	for _, old := range entries[:len(entries)-keep] {
		if err := os.Remove(old); err != nil {
			log.Warn().Err(err).Str("file", old).Msg("Failed to remove old backup")
		}
	}

	return nil
}
