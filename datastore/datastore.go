// Package datastore persists a single JSON document on disk. Every Save rewrites the whole
// document atomically; nothing is ever appended.
package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds configuration options for the DataStore
type Config struct {
	FilePath    string
	BackupCount int // Number of backup files to keep (0 = no backups)
	Logger      zerolog.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:    filePath,
		BackupCount: 3,
		Logger:      zerolog.Nop(),
	}
}

type DataStore struct {
	file         string
	mu           sync.Mutex // serializes file access
	config       *Config
	lastChecksum string // checksum of last written document
}

// New creates a new DataStore with default configuration
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a new DataStore with custom configuration
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, errors.New("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	ds := &DataStore{file: config.FilePath, config: config}

	// Initialize empty document if it doesn't exist
	if _, err := os.Stat(config.FilePath); errors.Is(err, os.ErrNotExist) {
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty JSON file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check file existence: %w", err)
	}

	return ds, nil
}

// Path returns the document location.
func (ds *DataStore) Path() string { return ds.file }

// Load decodes the whole document into v.
func (ds *DataStore) Load(v any) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	ds.lastChecksum = calculateChecksum(data)
	return nil
}

// Save replaces the document with v. It returns only after the new content is on disk and verified.
func (ds *DataStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	checksum := calculateChecksum(data)
	if checksum == ds.lastChecksum {
		return nil
	}

	if ds.config.BackupCount > 0 {
		if err := ds.createBackup(); err != nil {
			ds.config.Logger.Warn().Err(err).Str("file", ds.file).Msg("Failed to create backup")
		}
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}
	if err := ds.verifyFile(checksum); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	ds.lastChecksum = checksum
	return nil
}

// writeFileAtomic writes to a temporary file, syncs it and renames it over the document
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.file + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, ds.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (ds *DataStore) verifyFile(expected string) error {
	actual, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file for verification: %w", err)
	}
	if calculateChecksum(actual) != expected {
		return errors.New("file checksum mismatch")
	}
	return nil
}

// createBackup copies the current document to a timestamped sibling
func (ds *DataStore) createBackup() error {
	src, err := os.Open(ds.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	backupFile := fmt.Sprintf("%s.backup.%s", ds.file, time.Now().Format("20060102_150405.000000"))
	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	ds.cleanupOldBackups()
	return nil
}

// cleanupOldBackups removes the oldest backups beyond the configured limit
func (ds *DataStore) cleanupOldBackups() {
	matches, err := filepath.Glob(ds.file + ".backup.*")
	if err != nil || len(matches) <= ds.config.BackupCount {
		return
	}

	// names embed a sortable timestamp
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-ds.config.BackupCount] {
		if err := os.Remove(path); err != nil {
			ds.config.Logger.Warn().Err(err).Str("file", path).Msg("Failed to remove old backup")
		}
	}
}

func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
