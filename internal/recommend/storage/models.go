// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package storage provides versioned persistence for trained models.
//
// Each version is written to {name}_v{version}.gob.gz: a gob-encoded header
// carrying metadata and a SHA-256 checksum, followed by the gzip-compressed
// model bytes. Files are written to a temporary name and renamed into place
// so readers never see a partial model.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const modelExt = ".gob.gz"

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model name (e.g., "cf_model").
	Name string `json:"name"`

	// Version is the model version (monotonically increasing).
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// InteractionCount is the number of ratings used for training.
	InteractionCount int `json:"interaction_count"`

	ItemCount int `json:"item_count"`
	UserCount int `json:"user_count"`

	// Rank is the latent dimension.
	Rank int `json:"rank"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Store manages model persistence.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per model name
	versions map[string]int
}

// NewStore creates a new model store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	files, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	for name, versions := range files {
		s.versions[name] = slices.Max(versions)
	}

	return s, nil
}

// scan groups the versions found on disk by model name.
func (s *Store) scan() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	found := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelExt) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), modelExt))
		if name == "" {
			continue
		}
		found[name] = append(found[name], version)
	}
	return found, nil
}

// parseModelFilename splits "cf_model_v3" into ("cf_model", 3).
func parseModelFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0
	}
	return base[:idx], version
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Save stores a model with the given name and version. data is gob-encoded,
// so it may implement encoding.BinaryMarshaler.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if version < 1 {
		return fmt.Errorf("model version must be positive, got %d", version)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()
	meta.Name = name
	meta.Version = version

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(s.modelPath(name, version), storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return err
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	return nil
}

func (s *Store) writeFile(path string, sf storedFile) error {
	tmp, err := os.CreateTemp(s.baseDir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install model file: %w", err)
	}
	return nil
}

// Load loads a model by name and version into target.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("no model found for %s", name)
		}
	}

	sf, err := readStoredFile(s.modelPath(name, version))
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is constructed from trusted name parameter
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// GetLatestVersion returns the latest version number for a model.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// ListModels returns metadata for every stored version, newest first within
// each name.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	models := make([]ModelMetadata, 0)
	for _, name := range names {
		versions := files[name]
		slices.Sort(versions)
		slices.Reverse(versions)
		for _, v := range versions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sf, err := readStoredFile(s.modelPath(name, v))
			if err != nil {
				continue
			}
			models = append(models, sf.Metadata)
		}
	}
	return models, nil
}

// Delete removes a specific model version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}

	files, err := s.scan()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if versions := files[name]; len(versions) > 0 {
		s.versions[name] = slices.Max(versions)
	} else {
		delete(s.versions, name)
	}
	return nil
}

// Prune removes old model versions, keeping only the latest N versions.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}
	if _, ok := s.versions[name]; !ok {
		return nil
	}

	files, err := s.scan()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	versions := files[name]
	slices.Sort(versions)
	slices.Reverse(versions)
	for i := keepVersions; i < len(versions); i++ {
		_ = os.Remove(s.modelPath(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}

	return nil
}

// modelPath returns the file path for a model.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelExt))
}
