package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"checkin-manager/internal/domain"
)

// FileRepository implements domain.SettingsRepository with a single
// document on an afero filesystem. The format follows the file extension:
// .json, .yaml/.yml or .toml.
// This is a secondary adapter.
type FileRepository struct {
	fs    afero.Fs
	path  string
	codec codec
	mu    sync.Mutex
}

// NewFileRepository creates a new file-based settings repository.
func NewFileRepository(fs afero.Fs, path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &FileRepository{fs: fs, path: path, codec: c}, nil
}

// NewOSFileRepository stores the document on the host filesystem.
func NewOSFileRepository(path string) (*FileRepository, error) {
	return NewFileRepository(afero.NewOsFs(), path)
}

// Load reads the settings from disk, or returns defaults when the file
// does not exist yet.
func (f *FileRepository) Load() (*domain.Settings, domain.ShiftSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultSettings(), nil, nil
		}
		return nil, nil, fmt.Errorf("read state: %w", err)
	}

	var persisted persistedData
	if err := f.codec.unmarshal(data, &persisted); err != nil {
		return nil, nil, fmt.Errorf("unmarshal %s state: %w", f.codec.name, err)
	}
	return fromPersisted(persisted)
}

// Save persists the settings atomically.
func (f *FileRepository) Save(settings *domain.Settings, undo domain.ShiftSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.codec.marshal(toPersisted(settings, undo))
	if err != nil {
		return fmt.Errorf("marshal %s state: %w", f.codec.name, err)
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// Path returns the backing file location.
func (f *FileRepository) Path() string {
	return f.path
}
