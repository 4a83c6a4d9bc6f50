package context

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	contextsFileName = "contexts.yaml"
	userConfigDir    = ".config/raccoon"
)

// Storage reads and writes contexts.yaml. It is safe for concurrent use
// within one process only.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage uses ~/.config/raccoon.
func NewStorage() (*Storage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return NewStorageWithPath(filepath.Join(home, userConfigDir)), nil
}

// NewStorageWithPath uses dir instead of the default directory.
func NewStorageWithPath(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) path() string {
	return filepath.Join(s.dir, contextsFileName)
}

// Load reads contexts.yaml. A missing file is an empty File.
func (s *Storage) Load() (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Storage) load() (*File, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contexts file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path(), err)
	}
	return &f, nil
}

func (s *Storage) save(f *File) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal contexts: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write contexts file: %w", err)
	}
	return nil
}

// update applies fn to the file under the write lock and saves the result.
func (s *Storage) update(fn func(f *File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.save(f)
}

// Add stores a new context. The first context added becomes current.
func (s *Storage) Add(ctx Context) error {
	if err := ValidateName(ctx.Name); err != nil {
		return err
	}
	if err := ValidateEndpoint(ctx.Endpoint); err != nil {
		return err
	}
	return s.update(func(f *File) error {
		if f.Get(ctx.Name) != nil {
			return fmt.Errorf("context %q already exists", ctx.Name)
		}
		f.Put(ctx)
		if f.CurrentContext == "" {
			f.CurrentContext = ctx.Name
		}
		return nil
	})
}

// Delete removes a context.
func (s *Storage) Delete(name string) error {
	return s.update(func(f *File) error {
		if !f.Remove(name) {
			return &NotFoundError{Name: name}
		}
		return nil
	})
}

// Use makes name the current context.
func (s *Storage) Use(name string) error {
	return s.update(func(f *File) error {
		if f.Get(name) == nil {
			return &NotFoundError{Name: name}
		}
		f.CurrentContext = name
		return nil
	})
}
