package overlay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpgstat/internal/config"
)

// Store persists overrides between sessions.
type Store interface {
	LoadOverrides(ctx context.Context) (map[string]float64, error)
	SaveOverrides(ctx context.Context, overrides map[string]float64) error
}

// FileStore keeps overrides and feature toggles in one YAML file with an
// overrides section of key: value pairs and an optional toggles section.
type FileStore struct {
	Path string
}

type fileDocument struct {
	Overrides map[string]float64     `yaml:"overrides"`
	Toggles   *config.FeatureToggles `yaml:"toggles,omitempty"`
}

// NewFileStore returns a FileStore rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// read returns the file contents. A missing file yields an empty document.
func (f *FileStore) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("reading settings %s: %w", f.Path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing settings %s: %w", f.Path, err)
	}
	return doc, nil
}

func (f *FileStore) write(doc fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", f.Path, err)
	}
	return nil
}

// LoadOverrides reads the overrides section. A missing file yields an empty
// map.
func (f *FileStore) LoadOverrides(_ context.Context) (map[string]float64, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	if doc.Overrides == nil {
		return map[string]float64{}, nil
	}
	return doc.Overrides, nil
}

// SaveOverrides replaces the overrides section and keeps the toggles.
func (f *FileStore) SaveOverrides(_ context.Context, overrides map[string]float64) error {
	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Overrides = copyMap(overrides)
	return f.write(doc)
}

// LoadToggles reads the toggles section. ok is false when none were saved.
func (f *FileStore) LoadToggles(_ context.Context) (config.FeatureToggles, bool, error) {
	doc, err := f.read()
	if err != nil {
		return config.FeatureToggles{}, false, err
	}
	if doc.Toggles == nil {
		return config.FeatureToggles{}, false, nil
	}
	return *doc.Toggles, true, nil
}

// SaveToggles replaces the toggles section and keeps the overrides.
func (f *FileStore) SaveToggles(_ context.Context, t config.FeatureToggles) error {
	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Toggles = &t
	return f.write(doc)
}

// Restore loads persisted overrides from s into o.
func Restore(ctx context.Context, o *Overlay, s Store) error {
	values, err := s.LoadOverrides(ctx)
	if err != nil {
		return err
	}
	o.Load(values)
	return nil
}

// Persist saves the overrides of o into s.
func Persist(ctx context.Context, o *Overlay, s Store) error {
	return s.SaveOverrides(ctx, o.Overrides())
}
