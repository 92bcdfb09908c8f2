package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// File serves settings from a YAML document on disk. Load happens at
// construction; Watch reloads the document whenever the file is rewritten,
// keeping the last good snapshot on parse errors.
type File struct {
	path      string
	logger    *slog.Logger
	precision int

	mu      sync.RWMutex
	tenants map[string]map[string]*domain.Setting

	watcher *fsnotify.Watcher
	done    chan struct{}
	closeMu sync.Once
}

type fileDocument struct {
	Settings []settingRecord `yaml:"settings"`
}

// NewFile loads the document at path. The returned store is usable without
// Watch; reloads then only happen through explicit Reload calls.
func NewFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := &File{
		path:      path,
		logger:    logger,
		precision: domain.DefaultPrecision,
		done:      make(chan struct{}),
	}

	if err := f.Reload(); err != nil {
		return nil, err
	}

	return f, nil
}

// SetPrecision changes the precision used to validate loaded documents.
func (f *File) SetPrecision(precision int) {
	f.mu.Lock()
	f.precision = precision
	f.mu.Unlock()
}

// Reload re-reads and re-validates the document, swapping the snapshot
// atomically on success.
func (f *File) Reload() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read settings file %q: %w", f.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse settings file %q: %w", f.path, err)
	}

	f.mu.RLock()
	precision := f.precision
	f.mu.RUnlock()

	tenants := make(map[string]map[string]*domain.Setting)
	for _, record := range doc.Settings {
		setting, err := record.toDomain()
		if err != nil {
			return err
		}
		if err := setting.Validate(precision); err != nil {
			return fmt.Errorf("setting %q: %w", setting.Key, err)
		}

		byKey, ok := tenants[record.Tenant]
		if !ok {
			byKey = make(map[string]*domain.Setting)
			tenants[record.Tenant] = byKey
		}
		byKey[setting.Key] = setting
	}

	f.mu.Lock()
	f.tenants = tenants
	f.mu.Unlock()

	f.logger.Info("settings file loaded", "path", f.path, "settings", len(doc.Settings))
	return nil
}

// Watch starts reloading on file rewrites until Close is called. A reload
// failure keeps the previous snapshot and is logged, never fatal.
func (f *File) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", f.path, err)
	}

	f.watcher = watcher

	go func() {
		for {
			select {
			case <-f.done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(f.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := f.Reload(); err != nil {
					f.logger.Warn("settings reload failed, keeping previous snapshot",
						"path", f.path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("settings watcher error", "path", f.path, "error", err)
			}
		}
	}()

	return nil
}

// Close stops the watcher, if any.
func (f *File) Close() error {
	var err error
	f.closeMu.Do(func() {
		close(f.done)
		if f.watcher != nil {
			err = f.watcher.Close()
		}
	})
	return err
}

// GetSetting implements domain.SettingStore.
func (f *File) GetSetting(_ context.Context, tenantID, key string) (*domain.Setting, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if byKey, ok := f.tenants[tenantID]; ok {
		if setting, found := byKey[key]; found {
			return setting, nil
		}
	}

	return nil, domain.NewNotFoundError(tenantID, key)
}
