package store

import (
	"context"
	"sync"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Memory is a thread-safe in-memory SettingStore, useful for tests and for
// callers who assemble snapshots themselves.
type Memory struct {
	mu        sync.RWMutex
	tenants   map[string]map[string]*domain.Setting
	precision int
}

// NewMemory creates an empty store validating against the default rollout
// precision.
func NewMemory() *Memory {
	return &Memory{
		tenants:   make(map[string]map[string]*domain.Setting),
		precision: domain.DefaultPrecision,
	}
}

// SetPrecision changes the precision Put validates variant weights against.
// Call it before loading settings when the engine runs a non-default
// precision.
func (m *Memory) SetPrecision(precision int) {
	m.mu.Lock()
	m.precision = precision
	m.mu.Unlock()
}

// Put validates and stores a setting for a tenant, replacing any previous
// snapshot under the same key.
func (m *Memory) Put(tenantID string, setting *domain.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := setting.Validate(m.precision); err != nil {
		return err
	}

	byKey, ok := m.tenants[tenantID]
	if !ok {
		byKey = make(map[string]*domain.Setting)
		m.tenants[tenantID] = byKey
	}
	byKey[setting.Key] = setting

	return nil
}

// Delete removes a setting.
func (m *Memory) Delete(tenantID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if byKey, ok := m.tenants[tenantID]; ok {
		delete(byKey, key)
	}
}

// GetSetting implements domain.SettingStore.
func (m *Memory) GetSetting(_ context.Context, tenantID, key string) (*domain.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if byKey, ok := m.tenants[tenantID]; ok {
		if setting, found := byKey[key]; found {
			return setting, nil
		}
	}

	return nil, domain.NewNotFoundError(tenantID, key)
}
