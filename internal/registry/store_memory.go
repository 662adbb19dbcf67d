package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"rcregistry/internal/models"
	"rcregistry/internal/repo"
)

// MemStore — хранилище без БД (database.driver пуст).
type MemStore struct {
	mu      sync.Mutex
	rows    map[uint]*models.Connection
	version *string
}

func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[uint]*models.Connection)}
}

// Put добавляет или заменяет запись.
func (m *MemStore) Put(c models.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.TimeStamp.IsZero() {
		c.TimeStamp = time.Now().UTC()
	}
	m.rows[c.ID] = &c
}

func (m *MemStore) Get(id uint) (models.Connection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return models.Connection{}, false
	}
	return *c, true
}

func (m *MemStore) Deactivate(_ context.Context, id uint) error {
	m.setAvailable(id, 0)
	return nil
}

func (m *MemStore) Activate(_ context.Context, id uint) error {
	m.setAvailable(id, 1)
	return nil
}

func (m *MemStore) setAvailable(id uint, v int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[id]; ok {
		c.Available = v
		c.TimeStamp = time.Now().UTC()
	}
}

func (m *MemStore) ListAvailable(context.Context) ([]models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Connection, 0, len(m.rows))
	for _, c := range m.rows {
		if c.Available == 1 {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ConsumeAuthKey(_ context.Context, key string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == "" {
		return 0, repo.ErrKeyNotFound
	}
	for id, c := range m.rows {
		if c.UniqueAuthKey != nil && *c.UniqueAuthKey == key {
			c.UniqueAuthKey = nil
			return id, nil
		}
	}
	return 0, repo.ErrKeyNotFound
}

func (m *MemStore) Update(_ context.Context, in models.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[in.ID]
	if !ok {
		return nil
	}
	c.IP = in.IP
	c.Port = in.Port
	c.SSID = in.SSID
	c.Available = in.Available
	if in.Name != nil {
		c.Name = *in.Name
	}
	c.TimeStamp = time.Now().UTC()
	return nil
}

func (m *MemStore) SetVersion(_ context.Context, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = &v
	return nil
}

func (m *MemStore) GetVersion(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version == nil {
		return "", repo.ErrVersionNotFound
	}
	return *m.version, nil
}
