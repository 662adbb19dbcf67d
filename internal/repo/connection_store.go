package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rcregistry/internal/models"
)

var (
	ErrNotFound        = errors.New("connection not found")
	ErrKeyNotFound     = errors.New("auth key not found")
	ErrVersionNotFound = errors.New("version not set")
)

type ConnectionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConnectionStore(db *gorm.DB) *ConnectionStore {
	return &ConnectionStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create — заведение записи оператором (в штатном режиме записи создаются снаружи).
func (s *ConnectionStore) Create(ctx context.Context, c *models.Connection) error {
	c.TimeStamp = s.now()
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

func (s *ConnectionStore) Get(ctx context.Context, id uint) (*models.Connection, error) {
	var c models.Connection
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get connection %d: %w", id, err)
	}
	return &c, nil
}

// ListAvailable — только available=1, в порядке id.
func (s *ConnectionStore) ListAvailable(ctx context.Context) ([]models.Connection, error) {
	var rows []models.Connection
	if err := s.db.WithContext(ctx).
		Where("available = ?", 1).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}
	return rows, nil
}

// Deactivate: available=0. Несуществующий id — не ошибка.
func (s *ConnectionStore) Deactivate(ctx context.Context, id uint) error {
	return s.setAvailable(ctx, id, 0)
}

// Activate — heartbeat агента: available=1 и свежий time_stamp.
func (s *ConnectionStore) Activate(ctx context.Context, id uint) error {
	return s.setAvailable(ctx, id, 1)
}

func (s *ConnectionStore) setAvailable(ctx context.Context, id uint, available int) error {
	err := s.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"available":  available,
			"time_stamp": s.now(),
		}).Error
	if err != nil {
		return fmt.Errorf("set available=%d for %d: %w", available, id, err)
	}
	return nil
}

// Update перезаписывает ip/port/ssid/available (и name, если передан).
func (s *ConnectionStore) Update(ctx context.Context, in models.UpdateFields) error {
	fields := map[string]any{
		"ip":         in.IP,
		"port":       in.Port,
		"ssid":       in.SSID,
		"available":  in.Available,
		"time_stamp": s.now(),
	}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	err := s.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ?", in.ID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update connection %d: %w", in.ID, err)
	}
	return nil
}

// ConsumeAuthKey отдаёт id записи с данным ключом и сразу гасит ключ.
// Очистка условная (id + тот же ключ), поэтому из конкурентных вызовов
// выигрывает ровно один, остальные получают ErrKeyNotFound.
func (s *ConnectionStore) ConsumeAuthKey(ctx context.Context, key string) (uint, error) {
	if key == "" {
		return 0, ErrKeyNotFound
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Connection
		err := tx.Select("id").Where("unique_auth_key = ?", key).Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		res := tx.Model(&models.Connection{}).
			Where("id = ? AND unique_auth_key = ?", c.ID, key).
			Update("unique_auth_key", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrKeyNotFound
		}
		id = c.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("consume auth key: %w", err)
	}
	return id, nil
}

// IssueAuthKey выставляет новый одноразовый ключ записи и возвращает его.
func (s *ConnectionStore) IssueAuthKey(ctx context.Context, id uint) (string, error) {
	key := uuid.NewString()
	res := s.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ?", id).
		Update("unique_auth_key", key)
	if res.Error != nil {
		return "", fmt.Errorf("issue auth key for %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return key, nil
}
