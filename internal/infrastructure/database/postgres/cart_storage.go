package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshot is one persisted cart payload
type CartSnapshot struct {
	Key       string    `gorm:"column:cart_key;primaryKey;size:255"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName overrides the table name
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

// CartStorage keeps each cart as a single row keyed by cart key
type CartStorage struct {
	db *gorm.DB
}

// NewCartStorage creates a GORM-backed cart storage
func NewCartStorage(db *gorm.DB) *CartStorage {
	return &CartStorage{db: db}
}

// Get implements cart.Storage
func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var snapshot CartSnapshot
	err := s.db.WithContext(ctx).Where("cart_key = ?", key).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return snapshot.Payload, true, nil
}

// Set implements cart.Storage
func (s *CartStorage) Set(ctx context.Context, key, value string) error {
	snapshot := CartSnapshot{Key: key, Payload: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snapshot).Error
}
