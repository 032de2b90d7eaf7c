package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/labcore/backend/internal/domain/security"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingApprovalSecretHash is the system_settings key holding the approval hash
const SettingApprovalSecretHash = "approval_secret_hash"

// GormApprovalSecretStore keeps the approval secret hash in system_settings
type GormApprovalSecretStore struct {
	db *gorm.DB
}

// NewGormApprovalSecretStore creates a new GormApprovalSecretStore
func NewGormApprovalSecretStore(db *gorm.DB) *GormApprovalSecretStore {
	return &GormApprovalSecretStore{db: db}
}

// GetHash returns the stored hash, or "" when none is configured
func (s *GormApprovalSecretStore) GetHash(ctx context.Context) (string, error) {
	var setting SystemSetting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", SettingApprovalSecretHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// SetHash inserts or replaces the stored hash
func (s *GormApprovalSecretStore) SetHash(ctx context.Context, hash string) error {
	setting := SystemSetting{
		Key:       SettingApprovalSecretHash,
		Value:     hash,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}

var _ security.ApprovalSecretStore = (*GormApprovalSecretStore)(nil)
