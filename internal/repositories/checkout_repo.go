package repositories

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"gorm.io/gorm"
)

// CheckoutRecordRepository stores checkout manifests by payment session id.
type CheckoutRecordRepository interface {
	Save(ctx context.Context, record *models.CheckoutRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.CheckoutRecord, error)
}

// GORMCheckoutRecordRepository is a GORM implementation of CheckoutRecordRepository.
type GORMCheckoutRecordRepository struct {
	db *gorm.DB
}

// NewGORMCheckoutRecordRepository creates a new GORMCheckoutRecordRepository.
func NewGORMCheckoutRecordRepository(db *gorm.DB) *GORMCheckoutRecordRepository {
	return &GORMCheckoutRecordRepository{db: db}
}

func (r *GORMCheckoutRecordRepository) Save(ctx context.Context, record *models.CheckoutRecord) error {
	return translate(r.db.WithContext(ctx).Create(record).Error, "save checkout record", nil)
}

func (r *GORMCheckoutRecordRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := r.db.WithContext(ctx).First(&record, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, translate(err, "get checkout record", apperrors.NotFound("no checkout record for session %s", sessionID))
	}
	return &record, nil
}
