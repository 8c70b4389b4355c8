package repository

import (
	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/mappers"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeMessageRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeMessageRepository(db *gorm.DB) *DefaultDisputeMessageRepository {
	return &DefaultDisputeMessageRepository{db: db}
}

// ListMessages returns the full case timeline in chronological order.
// Writes go through the dispute repository's transactions only.
func (r *DefaultDisputeMessageRepository) ListMessages(disputeID string) ([]*domain.DisputeMessage, error) {
	var messageModels []models.DisputeMessageModel
	if err := r.db.
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC, id ASC").
		Find(&messageModels).Error; err != nil {
		return nil, err
	}
	messages := make([]*domain.DisputeMessage, len(messageModels))
	for i := range messageModels {
		messages[i] = mappers.ToDomainMessage(&messageModels[i])
	}
	return messages, nil
}
