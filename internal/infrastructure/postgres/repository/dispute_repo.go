package repository

import (
	"errors"
	"fmt"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/mappers"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.First(&disputeModel, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dispute %s", domain.ErrNotFound, disputeID)
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) ListDisputesByParty(userID string) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	if err := r.db.
		Where("plaintiff_id = ? OR defendant_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&disputeModels).Error; err != nil {
		return nil, err
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, nil
}

// SaveDisputeWithMessage writes the dispute state and its timeline entry as
// one transaction, so a crash can never leave a transition without its
// message or a message without its transition.
func (r *DefaultDisputeRepository) SaveDisputeWithMessage(dispute *domain.Dispute, message *domain.DisputeMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(mappers.ToGORMDispute(dispute)).Error; err != nil {
			return fmt.Errorf("save dispute: %w", err)
		}
		if err := tx.Create(mappers.ToGORMMessage(message)).Error; err != nil {
			return fmt.Errorf("append dispute message: %w", err)
		}
		return nil
	})
}

// MarkVerdictAccepted re-reads the dispute under FOR UPDATE before touching
// the acceptance flags, so two concurrent acceptances serialize and the
// joint-acceptance check can never be lost. A repeated acceptance by the
// same side is a no-op. resolvedNow is true only for the transaction that
// transitioned the dispute to resolved.
func (r *DefaultDisputeRepository) MarkVerdictAccepted(disputeID string, side domain.Party, message *domain.DisputeMessage) (*domain.Dispute, bool, error) {
	var result models.DisputeModel
	resolvedNow := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		resolvedNow = false

		var disputeModel models.DisputeModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&disputeModel, "id = ?", disputeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: dispute %s", domain.ErrNotFound, disputeID)
			}
			return err
		}

		if disputeModel.Status != string(domain.StatusAIVerdict) {
			return fmt.Errorf("%w: expected status %s, got %s",
				domain.ErrInvalidState, domain.StatusAIVerdict, disputeModel.Status)
		}

		var already bool
		switch side {
		case domain.PartyPlaintiff:
			already = disputeModel.PlaintiffAccepted
			disputeModel.PlaintiffAccepted = true
		case domain.PartyDefendant:
			already = disputeModel.DefendantAccepted
			disputeModel.DefendantAccepted = true
		default:
			return fmt.Errorf("%w: unknown party %q", domain.ErrForbidden, side)
		}

		if already {
			result = disputeModel
			return nil
		}

		if disputeModel.PlaintiffAccepted && disputeModel.DefendantAccepted {
			disputeModel.Status = string(domain.StatusResolved)
			resolvedNow = true
		}

		if err := tx.Save(&disputeModel).Error; err != nil {
			return fmt.Errorf("save dispute: %w", err)
		}
		if err := tx.Create(mappers.ToGORMMessage(message)).Error; err != nil {
			return fmt.Errorf("append acceptance message: %w", err)
		}
		result = disputeModel
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return mappers.ToDomainDispute(&result), resolvedNow, nil
}
