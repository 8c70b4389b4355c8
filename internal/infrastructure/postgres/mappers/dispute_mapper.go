package mappers

import (
	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(m *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:                m.ID,
		CaseNumber:        m.CaseNumber,
		PlaintiffID:       m.PlaintiffID,
		DefendantID:       m.DefendantID,
		PlaintiffRole:     domain.Role(m.PlaintiffRole),
		OrderID:           m.OrderID,
		ServiceID:         m.ServiceID,
		DisputeType:       m.DisputeType,
		DisputeAmount:     m.DisputeAmount,
		PlaintiffClaim:    m.PlaintiffClaim,
		DefendantResponse: m.DefendantResponse,
		Status:            domain.DisputeStatus(m.Status),
		AIVerdict:         m.AIVerdict,
		AIRefundAmount:    m.AIRefundAmount,
		AIVerdictReason:   m.AIVerdictReason,
		AIVerdictAt:       m.AIVerdictAt,
		PlaintiffAccepted: m.PlaintiffAccepted,
		DefendantAccepted: m.DefendantAccepted,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToGORMDispute(d *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:                d.ID,
		CaseNumber:        d.CaseNumber,
		PlaintiffID:       d.PlaintiffID,
		DefendantID:       d.DefendantID,
		PlaintiffRole:     string(d.PlaintiffRole),
		OrderID:           d.OrderID,
		ServiceID:         d.ServiceID,
		DisputeType:       d.DisputeType,
		DisputeAmount:     d.DisputeAmount,
		PlaintiffClaim:    d.PlaintiffClaim,
		DefendantResponse: d.DefendantResponse,
		Status:            string(d.Status),
		AIVerdict:         d.AIVerdict,
		AIRefundAmount:    d.AIRefundAmount,
		AIVerdictReason:   d.AIVerdictReason,
		AIVerdictAt:       d.AIVerdictAt,
		PlaintiffAccepted: d.PlaintiffAccepted,
		DefendantAccepted: d.DefendantAccepted,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
