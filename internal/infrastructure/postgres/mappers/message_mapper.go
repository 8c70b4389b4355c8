package mappers

import (
	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
)

func ToDomainMessage(m *models.DisputeMessageModel) *domain.DisputeMessage {
	senderID := ""
	if m.SenderID != nil {
		senderID = *m.SenderID
	}
	return &domain.DisputeMessage{
		ID:          m.ID,
		DisputeID:   m.DisputeID,
		SenderID:    senderID,
		MessageType: domain.MessageType(m.MessageType),
		Content:     m.Content,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}

func ToGORMMessage(msg *domain.DisputeMessage) *models.DisputeMessageModel {
	var senderID *string
	if msg.SenderID != "" {
		senderID = &msg.SenderID
	}
	return &models.DisputeMessageModel{
		ID:          msg.ID,
		DisputeID:   msg.DisputeID,
		SenderID:    senderID,
		MessageType: string(msg.MessageType),
		Content:     msg.Content,
		Metadata:    msg.Metadata,
		CreatedAt:   msg.CreatedAt,
	}
}
