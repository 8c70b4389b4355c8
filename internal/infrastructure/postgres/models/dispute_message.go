package models

import "time"

type DisputeMessageModel struct {
	ID          string  `gorm:"primaryKey"`
	DisputeID   string  `gorm:"index"`
	SenderID    *string // NULL for system-authored entries
	MessageType string
	Content     string
	Metadata    []byte `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

func (DisputeMessageModel) TableName() string {
	return "dispute_messages"
}
