package models

import "time"

type DisputeModel struct {
	ID                string `gorm:"primaryKey"`
	CaseNumber        string `gorm:"uniqueIndex"`
	PlaintiffID       string `gorm:"index"`
	DefendantID       string `gorm:"index"`
	PlaintiffRole     string
	OrderID           string `gorm:"index"`
	ServiceID         string
	DisputeType       string
	DisputeAmount     int64
	PlaintiffClaim    string
	DefendantResponse string
	Status            string `gorm:"index"`
	AIVerdict         string
	AIRefundAmount    *int64
	AIVerdictReason   string
	AIVerdictAt       *time.Time
	PlaintiffAccepted bool
	DefendantAccepted bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}
