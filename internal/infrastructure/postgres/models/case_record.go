package models

import "time"

// Order, service and profile tables are owned by other services; this
// service only ever reads them.

type OrderModel struct {
	ID          string `gorm:"primaryKey"`
	BuyerID     string
	SellerID    string
	Status      string
	TotalAmount int64
	CreatedAt   time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type ServiceModel struct {
	ID            string `gorm:"primaryKey"`
	SellerID      string
	Title         string
	Category      string
	RevisionCount int
}

func (ServiceModel) TableName() string {
	return "services"
}

type ProfileModel struct {
	ID          string `gorm:"primaryKey"`
	DisplayName string
	AvatarURL   string
}

func (ProfileModel) TableName() string {
	return "profiles"
}
