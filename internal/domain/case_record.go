package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderInProgress OrderStatus = "in_progress"
	OrderDelivered  OrderStatus = "delivered"
	OrderRevision   OrderStatus = "revision"
	OrderCompleted  OrderStatus = "completed"
)

// Order is the disputed order, consumed strictly read-only.
type Order struct {
	ID          string
	BuyerID     string
	SellerID    string
	Status      OrderStatus
	TotalAmount int64
	CreatedAt   time.Time
}

// Service is the listing the order was placed against, consumed read-only.
type Service struct {
	ID            string
	SellerID      string
	Title         string
	Category      string
	RevisionCount int
}

// Profile carries the display-safe identity of a party.
type Profile struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// CaseRecordRepository is the read-only source of order/service/profile
// facts used to build a decision context.
type CaseRecordRepository interface {
	GetOrderByID(orderID string) (*Order, error)
	GetServiceByID(serviceID string) (*Service, error)
	GetProfileByID(userID string) (*Profile, error)
}
