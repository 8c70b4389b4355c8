package repository

import (
	"errors"
	"fmt"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultCaseRecordRepository reads the order/service/profile tables owned
// by the sibling marketplace services. Strictly read-only.
type DefaultCaseRecordRepository struct {
	db *gorm.DB
}

func NewDefaultCaseRecordRepository(db *gorm.DB) *DefaultCaseRecordRepository {
	return &DefaultCaseRecordRepository{db: db}
}

func (r *DefaultCaseRecordRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.db.First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
		}
		return nil, err
	}
	return &domain.Order{
		ID:          orderModel.ID,
		BuyerID:     orderModel.BuyerID,
		SellerID:    orderModel.SellerID,
		Status:      domain.OrderStatus(orderModel.Status),
		TotalAmount: orderModel.TotalAmount,
		CreatedAt:   orderModel.CreatedAt,
	}, nil
}

func (r *DefaultCaseRecordRepository) GetServiceByID(serviceID string) (*domain.Service, error) {
	var serviceModel models.ServiceModel
	if err := r.db.First(&serviceModel, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: service %s", domain.ErrNotFound, serviceID)
		}
		return nil, err
	}
	return &domain.Service{
		ID:            serviceModel.ID,
		SellerID:      serviceModel.SellerID,
		Title:         serviceModel.Title,
		Category:      serviceModel.Category,
		RevisionCount: serviceModel.RevisionCount,
	}, nil
}

func (r *DefaultCaseRecordRepository) GetProfileByID(userID string) (*domain.Profile, error) {
	var profileModel models.ProfileModel
	if err := r.db.First(&profileModel, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %s", domain.ErrNotFound, userID)
		}
		return nil, err
	}
	return &domain.Profile{
		ID:          profileModel.ID,
		DisplayName: profileModel.DisplayName,
		AvatarURL:   profileModel.AvatarURL,
	}, nil
}
