package repository

import (
	"restaurant-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) DB() *gorm.DB {
	return r.db
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestByOrderID returns the most recently created payment for an order.
// With the unique constraint there is at most one, but webhook lookups by
// order id keep the ordering for safety.
func (r *PaymentRepository) LatestByOrderID(orderID uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Save(p *models.Payment) error {
	return r.db.Save(p).Error
}

func (r *PaymentRepository) CreateQR(qr *models.QRCode) error {
	return r.db.Create(qr).Error
}

// ActiveQR returns the newest active QR for a payment.
func (r *PaymentRepository) ActiveQR(paymentID uuid.UUID) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.
		Where("payment_id = ? AND is_active = ?", paymentID, true).
		Order("created_at DESC").
		First(&qr).Error
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

// DeactivateQRs clears the active flag on every QR for the payment.
func (r *PaymentRepository) DeactivateQRs(paymentID uuid.UUID) error {
	return r.db.Model(&models.QRCode{}).
		Where("payment_id = ? AND is_active = ?", paymentID, true).
		Update("is_active", false).Error
}
