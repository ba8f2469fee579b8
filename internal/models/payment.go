package models

import "github.com/google/uuid"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

type Payment struct {
	Base
	// One payment per order, enforced by the DB so concurrent creates cannot
	// slip past the application-level check.
	OrderID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Status     string    `gorm:"default:pending;not null" json:"status"`
	UPIRefID   string    `gorm:"column:upi_ref_id" json:"upi_ref_id,omitempty"`
	RetryCount int       `gorm:"default:0" json:"retry_count"`
}

type QRCode struct {
	Base
	PaymentID uuid.UUID `gorm:"type:uuid;index;not null" json:"payment_id"`
	// QRData is the full UPI URI (upi://pay?...).
	QRData   string `gorm:"column:qr_data;not null" json:"qr_data"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`
}
