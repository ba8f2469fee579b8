package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Invoice struct {
	Base
	// OrderID is the primary (first) order; kept for single-order lookups.
	OrderID uuid.UUID `gorm:"type:uuid;not null" json:"order_id"`
	// OrderIDs holds the full set of order ids when several orders from one
	// table are merged onto a single invoice.
	OrderIDs        datatypes.JSON `json:"order_ids,omitempty"`
	InvoiceNumber   string         `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate     time.Time      `gorm:"not null" json:"invoice_date"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	GSTPercent      float64        `gorm:"column:gst_percent;default:0" json:"gst_percent"`
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	PaymentStatus   string         `gorm:"default:pending" json:"payment_status"`
	Notes           string         `json:"notes,omitempty"`
	CustomerName    string         `gorm:"size:255" json:"customer_name"`
}
