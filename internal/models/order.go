package models

import (
	"github.com/google/uuid"
)

// Derived order statuses. Cancel wins over done wins over pending.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	Base
	// ItemList holds the serialized line items ({name, qty, price} objects).
	ItemList     string `json:"item_list"`
	Quantity     int    `gorm:"index" json:"quantity"`
	OrderPending bool   `gorm:"default:false" json:"order_pending"`
	OrderDone    bool   `gorm:"default:false" json:"order_done"`
	OrderCancel  bool   `gorm:"default:false" json:"order_cancel"`
	// TableNo references Table.TableNo; no FK since table_no is not unique.
	TableNo int `gorm:"index" json:"table_no"`
}

// DerivedStatus maps the legacy flags to a single status value.
func (o *Order) DerivedStatus() string {
	switch {
	case o.OrderCancel:
		return OrderStatusCancelled
	case o.OrderDone:
		return OrderStatusReady
	case o.OrderPending:
		return OrderStatusPending
	default:
		return OrderStatusPreparing
	}
}

type OrderStatus struct {
	Base
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Status  string    `gorm:"index" json:"status"`
}
