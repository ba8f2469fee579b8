package payment

import (
	"errors"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStore interface {
	GetByID(id uuid.UUID) (*models.Order, error)
}

type InvoiceStore interface {
	GetByID(id uuid.UUID) (*models.Invoice, error)
}

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByID(id uuid.UUID) (*models.Payment, error)
	LatestByOrderID(orderID uuid.UUID) (*models.Payment, error)
	Save(p *models.Payment) error
	CreateQR(qr *models.QRCode) error
	ActiveQR(paymentID uuid.UUID) (*models.QRCode, error)
	DeactivateQRs(paymentID uuid.UUID) error
}

type RestaurantStore interface {
	GetByMerchantName(name string) (*models.Restaurant, error)
	First() (*models.Restaurant, error)
}

type Service struct {
	orders      OrderStore
	invoices    InvoiceStore
	payments    PaymentStore
	restaurants RestaurantStore
}

func NewService(orders OrderStore, invoices InvoiceStore, payments PaymentStore, restaurants RestaurantStore) *Service {
	return &Service{
		orders:      orders,
		invoices:    invoices,
		payments:    payments,
		restaurants: restaurants,
	}
}

type CreateRequest struct {
	OrderID        uuid.UUID
	Amount         *float64
	InvoiceID      *uuid.UUID
	UPIRefID       string
	RestaurantName string
}

// WebhookRequest is the gateway callback payload: identify the payment by
// payment_id or order_id, carry the reported status.
type WebhookRequest struct {
	PaymentID *uuid.UUID
	OrderID   *uuid.UUID
	Status    string
	UPIRefID  string
}

type WebhookResult struct {
	OK            bool   `json:"ok"`
	PaymentID     string `json:"payment_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Create opens a payment for an order and mints its first QR. When an
// invoice_id is given, the invoice's order and total win over the direct
// fields. At most one payment per order: a duplicate returns Conflict with
// the existing payment attached so the caller can recover its QR.
func (s *Service) Create(req CreateRequest) (*models.Payment, error) {
	orderID := req.OrderID
	var amount float64

	if req.InvoiceID != nil {
		inv, err := s.invoices.GetByID(*req.InvoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.BadRequest("invoice not found; use a valid invoice_id from GET /get_invoices")
			}
			return nil, err
		}
		orderID = inv.OrderID
		amount = inv.TotalAmount
	} else {
		if orderID == uuid.Nil || req.Amount == nil {
			return nil, apperr.BadRequest("provide either invoice_id or both order_id and amount")
		}
		amount = *req.Amount
	}

	if _, err := s.orders.GetByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BadRequest("order not found for this invoice/order")
		}
		return nil, err
	}

	if existing, err := s.payments.LatestByOrderID(orderID); err == nil {
		return nil, duplicatePayment(existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &models.Payment{
		OrderID:  orderID,
		Amount:   amount,
		Status:   models.PaymentStatusPending,
		UPIRefID: req.UPIRefID,
	}
	if err := s.payments.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent create; surface the winner.
			if existing, lookupErr := s.payments.LatestByOrderID(orderID); lookupErr == nil {
				return nil, duplicatePayment(existing)
			}
			return nil, apperr.Conflict("a payment already exists for this order")
		}
		return nil, err
	}

	restaurant := s.resolveRestaurant(req.RestaurantName)
	upiURI, err := GenerateUPIURI(p.OrderID.String(), p.Amount, restaurant)
	if err != nil {
		return nil, err
	}
	qr := &models.QRCode{PaymentID: p.ID, QRData: upiURI, IsActive: true}
	if err := s.payments.CreateQR(qr); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(id uuid.UUID) (*models.Payment, error) {
	p, err := s.payments.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, err
	}
	return p, nil
}

// ActiveQR returns the payment's newest active QR. A payment can briefly have
// none (a revive raced with the lookup); in that case any stale active rows
// are cleared and a fresh QR is minted, so callers see exactly one.
func (s *Service) ActiveQR(id uuid.UUID) (*models.QRCode, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	qr, err := s.payments.ActiveQR(p.ID)
	if err == nil {
		return qr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.mintQR(p)
}

// Revive rotates the QR on a still-pending payment: old QRs deactivate, a new
// one is issued, retry_count increments. Paid payments cannot be revived.
func (s *Service) Revive(id uuid.UUID) (*models.Payment, *models.QRCode, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if p.Status == models.PaymentStatusPaid {
		return nil, nil, apperr.BadRequest("payment already successful")
	}

	qr, err := s.mintQR(p)
	if err != nil {
		return nil, nil, err
	}

	p.RetryCount++
	p.Status = models.PaymentStatusPending
	if err := s.payments.Save(p); err != nil {
		return nil, nil, err
	}
	return p, qr, nil
}

// MarkPaid records a successful payment. Paid is terminal: a second call is
// rejected, and a paid payment keeps no active QR.
func (s *Service) MarkPaid(id uuid.UUID, upiRefID string) (*models.Payment, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentStatusPaid {
		return nil, apperr.BadRequest("payment is already marked as paid")
	}
	if err := s.settle(p, upiRefID); err != nil {
		return nil, err
	}
	return p, nil
}

// HandleWebhook reconciles a gateway callback. Statuses other than paid are
// acknowledged without effect, and an already-paid payment reports success
// without re-mutating.
func (s *Service) HandleWebhook(req WebhookRequest) (*WebhookResult, error) {
	if req.PaymentID == nil && req.OrderID == nil {
		return nil, apperr.BadRequest("provide either payment_id or order_id")
	}
	if req.Status != models.PaymentStatusPaid {
		return &WebhookResult{OK: true, Message: "ignored (status is not paid)"}, nil
	}

	var p *models.Payment
	var err error
	if req.PaymentID != nil {
		p, err = s.payments.GetByID(*req.PaymentID)
	} else {
		p, err = s.payments.LatestByOrderID(*req.OrderID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment not found for the given payment_id or order_id")
		}
		return nil, err
	}

	if p.Status == models.PaymentStatusPaid {
		return &WebhookResult{
			OK:            true,
			PaymentID:     p.ID.String(),
			PaymentStatus: models.PaymentStatusPaid,
			Message:       "already paid",
		}, nil
	}

	if err := s.settle(p, req.UPIRefID); err != nil {
		return nil, err
	}
	return &WebhookResult{
		OK:            true,
		PaymentID:     p.ID.String(),
		PaymentStatus: models.PaymentStatusPaid,
	}, nil
}

// QRImage renders the payment's active QR as a PNG, self-healing the QR row
// the same way ActiveQR does.
func (s *Service) QRImage(id uuid.UUID, size, border int) ([]byte, error) {
	qr, err := s.ActiveQR(id)
	if err != nil {
		return nil, err
	}
	return GenerateQRPNG(qr.QRData, size, border)
}

// settle marks p paid, records the optional UPI reference, and deactivates
// its QRs.
func (s *Service) settle(p *models.Payment, upiRefID string) error {
	p.Status = models.PaymentStatusPaid
	if upiRefID != "" {
		p.UPIRefID = upiRefID
	}
	if err := s.payments.DeactivateQRs(p.ID); err != nil {
		return err
	}
	return s.payments.Save(p)
}

// mintQR deactivates any active QRs for p and creates a fresh one.
func (s *Service) mintQR(p *models.Payment) (*models.QRCode, error) {
	if err := s.payments.DeactivateQRs(p.ID); err != nil {
		return nil, err
	}
	restaurant := s.resolveRestaurant("")
	upiURI, err := GenerateUPIURI(p.OrderID.String(), p.Amount, restaurant)
	if err != nil {
		return nil, err
	}
	qr := &models.QRCode{PaymentID: p.ID, QRData: upiURI, IsActive: true}
	if err := s.payments.CreateQR(qr); err != nil {
		return nil, err
	}
	return qr, nil
}

// resolveRestaurant prefers the named merchant, falling back to the first
// configured restaurant. Nil when none exists; GenerateUPIURI turns that into
// the unavailable error.
func (s *Service) resolveRestaurant(merchantName string) *models.Restaurant {
	if merchantName != "" {
		if r, err := s.restaurants.GetByMerchantName(merchantName); err == nil {
			return r
		}
	}
	r, err := s.restaurants.First()
	if err != nil {
		return nil
	}
	return r
}

func duplicatePayment(existing *models.Payment) error {
	return apperr.Conflict("a payment already exists for this order").WithDetails(existing)
}
