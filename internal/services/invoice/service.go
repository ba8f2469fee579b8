package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStore is the slice of the order repository the invoice engine needs.
type OrderStore interface {
	GetByID(id uuid.UUID) (*models.Order, error)
	ListUninvoicedForTable(tableNo int, excluded []string) ([]models.Order, error)
	DistinctTablesExcluding(excluded []string) ([]int, error)
}

type InvoiceStore interface {
	Create(inv *models.Invoice) error
	GetByID(id uuid.UUID) (*models.Invoice, error)
	GetAnyByID(id uuid.UUID) (*models.Invoice, error)
	ListActive() ([]models.Invoice, error)
	List(page, perPage int) ([]models.Invoice, error)
	Save(inv *models.Invoice) error
	SoftDelete(inv *models.Invoice) error
}

type Service struct {
	orders   OrderStore
	invoices InvoiceStore
}

func NewService(orders OrderStore, invoices InvoiceStore) *Service {
	return &Service{orders: orders, invoices: invoices}
}

type CreateRequest struct {
	OrderID         uuid.UUID
	InvoiceNumber   string
	InvoiceDate     *time.Time
	GSTPercent      float64
	DiscountPercent float64
	PaymentStatus   string
	Notes           string
	CustomerName    string
}

type CreateForTableRequest struct {
	TableNo         int
	InvoiceNumber   string
	InvoiceDate     *time.Time
	GSTPercent      float64
	DiscountPercent float64
	PaymentStatus   string
	Notes           string
	CustomerName    string
}

type UpdateRequest struct {
	OrderID         *uuid.UUID
	InvoiceNumber   *string
	InvoiceDate     *time.Time
	TotalAmount     *float64
	GSTPercent      *float64
	DiscountPercent *float64
	PaymentStatus   *string
	Notes           *string
	CustomerName    *string
}

// CreateForOrder builds a single-order invoice: subtotal from the order's
// item list, GST and discount applied per ComputeTotal.
func (s *Service) CreateForOrder(req CreateRequest, actor string) (*models.Invoice, error) {
	order, err := s.orders.GetByID(req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BadRequest("order not found; use a valid order_id from GET /get_orders")
		}
		return nil, err
	}

	subtotal := Subtotal(ParseOrderItems(order.ItemList))
	total := ComputeTotal(subtotal, req.GSTPercent, req.DiscountPercent)

	inv := &models.Invoice{
		OrderID:         order.ID,
		InvoiceNumber:   req.InvoiceNumber,
		InvoiceDate:     invoiceDateOrNow(req.InvoiceDate),
		TotalAmount:     total,
		GSTPercent:      req.GSTPercent,
		DiscountPercent: req.DiscountPercent,
		PaymentStatus:   paymentStatusOrPending(req.PaymentStatus),
		Notes:           req.Notes,
		CustomerName:    req.CustomerName,
	}
	inv.CreatedBy = actor
	inv.UpdatedBy = actor

	if err := s.invoices.Create(inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("an invoice with this invoice_number already exists; use a different invoice_number")
		}
		return nil, err
	}
	return inv, nil
}

// CreateForTable merges every uninvoiced order on the table into one invoice.
// The full order id set goes into order_ids; order_id keeps the first order
// so single-order lookups keep working.
func (s *Service) CreateForTable(req CreateForTableRequest, actor string) (*models.Invoice, error) {
	invoiced, err := s.invoicedOrderIDs()
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListUninvoicedForTable(req.TableNo, setToSlice(invoiced))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.BadRequest(
			"no uninvoiced orders found for table %d; all orders for this table may already be invoiced",
			req.TableNo,
		)
	}

	orderIDs := make([]string, len(orders))
	subtotal := 0.0
	for i, o := range orders {
		orderIDs[i] = o.ID.String()
		subtotal += Subtotal(ParseOrderItems(o.ItemList))
	}
	total := ComputeTotal(subtotal, req.GSTPercent, req.DiscountPercent)

	invoiceNumber := req.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = fmt.Sprintf("INV-%d", time.Now().UnixMilli())
	}

	idsJSON, err := json.Marshal(orderIDs)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		OrderID:         orders[0].ID,
		OrderIDs:        datatypes.JSON(idsJSON),
		InvoiceNumber:   invoiceNumber,
		InvoiceDate:     invoiceDateOrNow(req.InvoiceDate),
		TotalAmount:     total,
		GSTPercent:      req.GSTPercent,
		DiscountPercent: req.DiscountPercent,
		PaymentStatus:   paymentStatusOrPending(req.PaymentStatus),
		Notes:           req.Notes,
		CustomerName:    req.CustomerName,
	}
	inv.CreatedBy = actor
	inv.UpdatedBy = actor

	if err := s.invoices.Create(inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("an invoice with this invoice_number already exists; use a different invoice_number")
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("invoice not found")
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) List(page, perPage int) ([]models.Invoice, error) {
	return s.invoices.List(page, perPage)
}

func (s *Service) Update(id uuid.UUID, req UpdateRequest, actor string) (*models.Invoice, error) {
	inv, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.OrderID != nil {
		if _, err := s.orders.GetByID(*req.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.BadRequest("order not found; use a valid order_id from GET /get_orders")
			}
			return nil, err
		}
		inv.OrderID = *req.OrderID
	}
	if req.InvoiceNumber != nil {
		inv.InvoiceNumber = *req.InvoiceNumber
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = *req.InvoiceDate
	}
	if req.TotalAmount != nil {
		inv.TotalAmount = *req.TotalAmount
	}
	if req.GSTPercent != nil {
		inv.GSTPercent = *req.GSTPercent
	}
	if req.DiscountPercent != nil {
		inv.DiscountPercent = *req.DiscountPercent
	}
	if req.PaymentStatus != nil {
		inv.PaymentStatus = *req.PaymentStatus
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.CustomerName != nil {
		inv.CustomerName = *req.CustomerName
	}
	inv.UpdatedBy = actor

	if err := s.invoices.Save(inv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("an invoice with this invoice_number already exists; use a different invoice_number")
		}
		return nil, err
	}
	return inv, nil
}

// Delete soft-deletes an invoice. Deleting an already-deleted invoice is a
// no-op success, so retried deletes do not error.
func (s *Service) Delete(id uuid.UUID) error {
	inv, err := s.invoices.GetByID(id)
	if err == nil {
		return s.invoices.SoftDelete(inv)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := s.invoices.GetAnyByID(id); err == nil {
		return nil
	}
	return apperr.NotFound("invoice not found")
}

// TablesWithUninvoicedOrders lists table numbers that still have at least one
// order not referenced by any invoice.
func (s *Service) TablesWithUninvoicedOrders() ([]int, error) {
	invoiced, err := s.invoicedOrderIDs()
	if err != nil {
		return nil, err
	}
	return s.orders.DistinctTablesExcluding(setToSlice(invoiced))
}

// OrdersForInvoice resolves the invoice's orders: the full merged set when
// order_ids lists more than one, otherwise the primary order.
func (s *Service) OrdersForInvoice(inv *models.Invoice) ([]models.Order, error) {
	ids := MergedOrderIDs(inv)
	if len(ids) > 1 {
		var orders []models.Order
		for _, id := range ids {
			oid, err := uuid.Parse(id)
			if err != nil {
				continue
			}
			o, err := s.orders.GetByID(oid)
			if err == nil {
				orders = append(orders, *o)
			}
		}
		if len(orders) == 0 {
			return nil, apperr.NotFound("orders not found for this invoice")
		}
		return orders, nil
	}

	order, err := s.orders.GetByID(inv.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found for this invoice")
		}
		return nil, err
	}
	return []models.Order{*order}, nil
}

// MergedOrderIDs decodes an invoice's order_ids JSON list; nil when absent or
// malformed.
func MergedOrderIDs(inv *models.Invoice) []string {
	if len(inv.OrderIDs) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(inv.OrderIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// invoicedOrderIDs recomputes the set of order ids referenced by any
// non-deleted invoice, either as the primary order_id or inside order_ids.
// A full scan per call; no materialized index at restaurant scale.
func (s *Service) invoicedOrderIDs() (map[string]struct{}, error) {
	invoices, err := s.invoices.ListActive()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	for i := range invoices {
		ids[invoices[i].OrderID.String()] = struct{}{}
		for _, id := range MergedOrderIDs(&invoices[i]) {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func invoiceDateOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

func paymentStatusOrPending(status string) string {
	if status == "" {
		return models.PaymentStatusPending
	}
	return status
}
