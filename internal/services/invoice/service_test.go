package invoice_test

import (
	"testing"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"
	invoice "restaurant-management-backend/internal/services/invoice"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Mock OrderStore ---

type mockOrderStore struct {
	orders []models.Order
}

func (m *mockOrderStore) add(tableNo int, itemList string) models.Order {
	o := models.Order{TableNo: tableNo, ItemList: itemList, OrderPending: true}
	o.ID = uuid.New()
	m.orders = append(m.orders, o)
	return o
}

func (m *mockOrderStore) GetByID(id uuid.UUID) (*models.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderStore) ListUninvoicedForTable(tableNo int, excluded []string) ([]models.Order, error) {
	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	var out []models.Order
	for _, o := range m.orders {
		if o.TableNo != tableNo {
			continue
		}
		if _, ok := skip[o.ID.String()]; ok {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderStore) DistinctTablesExcluding(excluded []string) ([]int, error) {
	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	seen := make(map[int]struct{})
	var tables []int
	for _, o := range m.orders {
		if _, ok := skip[o.ID.String()]; ok {
			continue
		}
		if _, ok := seen[o.TableNo]; !ok {
			seen[o.TableNo] = struct{}{}
			tables = append(tables, o.TableNo)
		}
	}
	return tables, nil
}

// --- Mock InvoiceStore ---

type mockInvoiceStore struct {
	active  map[uuid.UUID]models.Invoice
	deleted map[uuid.UUID]models.Invoice
}

func newMockInvoiceStore() *mockInvoiceStore {
	return &mockInvoiceStore{
		active:  make(map[uuid.UUID]models.Invoice),
		deleted: make(map[uuid.UUID]models.Invoice),
	}
}

func (m *mockInvoiceStore) Create(inv *models.Invoice) error {
	for _, existing := range m.active {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	m.active[inv.ID] = *inv
	return nil
}

func (m *mockInvoiceStore) GetByID(id uuid.UUID) (*models.Invoice, error) {
	if inv, ok := m.active[id]; ok {
		return &inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvoiceStore) GetAnyByID(id uuid.UUID) (*models.Invoice, error) {
	if inv, ok := m.active[id]; ok {
		return &inv, nil
	}
	if inv, ok := m.deleted[id]; ok {
		return &inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvoiceStore) ListActive() ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range m.active {
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvoiceStore) List(page, perPage int) ([]models.Invoice, error) {
	return m.ListActive()
}

func (m *mockInvoiceStore) Save(inv *models.Invoice) error {
	for id, existing := range m.active {
		if id != inv.ID && existing.InvoiceNumber == inv.InvoiceNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	m.active[inv.ID] = *inv
	return nil
}

func (m *mockInvoiceStore) SoftDelete(inv *models.Invoice) error {
	m.deleted[inv.ID] = m.active[inv.ID]
	delete(m.active, inv.ID)
	return nil
}

// --- Tests ---

func TestCreateForOrder(t *testing.T) {
	orders := &mockOrderStore{}
	order := orders.add(3, `[{"name":"Dosa","qty":2,"price":50}]`)
	svc := invoice.NewService(orders, newMockInvoiceStore())

	inv, err := svc.CreateForOrder(invoice.CreateRequest{
		OrderID:         order.ID,
		InvoiceNumber:   "INV-001",
		GSTPercent:      18,
		DiscountPercent: 10,
	}, "tester")
	if err != nil {
		t.Fatalf("CreateForOrder: %v", err)
	}
	// subtotal 100, +18 GST, -10 discount
	if inv.TotalAmount != 108 {
		t.Errorf("TotalAmount = %v, want 108", inv.TotalAmount)
	}
	if inv.OrderID != order.ID {
		t.Errorf("OrderID = %v, want %v", inv.OrderID, order.ID)
	}
	if inv.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("PaymentStatus = %q, want pending", inv.PaymentStatus)
	}
	if inv.CreatedBy != "tester" {
		t.Errorf("CreatedBy = %q, want tester", inv.CreatedBy)
	}
}

func TestCreateForOrderUnknownOrder(t *testing.T) {
	svc := invoice.NewService(&mockOrderStore{}, newMockInvoiceStore())

	_, err := svc.CreateForOrder(invoice.CreateRequest{OrderID: uuid.New()}, "tester")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestCreateForOrderDuplicateNumber(t *testing.T) {
	orders := &mockOrderStore{}
	a := orders.add(1, `[{"name":"Tea","qty":1,"price":20}]`)
	b := orders.add(2, `[{"name":"Tea","qty":1,"price":20}]`)
	svc := invoice.NewService(orders, newMockInvoiceStore())

	if _, err := svc.CreateForOrder(invoice.CreateRequest{OrderID: a.ID, InvoiceNumber: "INV-77"}, "t"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateForOrder(invoice.CreateRequest{OrderID: b.ID, InvoiceNumber: "INV-77"}, "t")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateForTableMergesOrders(t *testing.T) {
	orders := &mockOrderStore{}
	first := orders.add(5, `[{"name":"Thali","qty":2,"price":50}]`)
	second := orders.add(5, `[{"name":"Lassi","qty":1,"price":30}]`)
	orders.add(7, `[{"name":"Tea","qty":1,"price":20}]`)
	svc := invoice.NewService(orders, newMockInvoiceStore())

	inv, err := svc.CreateForTable(invoice.CreateForTableRequest{TableNo: 5}, "tester")
	if err != nil {
		t.Fatalf("CreateForTable: %v", err)
	}
	if inv.TotalAmount != 130 {
		t.Errorf("TotalAmount = %v, want 130", inv.TotalAmount)
	}
	if inv.OrderID != first.ID {
		t.Errorf("OrderID = %v, want first order %v", inv.OrderID, first.ID)
	}
	if inv.InvoiceNumber == "" {
		t.Error("expected an auto-generated invoice number")
	}

	ids := invoice.MergedOrderIDs(inv)
	if len(ids) != 2 || ids[0] != first.ID.String() || ids[1] != second.ID.String() {
		t.Errorf("merged order ids = %v, want [%s %s]", ids, first.ID, second.ID)
	}

	// Both of table 5's orders are now invoiced; only table 7 remains.
	tables, err := svc.TablesWithUninvoicedOrders()
	if err != nil {
		t.Fatalf("TablesWithUninvoicedOrders: %v", err)
	}
	if len(tables) != 1 || tables[0] != 7 {
		t.Errorf("tables = %v, want [7]", tables)
	}

	// A second merge for the same table has nothing left to bill.
	_, err = svc.CreateForTable(invoice.CreateForTableRequest{TableNo: 5}, "tester")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request on re-merge, got %v", err)
	}
}

func TestCreateForTableEmptyTable(t *testing.T) {
	svc := invoice.NewService(&mockOrderStore{}, newMockInvoiceStore())

	_, err := svc.CreateForTable(invoice.CreateForTableRequest{TableNo: 12}, "tester")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	orders := &mockOrderStore{}
	order := orders.add(1, `[{"name":"Tea","qty":1,"price":20}]`)
	svc := invoice.NewService(orders, newMockInvoiceStore())

	inv, err := svc.CreateForOrder(invoice.CreateRequest{OrderID: order.ID, InvoiceNumber: "INV-9"}, "t")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(inv.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(inv.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if err := svc.Delete(uuid.New()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}

	if _, err := svc.Get(inv.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("deleted invoice should be gone, got %v", err)
	}
}

func TestOrdersForInvoice(t *testing.T) {
	orders := &mockOrderStore{}
	orders.add(4, `[{"name":"Dosa","qty":1,"price":80}]`)
	orders.add(4, `[{"name":"Coffee","qty":2,"price":40}]`)
	svc := invoice.NewService(orders, newMockInvoiceStore())

	inv, err := svc.CreateForTable(invoice.CreateForTableRequest{TableNo: 4}, "t")
	if err != nil {
		t.Fatalf("CreateForTable: %v", err)
	}

	got, err := svc.OrdersForInvoice(inv)
	if err != nil {
		t.Fatalf("OrdersForInvoice: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d orders, want 2", len(got))
	}
}
