package payment_test

import (
	"strings"
	"testing"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"
	payment "restaurant-management-backend/internal/services/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Mocks ---

type mockOrderStore struct {
	orders map[uuid.UUID]models.Order
}

func (m *mockOrderStore) GetByID(id uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		return &o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockInvoiceStore struct {
	invoices map[uuid.UUID]models.Invoice
}

func (m *mockInvoiceStore) GetByID(id uuid.UUID) (*models.Invoice, error) {
	if inv, ok := m.invoices[id]; ok {
		return &inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockPaymentStore struct {
	payments []models.Payment
	qrs      []models.QRCode
}

func (m *mockPaymentStore) Create(p *models.Payment) error {
	for _, existing := range m.payments {
		if existing.OrderID == p.OrderID {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.payments = append(m.payments, *p)
	return nil
}

func (m *mockPaymentStore) GetByID(id uuid.UUID) (*models.Payment, error) {
	for i := range m.payments {
		if m.payments[i].ID == id {
			p := m.payments[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentStore) LatestByOrderID(orderID uuid.UUID) (*models.Payment, error) {
	for i := len(m.payments) - 1; i >= 0; i-- {
		if m.payments[i].OrderID == orderID {
			p := m.payments[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentStore) Save(p *models.Payment) error {
	for i := range m.payments {
		if m.payments[i].ID == p.ID {
			m.payments[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPaymentStore) CreateQR(qr *models.QRCode) error {
	if qr.ID == uuid.Nil {
		qr.ID = uuid.New()
	}
	m.qrs = append(m.qrs, *qr)
	return nil
}

func (m *mockPaymentStore) ActiveQR(paymentID uuid.UUID) (*models.QRCode, error) {
	for i := len(m.qrs) - 1; i >= 0; i-- {
		if m.qrs[i].PaymentID == paymentID && m.qrs[i].IsActive {
			qr := m.qrs[i]
			return &qr, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentStore) DeactivateQRs(paymentID uuid.UUID) error {
	for i := range m.qrs {
		if m.qrs[i].PaymentID == paymentID {
			m.qrs[i].IsActive = false
		}
	}
	return nil
}

func (m *mockPaymentStore) activeCount(paymentID uuid.UUID) int {
	n := 0
	for _, qr := range m.qrs {
		if qr.PaymentID == paymentID && qr.IsActive {
			n++
		}
	}
	return n
}

type mockRestaurantStore struct {
	restaurants []models.Restaurant
}

func (m *mockRestaurantStore) GetByMerchantName(name string) (*models.Restaurant, error) {
	for i := range m.restaurants {
		if m.restaurants[i].UPIMerchantName == name {
			r := m.restaurants[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRestaurantStore) First() (*models.Restaurant, error) {
	if len(m.restaurants) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	r := m.restaurants[0]
	return &r, nil
}

// --- Fixture ---

type fixture struct {
	svc      *payment.Service
	orders   *mockOrderStore
	invoices *mockInvoiceStore
	payments *mockPaymentStore
	orderID  uuid.UUID
}

func newFixture() *fixture {
	orders := &mockOrderStore{orders: make(map[uuid.UUID]models.Order)}
	order := models.Order{TableNo: 2, ItemList: `[{"name":"Thali","qty":1,"price":150}]`}
	order.ID = uuid.New()
	orders.orders[order.ID] = order

	invoices := &mockInvoiceStore{invoices: make(map[uuid.UUID]models.Invoice)}
	payments := &mockPaymentStore{}
	restaurants := &mockRestaurantStore{restaurants: []models.Restaurant{{
		UPIMerchantName: "Dosa Palace",
		UPIID:           "dosapalace@ybl",
	}}}

	return &fixture{
		svc:      payment.NewService(orders, invoices, payments, restaurants),
		orders:   orders,
		invoices: invoices,
		payments: payments,
		orderID:  order.ID,
	}
}

func amountOf(v float64) *float64 { return &v }

// --- Tests ---

func TestCreatePayment(t *testing.T) {
	f := newFixture()

	p, err := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != models.PaymentStatusPending {
		t.Errorf("status = %q, want pending", p.Status)
	}
	if p.Amount != 150 {
		t.Errorf("amount = %v, want 150", p.Amount)
	}

	qr, err := f.svc.ActiveQR(p.ID)
	if err != nil {
		t.Fatalf("ActiveQR: %v", err)
	}
	if !strings.HasPrefix(qr.QRData, "upi://pay?") {
		t.Errorf("qr data = %q, want a upi://pay URI", qr.QRData)
	}
	if !strings.Contains(qr.QRData, "pa=dosapalace%40ybl") {
		t.Errorf("qr data %q missing payee VPA", qr.QRData)
	}
	if !strings.Contains(qr.QRData, "am=150.00") {
		t.Errorf("qr data %q missing amount", qr.QRData)
	}
	if got := f.payments.activeCount(p.ID); got != 1 {
		t.Errorf("active QR count = %d, want 1", got)
	}
}

func TestCreatePaymentUnknownOrder(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(payment.CreateRequest{OrderID: uuid.New(), Amount: amountOf(10)})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestCreatePaymentMissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(payment.CreateRequest{OrderID: f.orderID})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request without amount, got %v", err)
	}
}

func TestCreatePaymentFromInvoice(t *testing.T) {
	f := newFixture()
	inv := models.Invoice{OrderID: f.orderID, TotalAmount: 177, InvoiceNumber: "INV-5"}
	inv.ID = uuid.New()
	f.invoices.invoices[inv.ID] = inv

	p, err := f.svc.Create(payment.CreateRequest{InvoiceID: &inv.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.OrderID != f.orderID {
		t.Errorf("order id = %v, want %v", p.OrderID, f.orderID)
	}
	if p.Amount != 177 {
		t.Errorf("amount = %v, want the invoice total 177", p.Amount)
	}
}

func TestCreatePaymentDuplicate(t *testing.T) {
	f := newFixture()

	first, err := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	existing, ok := apperr.DetailsOf(err).(*models.Payment)
	if !ok {
		t.Fatalf("conflict should carry the existing payment, got %T", apperr.DetailsOf(err))
	}
	if existing.ID != first.ID {
		t.Errorf("existing payment id = %v, want %v", existing.ID, first.ID)
	}
}

func TestRevive(t *testing.T) {
	f := newFixture()
	p, err := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	firstQR, _ := f.svc.ActiveQR(p.ID)

	revived, newQR, err := f.svc.Revive(p.ID)
	if err != nil {
		t.Fatalf("Revive: %v", err)
	}
	if revived.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", revived.RetryCount)
	}
	if newQR.ID == firstQR.ID {
		t.Error("revive should mint a fresh QR")
	}
	if got := f.payments.activeCount(p.ID); got != 1 {
		t.Errorf("active QR count after revive = %d, want 1", got)
	}
}

func TestReviveAfterPaid(t *testing.T) {
	f := newFixture()
	p, _ := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})
	if _, err := f.svc.MarkPaid(p.ID, ""); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	_, _, err := f.svc.Revive(p.ID)
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request on reviving a paid payment, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	f := newFixture()
	p, _ := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})

	paid, err := f.svc.MarkPaid(p.ID, "UPI123456")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != models.PaymentStatusPaid {
		t.Errorf("status = %q, want paid", paid.Status)
	}
	if paid.UPIRefID != "UPI123456" {
		t.Errorf("upi ref = %q, want UPI123456", paid.UPIRefID)
	}
	if got := f.payments.activeCount(p.ID); got != 0 {
		t.Errorf("paid payment keeps %d active QRs, want 0", got)
	}

	if _, err := f.svc.MarkPaid(p.ID, ""); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request on double mark_paid, got %v", err)
	}
}

func TestActiveQRSelfHeals(t *testing.T) {
	f := newFixture()
	p, _ := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})

	// Simulate a stale row: everything deactivated but the payment pending.
	if err := f.payments.DeactivateQRs(p.ID); err != nil {
		t.Fatalf("DeactivateQRs: %v", err)
	}

	qr, err := f.svc.ActiveQR(p.ID)
	if err != nil {
		t.Fatalf("ActiveQR: %v", err)
	}
	if !qr.IsActive {
		t.Error("minted QR should be active")
	}
	if got := f.payments.activeCount(p.ID); got != 1 {
		t.Errorf("active QR count = %d, want 1", got)
	}
}

func TestWebhook(t *testing.T) {
	f := newFixture()
	p, _ := f.svc.Create(payment.CreateRequest{OrderID: f.orderID, Amount: amountOf(150)})

	// A non-paid status is acknowledged without touching the payment.
	res, err := f.svc.HandleWebhook(payment.WebhookRequest{PaymentID: &p.ID, Status: "failed"})
	if err != nil {
		t.Fatalf("webhook(failed): %v", err)
	}
	if !res.OK || res.PaymentID != "" {
		t.Errorf("non-paid webhook result = %+v, want an acknowledged no-op", res)
	}
	if got, _ := f.svc.Get(p.ID); got.Status != models.PaymentStatusPending {
		t.Errorf("payment status = %q, want still pending", got.Status)
	}

	// The paid callback settles, found via order_id here.
	res, err = f.svc.HandleWebhook(payment.WebhookRequest{
		OrderID:  &f.orderID,
		Status:   models.PaymentStatusPaid,
		UPIRefID: "UPI-REF-9",
	})
	if err != nil {
		t.Fatalf("webhook(paid): %v", err)
	}
	if res.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("result status = %q, want paid", res.PaymentStatus)
	}
	got, _ := f.svc.Get(p.ID)
	if got.Status != models.PaymentStatusPaid || got.UPIRefID != "UPI-REF-9" {
		t.Errorf("payment after webhook = %+v, want paid with ref", got)
	}
	if f.payments.activeCount(p.ID) != 0 {
		t.Error("settled payment should keep no active QR")
	}

	// Redelivery reports success without re-mutating.
	res, err = f.svc.HandleWebhook(payment.WebhookRequest{PaymentID: &p.ID, Status: models.PaymentStatusPaid})
	if err != nil {
		t.Fatalf("webhook redelivery: %v", err)
	}
	if !res.OK || res.Message != "already paid" {
		t.Errorf("redelivery result = %+v, want already-paid ack", res)
	}
}

func TestWebhookWithoutIdentifiers(t *testing.T) {
	f := newFixture()

	_, err := f.svc.HandleWebhook(payment.WebhookRequest{Status: models.PaymentStatusPaid})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestWebhookUnknownPayment(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	_, err := f.svc.HandleWebhook(payment.WebhookRequest{PaymentID: &id, Status: models.PaymentStatusPaid})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePaymentWithoutRestaurant(t *testing.T) {
	orders := &mockOrderStore{orders: make(map[uuid.UUID]models.Order)}
	order := models.Order{TableNo: 1}
	order.ID = uuid.New()
	orders.orders[order.ID] = order

	svc := payment.NewService(
		orders,
		&mockInvoiceStore{invoices: make(map[uuid.UUID]models.Invoice)},
		&mockPaymentStore{},
		&mockRestaurantStore{},
	)

	_, err := svc.Create(payment.CreateRequest{OrderID: order.ID, Amount: amountOf(50)})
	if apperr.KindOf(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable without a configured upi_id, got %v", err)
	}
}
