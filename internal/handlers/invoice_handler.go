package handler

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"
	"restaurant-management-backend/internal/repository"
	invoicesvc "restaurant-management-backend/internal/services/invoice"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoices    *invoicesvc.Service
	restaurants *repository.RestaurantRepository
}

func NewInvoiceHandler(invoices *invoicesvc.Service, restaurants *repository.RestaurantRepository) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, restaurants: restaurants}
}

type invoicePayload struct {
	OrderID         string  `json:"order_id"`
	TableNo         *int    `json:"table_no"`
	InvoiceNumber   string  `json:"invoice_number"`
	InvoiceDate     string  `json:"invoice_date"`
	GSTPercent      float64 `json:"gst_percent"`
	DiscountPercent float64 `json:"discount_percent"`
	PaymentStatus   string  `json:"payment_status"`
	Notes           string  `json:"notes"`
	CustomerName    string  `json:"customer_name"`
}

// parseInvoiceDate accepts a bare date or a full RFC3339 timestamp.
func parseInvoiceDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invoice_date must be YYYY-MM-DD or RFC3339")
}

func invoiceResponse(inv *models.Invoice) gin.H {
	resp := gin.H{
		"invoice_id":       inv.ID.String(),
		"order_id":         inv.OrderID.String(),
		"invoice_number":   inv.InvoiceNumber,
		"invoice_date":     inv.InvoiceDate,
		"total_amount":     inv.TotalAmount,
		"gst_percent":      inv.GSTPercent,
		"discount_percent": inv.DiscountPercent,
		"payment_status":   inv.PaymentStatus,
		"notes":            inv.Notes,
		"customer_name":    inv.CustomerName,
	}
	if ids := invoicesvc.MergedOrderIDs(inv); len(ids) > 0 {
		resp["order_ids"] = ids
	}
	return resp
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var payload invoicePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	orderID, err := uuid.Parse(normalizeID(payload.OrderID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a valid UUID"})
		return
	}
	invoiceDate, err := parseInvoiceDate(payload.InvoiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.invoices.CreateForOrder(invoicesvc.CreateRequest{
		OrderID:         orderID,
		InvoiceNumber:   payload.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		GSTPercent:      payload.GSTPercent,
		DiscountPercent: payload.DiscountPercent,
		PaymentStatus:   payload.PaymentStatus,
		Notes:           payload.Notes,
		CustomerName:    payload.CustomerName,
	}, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoiceResponse(inv))
}

// CreateForTable merges every uninvoiced order on the table into one invoice.
func (h *InvoiceHandler) CreateForTable(c *gin.Context) {
	var payload invoicePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.TableNo == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table_no is required"})
		return
	}
	invoiceDate, err := parseInvoiceDate(payload.InvoiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.invoices.CreateForTable(invoicesvc.CreateForTableRequest{
		TableNo:         *payload.TableNo,
		InvoiceNumber:   payload.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		GSTPercent:      payload.GSTPercent,
		DiscountPercent: payload.DiscountPercent,
		PaymentStatus:   payload.PaymentStatus,
		Notes:           payload.Notes,
		CustomerName:    payload.CustomerName,
	}, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoiceResponse(inv))
}

func (h *InvoiceHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	invoices, err := h.invoices.List(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(invoices))
	for i := range invoices {
		out = append(out, invoiceResponse(&invoices[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *InvoiceHandler) invoiceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(normalizeID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	inv, err := h.invoices.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceResponse(inv))
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	var payload struct {
		OrderID         *string  `json:"order_id"`
		InvoiceNumber   *string  `json:"invoice_number"`
		InvoiceDate     *string  `json:"invoice_date"`
		TotalAmount     *float64 `json:"total_amount"`
		GSTPercent      *float64 `json:"gst_percent"`
		DiscountPercent *float64 `json:"discount_percent"`
		PaymentStatus   *string  `json:"payment_status"`
		Notes           *string  `json:"notes"`
		CustomerName    *string  `json:"customer_name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	req := invoicesvc.UpdateRequest{
		InvoiceNumber:   payload.InvoiceNumber,
		TotalAmount:     payload.TotalAmount,
		GSTPercent:      payload.GSTPercent,
		DiscountPercent: payload.DiscountPercent,
		PaymentStatus:   payload.PaymentStatus,
		Notes:           payload.Notes,
		CustomerName:    payload.CustomerName,
	}
	if payload.OrderID != nil {
		orderID, err := uuid.Parse(normalizeID(*payload.OrderID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a valid UUID"})
			return
		}
		req.OrderID = &orderID
	}
	if payload.InvoiceDate != nil {
		t, err := parseInvoiceDate(*payload.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.InvoiceDate = t
	}

	inv, err := h.invoices.Update(id, req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceResponse(inv))
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	if err := h.invoices.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InvoiceHandler) TablesWithUninvoicedOrders(c *gin.Context) {
	tables, err := h.invoices.TablesWithUninvoicedOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	if tables == nil {
		tables = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

type invoiceViewLine struct {
	Description string
	Quantity    int
	Price       float64
	Amount      float64
}

type invoiceViewData struct {
	RestaurantName    string
	RestaurantInitial string
	LogoURL           string
	Address           string
	Phone             string
	Email             string
	InvoiceNumber     string
	InvoiceDate       string
	BilledTo          string
	PaymentStatus     string
	Notes             string
	Lines             []invoiceViewLine
	Subtotal          float64
	GSTPercent        float64
	GSTAmount         float64
	DiscountPercent   float64
	DiscountAmount    float64
	Total             float64
}

// ViewPage renders a printable invoice. Amounts are recomputed from the
// underlying orders; if the recomputed total drifts more than a paisa from
// the stored one, the stored total wins since it may have been edited by hand.
func (h *InvoiceHandler) ViewPage(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	inv, err := h.invoices.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.invoices.OrdersForInvoice(inv)
	if err != nil {
		respondError(c, err)
		return
	}

	var lines []invoiceViewLine
	subtotal := 0.0
	tableNo := 0
	for i := range orders {
		tableNo = orders[i].TableNo
		for _, it := range invoicesvc.ParseOrderItems(orders[i].ItemList) {
			amount := it.Price * float64(it.Quantity)
			lines = append(lines, invoiceViewLine{
				Description: it.Description,
				Quantity:    it.Quantity,
				Price:       it.Price,
				Amount:      amount,
			})
			subtotal += amount
		}
	}

	gstAmt, discAmt, total := invoicesvc.Breakdown(subtotal, inv.GSTPercent, inv.DiscountPercent)
	if math.Abs(total-inv.TotalAmount) > 0.01 {
		total = inv.TotalAmount
	}

	billedTo := inv.CustomerName
	if billedTo == "" {
		billedTo = fmt.Sprintf("Table %d", tableNo)
	}

	data := invoiceViewData{
		RestaurantName: "Restaurant",
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate.Format("02 Jan 2006"),
		BilledTo:       billedTo,
		PaymentStatus:  strings.ToUpper(inv.PaymentStatus),
		Notes:          inv.Notes,
		Lines:          lines,
		Subtotal:       subtotal,
		GSTPercent:     inv.GSTPercent,
		GSTAmount:      gstAmt,
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  discAmt,
		Total:           total,
	}
	if r, err := h.restaurants.First(); err == nil && r != nil {
		if r.UPIMerchantName != "" {
			data.RestaurantName = r.UPIMerchantName
		}
		data.LogoURL = r.LogoURL
		data.Address = r.RestaurantAddress
		data.Phone = r.RestaurantPhone
		data.Email = r.RestaurantEmail
	}
	if data.RestaurantName != "" {
		data.RestaurantInitial = strings.ToUpper(data.RestaurantName[:1])
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := invoiceViewTmpl.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

var invoiceViewTmpl = template.Must(template.New("invoice_view").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f4f4f5; margin: 0; padding: 24px; color: #18181b; }
  .sheet { max-width: 640px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,.08); }
  .head { display: flex; align-items: center; gap: 16px; border-bottom: 2px solid #18181b; padding-bottom: 16px; }
  .logo, .logo-fallback { width: 56px; height: 56px; border-radius: 8px; }
  .logo { object-fit: cover; }
  .logo-fallback { background: #18181b; color: #fff; display: flex; align-items: center; justify-content: center; font-size: 28px; font-weight: 700; }
  .meta { color: #52525b; font-size: 13px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th { text-align: left; font-size: 12px; text-transform: uppercase; color: #71717a; border-bottom: 1px solid #e4e4e7; padding: 8px 4px; }
  td { padding: 8px 4px; border-bottom: 1px solid #f4f4f5; }
  .num { text-align: right; }
  .totals td { border: none; padding: 4px; }
  .totals .grand td { font-size: 18px; font-weight: 700; border-top: 2px solid #18181b; padding-top: 8px; }
  .status { display: inline-block; padding: 2px 10px; border-radius: 999px; font-size: 12px; font-weight: 600; background: #fef3c7; color: #92400e; }
  .notes { margin-top: 24px; font-size: 13px; color: #52525b; }
  @media print { body { background: #fff; padding: 0; } .sheet { box-shadow: none; } }
</style>
</head>
<body>
<div class="sheet">
  <div class="head">
    {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">{{else}}<div class="logo-fallback">{{.RestaurantInitial}}</div>{{end}}
    <div>
      <h1 style="margin:0;font-size:22px">{{.RestaurantName}}</h1>
      <div class="meta">{{.Address}}{{if .Phone}} &middot; {{.Phone}}{{end}}{{if .Email}} &middot; {{.Email}}{{end}}</div>
    </div>
  </div>
  <div style="display:flex;justify-content:space-between;margin-top:16px">
    <div>
      <div class="meta">Billed to</div>
      <div style="font-weight:600">{{.BilledTo}}</div>
    </div>
    <div style="text-align:right">
      <div style="font-weight:600">{{.InvoiceNumber}}</div>
      <div class="meta">{{.InvoiceDate}}</div>
      <span class="status">{{.PaymentStatus}}</span>
    </div>
  </div>
  <table>
    <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr></thead>
    <tbody>
    {{range .Lines}}<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{printf "%.2f" .Price}}</td><td class="num">{{printf "%.2f" .Amount}}</td></tr>
    {{end}}</tbody>
  </table>
  <table class="totals" style="max-width:260px;margin-left:auto">
    <tr><td>Subtotal</td><td class="num">{{printf "%.2f" .Subtotal}}</td></tr>
    <tr><td>GST ({{printf "%g" .GSTPercent}}%)</td><td class="num">{{printf "%.2f" .GSTAmount}}</td></tr>
    <tr><td>Discount ({{printf "%g" .DiscountPercent}}%)</td><td class="num">-{{printf "%.2f" .DiscountAmount}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">&#8377;{{printf "%.2f" .Total}}</td></tr>
  </table>
  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</div>
</body>
</html>
`))
