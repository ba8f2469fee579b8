package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"
	paymentsvc "restaurant-management-backend/internal/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments *paymentsvc.Service
}

func NewPaymentHandler(payments *paymentsvc.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func qrImageURL(paymentID uuid.UUID) string {
	return fmt.Sprintf("/api/payments/%s/qr/image", paymentID)
}

func paymentResponse(p *models.Payment) gin.H {
	return gin.H{
		"payment_id":   p.ID.String(),
		"order_id":     p.OrderID.String(),
		"amount":       p.Amount,
		"status":       p.Status,
		"upi_ref_id":   p.UPIRefID,
		"retry_count":  p.RetryCount,
		"qr_image_url": qrImageURL(p.ID),
	}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var payload struct {
		OrderID        string   `json:"order_id"`
		Amount         *float64 `json:"amount"`
		InvoiceID      string   `json:"invoice_id"`
		UPIRefID       string   `json:"upi_ref_id"`
		RestaurantName string   `json:"restaurant_name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	req := paymentsvc.CreateRequest{
		Amount:         payload.Amount,
		UPIRefID:       payload.UPIRefID,
		RestaurantName: payload.RestaurantName,
	}
	if s := normalizeID(payload.OrderID); s != "" {
		orderID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a valid UUID"})
			return
		}
		req.OrderID = orderID
	}
	if s := normalizeID(payload.InvoiceID); s != "" {
		invoiceID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invoice_id must be a valid UUID"})
			return
		}
		req.InvoiceID = &invoiceID
	}

	p, err := h.payments.Create(req)
	if err != nil {
		// A duplicate carries the existing payment so the client can reuse
		// its QR instead of retrying.
		if existing, ok := apperr.DetailsOf(err).(*models.Payment); ok {
			c.JSON(http.StatusConflict, gin.H{
				"error":            err.Error(),
				"existing_payment": paymentResponse(existing),
				"qr_image_url":     qrImageURL(existing.ID),
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentResponse(p))
}

func (h *PaymentHandler) paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(normalizeID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	p, err := h.payments.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(p))
}

func (h *PaymentHandler) ActiveQR(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	qr, err := h.payments.ActiveQR(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"qr_code_id":   qr.ID.String(),
		"payment_id":   qr.PaymentID.String(),
		"qr_data":      qr.QRData,
		"is_active":    qr.IsActive,
		"qr_image_url": qrImageURL(qr.PaymentID),
	})
}

// QRImage streams the active QR as a PNG. size scales the modules, border is
// the quiet zone in modules; both are clamped server-side.
func (h *PaymentHandler) QRImage(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	border, _ := strconv.Atoi(c.DefaultQuery("border", "4"))

	png, err := h.payments.QRImage(id, size, border)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *PaymentHandler) Revive(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	p, qr, err := h.payments.Revive(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_id":  p.ID.String(),
		"retry_count": p.RetryCount,
		"new_qr": gin.H{
			"qr_code_id":   qr.ID.String(),
			"qr_data":      qr.QRData,
			"is_active":    qr.IsActive,
			"qr_image_url": qrImageURL(p.ID),
		},
	})
}

func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	var payload struct {
		UPIRefID string `json:"upi_ref_id"`
	}
	// Body is optional for a manual settle at the counter.
	_ = c.ShouldBindJSON(&payload)

	p, err := h.payments.MarkPaid(id, payload.UPIRefID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse(p))
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	var payload struct {
		PaymentID string `json:"payment_id"`
		OrderID   string `json:"order_id"`
		Status    string `json:"status"`
		UPIRefID  string `json:"upi_ref_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	req := paymentsvc.WebhookRequest{
		Status:   strings.ToLower(strings.TrimSpace(payload.Status)),
		UPIRefID: payload.UPIRefID,
	}
	if s := normalizeID(payload.PaymentID); s != "" {
		pid, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_id must be a valid UUID"})
			return
		}
		req.PaymentID = &pid
	}
	if s := normalizeID(payload.OrderID); s != "" {
		oid, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a valid UUID"})
			return
		}
		req.OrderID = &oid
	}

	result, err := h.payments.HandleWebhook(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type payPageData struct {
	PaymentID string
	Amount    float64
	Status    string
	Paid      bool
	QRImage   string
	UPIURI    string
}

// PayPage renders a customer-facing card with the QR to scan. A settled
// payment shows a confirmation instead of a QR.
func (h *PaymentHandler) PayPage(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}
	p, err := h.payments.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	data := payPageData{
		PaymentID: p.ID.String(),
		Amount:    p.Amount,
		Status:    strings.ToUpper(p.Status),
		Paid:      p.Status == models.PaymentStatusPaid,
	}
	if !data.Paid {
		qr, err := h.payments.ActiveQR(p.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		data.QRImage = qrImageURL(p.ID)
		data.UPIURI = qr.QRData
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := payPageTmpl.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

var payPageTmpl = template.Must(template.New("pay_page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pay &#8377;{{printf "%.2f" .Amount}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f4f4f5; margin: 0; display: flex; min-height: 100vh; align-items: center; justify-content: center; }
  .card { background: #fff; border-radius: 16px; padding: 32px; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,.08); max-width: 360px; }
  .amount { font-size: 36px; font-weight: 700; margin: 8px 0; }
  .qr { width: 260px; height: 260px; margin: 16px auto; display: block; }
  .hint { color: #71717a; font-size: 13px; }
  .paid { color: #15803d; font-size: 20px; font-weight: 600; margin: 24px 0; }
  .upi-link { display: inline-block; margin-top: 12px; color: #2563eb; font-size: 14px; text-decoration: none; }
</style>
</head>
<body>
<div class="card">
  <div class="hint">Scan to pay</div>
  <div class="amount">&#8377;{{printf "%.2f" .Amount}}</div>
  {{if .Paid}}
  <div class="paid">&#10003; Payment received</div>
  {{else}}
  <img class="qr" src="{{.QRImage}}" alt="UPI QR code">
  <div class="hint">Use any UPI app &mdash; GPay, PhonePe, Paytm</div>
  <a class="upi-link" href="{{.UPIURI}}">Open in UPI app</a>
  {{end}}
</div>
</body>
</html>
`))
