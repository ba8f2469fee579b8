package payment

import (
	"fmt"
	"net/url"
	"strings"

	"restaurant-management-backend/internal/apperr"
	"restaurant-management-backend/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateUPIURI builds the UPI deep link for a payment. The payee VPA comes
// from the restaurant's upi_id; without it a QR would credit nobody, so an
// unset VPA is a hard failure.
func GenerateUPIURI(orderID string, amount float64, restaurant *models.Restaurant) (string, error) {
	var vpa, merchant string
	if restaurant != nil {
		vpa = strings.TrimSpace(restaurant.UPIID)
		merchant = restaurant.UPIMerchantName
	}
	if vpa == "" {
		return "", apperr.Unavailable(
			"restaurant upi_id is not set; add a upi_id (e.g. 9876543210@ybl) so payment QR codes credit to the restaurant's account",
		)
	}

	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", merchant)
	params.Set("am", fmt.Sprintf("%.2f", amount))
	params.Set("cu", "INR")
	params.Set("tn", "Order "+orderID)
	return "upi://pay?" + params.Encode(), nil
}

const (
	minQRSize   = 1
	maxQRSize   = 20
	minQRBorder = 0
	maxQRBorder = 10
)

// GenerateQRPNG renders the data string as a PNG QR code. Size and border
// mirror the query parameters of the image endpoint and are clamped so
// adversarial values cannot demand huge images.
func GenerateQRPNG(data string, size, border int) ([]byte, error) {
	size = clamp(size, minQRSize, maxQRSize)
	border = clamp(border, minQRBorder, maxQRBorder)

	q, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = border == 0

	// 21 modules is the smallest symbol; border counts once per side.
	px := (21 + 2*border) * size
	return q.PNG(px)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
