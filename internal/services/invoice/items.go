package invoice

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// LineItem is one billed row parsed from an order's item_list.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// ParseOrderItems parses an order's serialized item_list into line items.
// The stored JSON comes from several frontend generations, so field names
// vary: name/item_name/description, qty/quantity, and price may arrive as a
// string. Malformed entries are skipped rather than failing the invoice.
func ParseOrderItems(itemList string) []LineItem {
	if itemList == "" {
		return nil
	}
	var raw []map[string]any
	if err := json.Unmarshal([]byte(itemList), &raw); err != nil {
		return nil
	}
	items := make([]LineItem, 0, len(raw))
	for i, el := range raw {
		name := firstString(el, "name", "item_name", "description")
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}
		qty := firstInt(el, "qty", "quantity")
		if qty == 0 {
			qty = 1
		}
		items = append(items, LineItem{
			Description: name,
			Quantity:    qty,
			Price:       firstFloat(el, "price"),
		})
	}
	return items
}

// Subtotal sums quantity*price over items, rounded to 2 decimals.
func Subtotal(items []LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	f, _ := sum.Round(2).Float64()
	return f
}

// ComputeTotal applies GST and discount to a subtotal. Each intermediate
// amount is rounded to 2 decimals; the discount applies to the subtotal, not
// the GST-inclusive amount.
func ComputeTotal(subtotal, gstPercent, discountPercent float64) float64 {
	_, _, total := Breakdown(subtotal, gstPercent, discountPercent)
	return total
}

// Breakdown returns (gstAmount, discountAmount, total) for a subtotal.
func Breakdown(subtotal, gstPercent, discountPercent float64) (float64, float64, float64) {
	s := decimal.NewFromFloat(subtotal).Round(2)
	hundred := decimal.NewFromInt(100)
	gst := s.Mul(decimal.NewFromFloat(gstPercent)).Div(hundred).Round(2)
	disc := s.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred).Round(2)
	total := s.Add(gst).Sub(disc).Round(2)

	gstF, _ := gst.Float64()
	discF, _ := disc.Float64()
	totalF, _ := total.Float64()
	return gstF, discF, totalF
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
		}
	}
	return 0
}

func firstFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
