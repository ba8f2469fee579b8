package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"
	"restaurant-management-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orders *repository.OrderRepository
}

func NewOrderHandler(orders *repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// orderStatusFor prefers the order_status row when one exists, else derives
// the status from the legacy flags.
func (h *OrderHandler) orderStatusFor(o *models.Order) string {
	if row, err := h.orders.GetStatusRow(o.ID); err == nil {
		if s := strings.ToLower(strings.TrimSpace(row.Status)); s != "" {
			switch s {
			case models.OrderStatusPending, models.OrderStatusPreparing,
				models.OrderStatusReady, models.OrderStatusCancelled:
				return s
			}
		}
	}
	return o.DerivedStatus()
}

func (h *OrderHandler) orderResponse(o *models.Order) gin.H {
	itemList := o.ItemList
	if itemList == "" {
		itemList = "[]"
	}
	return gin.H{
		"order_id":     o.ID.String(),
		"item_list":    itemList,
		"order_status": h.orderStatusFor(o),
		"table_no":     o.TableNo,
	}
}

// parseTableNo accepts a table number sent either as a JSON number or a
// numeric string.
func parseTableNo(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func (h *OrderHandler) Create(c *gin.Context) {
	var payload struct {
		ItemList string `json:"item_list"`
		Quantity int    `json:"quantity"`
		TableNo  any    `json:"table_no"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tableNo, ok := parseTableNo(payload.TableNo)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table_no must be a valid integer"})
		return
	}

	actor := middleware.Actor(c)
	order := &models.Order{
		ItemList:     payload.ItemList,
		Quantity:     payload.Quantity,
		TableNo:      tableNo,
		OrderPending: true,
	}
	order.CreatedBy = actor
	order.UpdatedBy = actor

	if err := h.orders.Create(order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.orderResponse(order))
}

func (h *OrderHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	orders, err := h.orders.List(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, h.orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) getOrder(c *gin.Context) (*models.Order, bool) {
	id, err := uuid.Parse(normalizeID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return nil, false
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, ok := h.getOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(order))
}

func (h *OrderHandler) Update(c *gin.Context) {
	order, ok := h.getOrder(c)
	if !ok {
		return
	}

	var payload struct {
		ItemList string `json:"item_list"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	order.ItemList = payload.ItemList
	order.Quantity = payload.Quantity
	order.UpdatedBy = middleware.Actor(c)

	if err := h.orders.Save(order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(order))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	order, ok := h.getOrder(c)
	if !ok {
		return
	}
	if err := h.orders.SoftDelete(order); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateStatus upserts the order's order_status row. Orders do not get one at
// creation; the first status update creates it.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	order, ok := h.getOrder(c)
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	switch status {
	case models.OrderStatusPending, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, preparing, ready, cancelled"})
		return
	}

	actor := middleware.Actor(c)
	row, err := h.orders.GetStatusRow(order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err)
			return
		}
		row = &models.OrderStatus{OrderID: order.ID}
		row.CreatedBy = actor
	}
	row.Status = status
	row.UpdatedBy = actor

	if err := h.orders.SaveStatusRow(row); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID.String(), "status": row.Status})
}
