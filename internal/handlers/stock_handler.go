package handler

import (
	"net/http"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StockHandler struct {
	db *gorm.DB
}

func NewStockHandler(db *gorm.DB) *StockHandler {
	return &StockHandler{db: db}
}

func (h *StockHandler) Create(c *gin.Context) {
	var payload struct {
		Name          string  `json:"name"`
		Quantity      float64 `json:"quantity"`
		UnitOfMeasure string  `json:"unit_of_measure"`
		CostPerUnit   float64 `json:"cost_per_unit"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	actor := middleware.Actor(c)
	stock := &models.Stock{
		Name:          payload.Name,
		Quantity:      payload.Quantity,
		UnitOfMeasure: payload.UnitOfMeasure,
		CostPerUnit:   payload.CostPerUnit,
	}
	stock.CreatedBy = actor
	stock.UpdatedBy = actor

	if err := h.db.Create(stock).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stock)
}

func (h *StockHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	var stocks []models.Stock
	err := h.db.Order("name ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&stocks).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *StockHandler) Get(c *gin.Context) {
	var stock models.Stock
	if err := h.db.First(&stock, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *StockHandler) Update(c *gin.Context) {
	var stock models.Stock
	if err := h.db.First(&stock, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
		return
	}

	var payload struct {
		Name          *string  `json:"name"`
		Quantity      *float64 `json:"quantity"`
		UnitOfMeasure *string  `json:"unit_of_measure"`
		CostPerUnit   *float64 `json:"cost_per_unit"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Name != nil {
		stock.Name = *payload.Name
	}
	if payload.Quantity != nil {
		stock.Quantity = *payload.Quantity
	}
	if payload.UnitOfMeasure != nil {
		stock.UnitOfMeasure = *payload.UnitOfMeasure
	}
	if payload.CostPerUnit != nil {
		stock.CostPerUnit = *payload.CostPerUnit
	}
	stock.UpdatedBy = middleware.Actor(c)

	if err := h.db.Save(&stock).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *StockHandler) Delete(c *gin.Context) {
	var stock models.Stock
	if err := h.db.First(&stock, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
		return
	}
	if err := h.db.Delete(&stock).Error; err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
