package handler

import (
	"net/http"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var payload struct {
		CategoryName string `json:"category_name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.CategoryName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_name is required"})
		return
	}

	actor := middleware.Actor(c)
	category := &models.Category{CategoryName: payload.CategoryName}
	category.CreatedBy = actor
	category.UpdatedBy = actor

	if err := h.db.Create(category).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"category_id":   category.ID.String(),
		"category_name": category.CategoryName,
	})
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	var categories []models.Category
	err := h.db.Order("category_name ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&categories).Error
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, gin.H{
			"category_id":   cat.ID.String(),
			"category_name": cat.CategoryName,
		})
	}
	c.JSON(http.StatusOK, out)
}
