package handler

import (
	"net/http"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TableHandler struct {
	db *gorm.DB
}

func NewTableHandler(db *gorm.DB) *TableHandler {
	return &TableHandler{db: db}
}

func (h *TableHandler) Create(c *gin.Context) {
	var payload struct {
		TableNo int `json:"table_no"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	actor := middleware.Actor(c)
	table := &models.Table{TableNo: payload.TableNo}
	table.CreatedBy = actor
	table.UpdatedBy = actor

	if err := h.db.Create(table).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"table_id": table.ID.String(), "table_no": table.TableNo})
}

func (h *TableHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	var tables []models.Table
	err := h.db.Order("table_no ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&tables).Error
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(tables))
	for _, t := range tables {
		out = append(out, gin.H{"table_id": t.ID.String(), "table_no": t.TableNo})
	}
	c.JSON(http.StatusOK, out)
}

func (h *TableHandler) Get(c *gin.Context) {
	var table models.Table
	if err := h.db.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID.String(), "table_no": table.TableNo})
}

func (h *TableHandler) Update(c *gin.Context) {
	var table models.Table
	if err := h.db.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	var payload struct {
		TableNo int `json:"table_no"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	table.TableNo = payload.TableNo
	table.UpdatedBy = middleware.Actor(c)
	if err := h.db.Save(&table).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID.String(), "table_no": table.TableNo})
}

func (h *TableHandler) Delete(c *gin.Context) {
	var table models.Table
	if err := h.db.First(&table, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}
	if err := h.db.Delete(&table).Error; err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
