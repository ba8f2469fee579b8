package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuHandler struct {
	db *gorm.DB
}

func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

type menuPayload struct {
	ItemList     []map[string]any `json:"item_list"`
	Price        int              `json:"price"`
	Quantity     string           `json:"quantity"`
	CategoryName []string         `json:"category_name"`
}

func menuResponse(m *models.Menu) gin.H {
	var items []map[string]any
	if len(m.ItemList) > 0 {
		_ = json.Unmarshal(m.ItemList, &items)
	}
	var categories []string
	if len(m.CategoryName) > 0 {
		_ = json.Unmarshal(m.CategoryName, &categories)
	}
	return gin.H{
		"menu_id":       m.ID.String(),
		"item_list":     items,
		"price":         m.Price,
		"quantity":      m.Quantity,
		"category_name": categories,
	}
}

// normalizeID trims surrounding quotes so ids pasted as "uuid" still resolve.
func normalizeID(id string) string {
	return strings.Trim(strings.TrimSpace(id), `"'`)
}

func (h *MenuHandler) Create(c *gin.Context) {
	var payload menuPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	itemsJSON, _ := json.Marshal(payload.ItemList)
	categoriesJSON, _ := json.Marshal(payload.CategoryName)

	actor := middleware.Actor(c)
	menu := &models.Menu{
		ItemList:     datatypes.JSON(itemsJSON),
		Price:        payload.Price,
		Quantity:     payload.Quantity,
		CategoryName: datatypes.JSON(categoriesJSON),
	}
	menu.CreatedBy = actor
	menu.UpdatedBy = actor

	if err := h.db.Create(menu).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menuResponse(menu))
}

func (h *MenuHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	var menus []models.Menu
	err := h.db.Order("created_at ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&menus).Error
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(menus))
	for i := range menus {
		out = append(out, menuResponse(&menus[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) Get(c *gin.Context) {
	var menu models.Menu
	if err := h.db.First(&menu, "id = ?", normalizeID(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found; use a menu_id from GET /get_menus"})
		return
	}
	c.JSON(http.StatusOK, menuResponse(&menu))
}

func (h *MenuHandler) Update(c *gin.Context) {
	var menu models.Menu
	if err := h.db.First(&menu, "id = ?", normalizeID(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found; use a menu_id from GET /get_menus"})
		return
	}

	var payload menuPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	itemsJSON, _ := json.Marshal(payload.ItemList)
	categoriesJSON, _ := json.Marshal(payload.CategoryName)
	menu.ItemList = datatypes.JSON(itemsJSON)
	menu.Price = payload.Price
	menu.Quantity = payload.Quantity
	menu.CategoryName = datatypes.JSON(categoriesJSON)
	menu.UpdatedBy = middleware.Actor(c)

	if err := h.db.Save(&menu).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuResponse(&menu))
}

func (h *MenuHandler) Delete(c *gin.Context) {
	var menu models.Menu
	if err := h.db.First(&menu, "id = ?", normalizeID(c.Param("id"))).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found; use a menu_id from GET /get_menus"})
		return
	}
	if err := h.db.Delete(&menu).Error; err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
