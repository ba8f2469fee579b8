package handler

import (
	"net/http"

	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"
	"restaurant-management-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	restaurants *repository.RestaurantRepository
}

func NewRestaurantHandler(restaurants *repository.RestaurantRepository) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var payload struct {
		UPIMerchantName   string `json:"upi_merchant_name"`
		UPIID             string `json:"upi_id"`
		RestaurantAddress string `json:"restaurant_address"`
		RestaurantPhone   string `json:"restaurant_phone"`
		RestaurantEmail   string `json:"restaurant_email"`
		LogoURL           string `json:"logo_url"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	actor := middleware.Actor(c)
	rest := &models.Restaurant{
		UPIMerchantName:   payload.UPIMerchantName,
		UPIID:             payload.UPIID,
		RestaurantAddress: payload.RestaurantAddress,
		RestaurantPhone:   payload.RestaurantPhone,
		RestaurantEmail:   payload.RestaurantEmail,
		LogoURL:           payload.LogoURL,
	}
	rest.CreatedBy = actor
	rest.UpdatedBy = actor

	if err := h.restaurants.Create(rest); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rest)
}

func (h *RestaurantHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	rows, err := h.restaurants.List(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
