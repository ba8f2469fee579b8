package repository

import (
	"restaurant-management-backend/internal/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) DB() *gorm.DB {
	return r.db
}

func (r *RestaurantRepository) Create(rest *models.Restaurant) error {
	return r.db.Create(rest).Error
}

func (r *RestaurantRepository) List(page, perPage int) ([]models.Restaurant, error) {
	var rows []models.Restaurant
	err := r.db.
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	return rows, err
}

func (r *RestaurantRepository) GetByMerchantName(name string) (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.db.First(&rest, "upi_merchant_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

// First returns the first configured restaurant, the default payee identity
// when a caller does not name one.
func (r *RestaurantRepository) First() (*models.Restaurant, error) {
	var rest models.Restaurant
	if err := r.db.Order("created_at ASC").First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}
