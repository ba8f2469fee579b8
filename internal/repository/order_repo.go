package repository

import (
	"restaurant-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

func (r *OrderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) Save(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *OrderRepository) SoftDelete(order *models.Order) error {
	return r.db.Delete(order).Error
}

func (r *OrderRepository) List(page, perPage int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	return orders, err
}

// ListUninvoicedForTable returns the table's orders whose ids are not in
// excluded, oldest first so the first order stays stable across merges.
func (r *OrderRepository) ListUninvoicedForTable(tableNo int, excluded []string) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("table_no = ?", tableNo).Order("created_at ASC")
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}
	err := query.Find(&orders).Error
	return orders, err
}

// DistinctTablesExcluding returns table numbers that still have at least one
// order outside the excluded id set.
func (r *OrderRepository) DistinctTablesExcluding(excluded []string) ([]int, error) {
	var tables []int
	query := r.db.Model(&models.Order{}).Distinct("table_no").Order("table_no")
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}
	err := query.Pluck("table_no", &tables).Error
	return tables, err
}

// GetStatusRow returns the order's OrderStatus row, if one exists.
func (r *OrderRepository) GetStatusRow(orderID uuid.UUID) (*models.OrderStatus, error) {
	var row models.OrderStatus
	if err := r.db.First(&row, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrderRepository) SaveStatusRow(row *models.OrderStatus) error {
	return r.db.Save(row).Error
}
