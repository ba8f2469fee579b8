package repository

import (
	"restaurant-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetAnyByID also finds soft-deleted invoices, used by idempotent delete.
func (r *InvoiceRepository) GetAnyByID(id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.Unscoped().First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListActive returns every non-deleted invoice. Used for the uninvoiced-order
// scan; fine at restaurant scale.
func (r *InvoiceRepository) ListActive() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) List(page, perPage int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) Save(inv *models.Invoice) error {
	return r.db.Save(inv).Error
}

func (r *InvoiceRepository) SoftDelete(inv *models.Invoice) error {
	return r.db.Delete(inv).Error
}
