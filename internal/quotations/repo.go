package quotations

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Repository persists quotations and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quotation *models.Quotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	ListPendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	FindService(ctx context.Context, serviceID uuid.UUID) (*models.Service, error)
	CreateItem(ctx context.Context, item *models.QuotationLineItem) error
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.QuotationLineItem, error)
	UpdateItemCost(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	ListItems(ctx context.Context, quotationID uuid.UUID) ([]models.QuotationLineItem, error)
	CompareAndSetTotal(ctx context.Context, id uuid.UUID, version int64, total decimal.Decimal) (bool, error)
	CompareAndSetDecision(ctx context.Context, id uuid.UUID, version int64, status enums.QuotationStatus, finalTotal decimal.NullDecimal) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the quotations repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	if err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

// LockByID reads the quotation with SELECT ... FOR UPDATE. Concurrent
// writers on the same quotation queue here until the holder commits. The
// sqlite dialect drops the locking clause.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&quotation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ListPendingIDs returns up to limit pending quotation ids, oldest first.
func (r *repository) ListPendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("status = ?", enums.QuotationStatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", vehicleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindService(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", serviceID).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.QuotationLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.QuotationLineItem, error) {
	var item models.QuotationLineItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItemCost(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.QuotationLineItem{}).
		Where("id = ?", itemID).
		Update("cost", cost).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.QuotationLineItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListItems(ctx context.Context, quotationID uuid.UUID) ([]models.QuotationLineItem, error) {
	var items []models.QuotationLineItem
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CompareAndSetTotal writes the cached total only if the row still carries
// version, bumping it. ok=false means another writer got there first.
func (r *repository) CompareAndSetTotal(ctx context.Context, id uuid.UUID, version int64, total decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"estimated_total": total,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) CompareAndSetDecision(ctx context.Context, id uuid.UUID, version int64, status enums.QuotationStatus, finalTotal decimal.NullDecimal) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"status":      status,
			"final_total": finalTotal,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
