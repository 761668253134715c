package repository

import (
	"errors"

	"github.com/vendortrack/internal/models"

	"gorm.io/gorm"
)

// PurchaseOrderRepository 采购订单数据访问接口
type PurchaseOrderRepository interface {
	Create(order *models.PurchaseOrder) error
	GetByID(id uint) (*models.PurchaseOrder, error)
	GetByPONumber(poNumber string) (*models.PurchaseOrder, error)
	ListByVendor(vendorID uint) ([]models.PurchaseOrder, error)
	ListByVendorAndStatus(vendorID uint, status string) ([]models.PurchaseOrder, error)
	List(filter OrderListFilter) ([]models.PurchaseOrder, int64, error)
	Save(order *models.PurchaseOrder) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormPurchaseOrderRepository
}

// GormPurchaseOrderRepository GORM 实现
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository 创建采购订单仓库
func NewPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseOrderRepository) WithTx(tx *gorm.DB) *GormPurchaseOrderRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseOrderRepository{db: tx}
}

// Create 创建采购订单
func (r *GormPurchaseOrderRepository) Create(order *models.PurchaseOrder) error {
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取采购订单
func (r *GormPurchaseOrderRepository) GetByID(id uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByPONumber 根据订单编号获取采购订单
func (r *GormPurchaseOrderRepository) GetByPONumber(poNumber string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.Where("po_number = ?", poNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByVendor 获取供应商的全部订单
func (r *GormPurchaseOrderRepository) ListByVendor(vendorID uint) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByVendorAndStatus 获取供应商指定状态的订单
func (r *GormPurchaseOrderRepository) ListByVendorAndStatus(vendorID uint, status string) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := r.db.Where("vendor_id = ? AND status = ?", vendorID, status).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List 采购订单列表
func (r *GormPurchaseOrderRepository) List(filter OrderListFilter) ([]models.PurchaseOrder, int64, error) {
	var orders []models.PurchaseOrder
	query := r.db.Model(&models.PurchaseOrder{})

	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PONumber != "" {
		query = query.Where("po_number = ?", filter.PONumber)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save 保存采购订单
func (r *GormPurchaseOrderRepository) Save(order *models.PurchaseOrder) error {
	return r.db.Save(order).Error
}

// Delete 删除采购订单
func (r *GormPurchaseOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.PurchaseOrder{}, id).Error
}
