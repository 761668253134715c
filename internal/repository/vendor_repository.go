package repository

import (
	"errors"

	"github.com/vendortrack/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 供应商数据访问接口
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id uint) (*models.Vendor, error)
	GetByCode(code string) (*models.Vendor, error)
	List(filter VendorListFilter) ([]models.Vendor, int64, error)
	ListIDs() ([]uint, error)
	Update(vendor *models.Vendor) error
	UpdateMetrics(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormVendorRepository
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) *GormVendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// Create 创建供应商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// GetByID 根据 ID 获取供应商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByCode 根据供应商编码获取供应商
func (r *GormVendorRepository) GetByCode(code string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("vendor_code = ?", code).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// List 供应商列表
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	var vendors []models.Vendor
	query := r.db.Model(&models.Vendor{})

	if filter.VendorCode != "" {
		query = query.Where("vendor_code = ?", filter.VendorCode)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id asc").Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// ListIDs 获取全部供应商 ID
func (r *GormVendorRepository) ListIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Vendor{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update 更新供应商
func (r *GormVendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// UpdateMetrics 写回派生指标字段
//
// 使用 map 更新以便将可空指标显式写为 NULL。
func (r *GormVendorRepository) UpdateMetrics(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Vendor{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除供应商及其关联数据
func (r *GormVendorRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vendor_id = ?", id).Delete(&models.PurchaseOrder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ?", id).Delete(&models.HistoricalPerformance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vendor{}, id).Error
	})
}
