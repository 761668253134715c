package repository

import (
	"github.com/vendortrack/internal/models"

	"gorm.io/gorm"
)

// PerformanceRepository 历史绩效快照数据访问接口
//
// 快照只允许追加与查询，没有更新与删除入口。
type PerformanceRepository interface {
	Create(snapshot *models.HistoricalPerformance) error
	ListByVendor(filter SnapshotListFilter) ([]models.HistoricalPerformance, int64, error)
}

// GormPerformanceRepository GORM 实现
type GormPerformanceRepository struct {
	db *gorm.DB
}

// NewPerformanceRepository 创建快照仓库
func NewPerformanceRepository(db *gorm.DB) *GormPerformanceRepository {
	return &GormPerformanceRepository{db: db}
}

// Create 追加快照
func (r *GormPerformanceRepository) Create(snapshot *models.HistoricalPerformance) error {
	return r.db.Create(snapshot).Error
}

// ListByVendor 查询供应商的历史快照
func (r *GormPerformanceRepository) ListByVendor(filter SnapshotListFilter) ([]models.HistoricalPerformance, int64, error) {
	var snapshots []models.HistoricalPerformance
	query := r.db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", filter.VendorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("recorded_at desc, id desc").Find(&snapshots).Error; err != nil {
		return nil, 0, err
	}
	return snapshots, total, nil
}
