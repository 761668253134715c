package service

import (
	"time"

	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"
)

// PerformanceService 历史绩效快照服务
//
// 快照只追加不修改：每次捕获都把供应商当前的四个派生指标原样
// 复制成一行新记录，历史行永不回写。
type PerformanceService struct {
	vendorRepo      repository.VendorRepository
	performanceRepo repository.PerformanceRepository
}

// NewPerformanceService 创建快照服务
func NewPerformanceService(vendorRepo repository.VendorRepository, performanceRepo repository.PerformanceRepository) *PerformanceService {
	return &PerformanceService{vendorRepo: vendorRepo, performanceRepo: performanceRepo}
}

// Capture 为单个供应商捕获一条绩效快照
func (s *PerformanceService) Capture(vendorID uint, recordedAt time.Time) (*models.HistoricalPerformance, error) {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	snapshot := &models.HistoricalPerformance{
		VendorID:            vendor.ID,
		RecordedAt:          recordedAt,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    copyNullableMetric(vendor.QualityRatingAvg),
		AverageResponseTime: copyNullableMetric(vendor.AverageResponseTime),
		FulfillmentRate:     vendor.FulfillmentRate,
	}
	if err := s.performanceRepo.Create(snapshot); err != nil {
		return nil, err
	}
	logger.Infow("performance_snapshot_recorded",
		"vendor_id", vendor.ID,
		"snapshot_id", snapshot.ID,
	)
	return snapshot, nil
}

// CaptureAll 为全部供应商各捕获一条快照
//
// 单个供应商失败不会中断其余供应商，返回成功捕获的条数。
func (s *PerformanceService) CaptureAll(recordedAt time.Time) (int, error) {
	ids, err := s.vendorRepo.ListIDs()
	if err != nil {
		return 0, err
	}

	captured := 0
	for _, id := range ids {
		if _, err := s.Capture(id, recordedAt); err != nil {
			logger.Warnw("performance_snapshot_failed", "vendor_id", id, "error", err.Error())
			continue
		}
		captured++
	}
	return captured, nil
}

// ListHistory 供应商历史快照列表
func (s *PerformanceService) ListHistory(filter repository.SnapshotListFilter) ([]models.HistoricalPerformance, int64, error) {
	if filter.VendorID != 0 {
		vendor, err := s.vendorRepo.GetByID(filter.VendorID)
		if err != nil {
			return nil, 0, err
		}
		if vendor == nil {
			return nil, 0, ErrVendorNotFound
		}
	}
	return s.performanceRepo.ListByVendor(filter)
}

// copyNullableMetric 复制可空指标，避免快照与供应商行共享指针。
func copyNullableMetric(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
