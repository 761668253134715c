package service

import (
	"context"
	"sync"
	"time"

	"github.com/vendortrack/internal/cache"
	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"

	"gorm.io/gorm"
)

// MetricsService 供应商绩效指标引擎
//
// 四项指标是订单聚合的派生缓存，只能由这里的重算方法写回。
// 同一供应商的"读订单→计算→写回"在事务内执行，并以供应商粒度互斥，
// 避免并发订单变更互相覆盖。
type MetricsService struct {
	orderRepo  repository.PurchaseOrderRepository
	vendorRepo repository.VendorRepository

	locks sync.Map // vendorID -> *sync.Mutex
}

// NewMetricsService 创建指标引擎
func NewMetricsService(orderRepo repository.PurchaseOrderRepository, vendorRepo repository.VendorRepository) *MetricsService {
	return &MetricsService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
	}
}

// onTimeDeliveryRate 准时交付率
//
// 分子为交付时间不晚于阈值的已完成订单数，阈值来自触发订单自身的
// delivery_date（沿用参考系统的口径，而非对比承诺交付时间）；
// 分母为已完成订单总数，为零时返回 0。
func onTimeDeliveryRate(completed []models.PurchaseOrder, threshold time.Time) float64 {
	if len(completed) == 0 {
		return 0
	}
	onTime := 0
	for _, order := range completed {
		if !order.DeliveryDate.After(threshold) {
			onTime++
		}
	}
	return float64(onTime) / float64(len(completed))
}

// qualityRatingAvg 质量评分均值，无评分数据时返回 nil
func qualityRatingAvg(orders []models.PurchaseOrder) *float64 {
	sum := 0.0
	count := 0
	for _, order := range orders {
		if order.Status != constants.OrderStatusCompleted || order.QualityRating == nil {
			continue
		}
		sum += *order.QualityRating
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// averageResponseSeconds 平均响应时长（秒）
//
// 范围为所有已确认订单的 acknowledgment_date - issue_date；
// 没有已确认订单时 ok 为 false，调用方不得写回。
func averageResponseSeconds(orders []models.PurchaseOrder) (float64, bool) {
	sum := 0.0
	count := 0
	for _, order := range orders {
		if order.AcknowledgmentDate == nil {
			continue
		}
		sum += order.AcknowledgmentDate.Sub(order.IssueDate).Seconds()
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// fulfillmentRate 履约率：已完成订单数 / 全部订单数，为零时返回 0
func fulfillmentRate(orders []models.PurchaseOrder) float64 {
	if len(orders) == 0 {
		return 0
	}
	completed := 0
	for _, order := range orders {
		if order.Status == constants.OrderStatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(orders))
}

func (s *MetricsService) vendorLock(vendorID uint) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(vendorID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// RecomputeOnTimeDeliveryRate 重算准时交付率并写回
func (s *MetricsService) RecomputeOnTimeDeliveryRate(vendorID uint, threshold time.Time) error {
	return s.recompute(vendorID, func(tx *gorm.DB) (map[string]interface{}, error) {
		completed, err := s.orderRepo.WithTx(tx).ListByVendorAndStatus(vendorID, constants.OrderStatusCompleted)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"on_time_delivery_rate": onTimeDeliveryRate(completed, threshold),
		}, nil
	})
}

// RecomputeQualityRatingAvg 重算质量评分均值并写回
//
// 评分范围为空时写回 NULL，与 0 分严格区分。
func (s *MetricsService) RecomputeQualityRatingAvg(vendorID uint) error {
	return s.recompute(vendorID, func(tx *gorm.DB) (map[string]interface{}, error) {
		orders, err := s.orderRepo.WithTx(tx).ListByVendor(vendorID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"quality_rating_avg": qualityRatingAvg(orders),
		}, nil
	})
}

// RecomputeAverageResponseTime 重算平均响应时长并写回
//
// 没有任何已确认订单时不写回，保持原值。
func (s *MetricsService) RecomputeAverageResponseTime(vendorID uint) error {
	return s.recompute(vendorID, func(tx *gorm.DB) (map[string]interface{}, error) {
		orders, err := s.orderRepo.WithTx(tx).ListByVendor(vendorID)
		if err != nil {
			return nil, err
		}
		avg, ok := averageResponseSeconds(orders)
		if !ok {
			return nil, nil
		}
		return map[string]interface{}{
			"average_response_time": avg,
		}, nil
	})
}

// RecomputeFulfillmentRate 重算履约率并写回
func (s *MetricsService) RecomputeFulfillmentRate(vendorID uint) error {
	return s.recompute(vendorID, func(tx *gorm.DB) (map[string]interface{}, error) {
		orders, err := s.orderRepo.WithTx(tx).ListByVendor(vendorID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"fulfillment_rate": fulfillmentRate(orders),
		}, nil
	})
}

// RebuildAll 从订单全集重建四项指标
//
// 用于订单删除后的对账重算。准时交付率没有触发订单可作阈值，
// 取最近一个已完成订单的 delivery_date；没有已完成订单时为 0。
func (s *MetricsService) RebuildAll(vendorID uint) error {
	return s.recompute(vendorID, func(tx *gorm.DB) (map[string]interface{}, error) {
		orders, err := s.orderRepo.WithTx(tx).ListByVendor(vendorID)
		if err != nil {
			return nil, err
		}

		var completed []models.PurchaseOrder
		for _, order := range orders {
			if order.Status == constants.OrderStatusCompleted {
				completed = append(completed, order)
			}
		}
		deliveryRate := 0.0
		if len(completed) > 0 {
			threshold := completed[0].DeliveryDate
			for _, order := range completed[1:] {
				if order.DeliveryDate.After(threshold) {
					threshold = order.DeliveryDate
				}
			}
			deliveryRate = onTimeDeliveryRate(completed, threshold)
		}

		updates := map[string]interface{}{
			"on_time_delivery_rate": deliveryRate,
			"quality_rating_avg":    qualityRatingAvg(orders),
			"fulfillment_rate":      fulfillmentRate(orders),
		}
		if avg, ok := averageResponseSeconds(orders); ok {
			updates["average_response_time"] = avg
		} else {
			updates["average_response_time"] = nil
		}
		return updates, nil
	})
}

// recompute 串行化执行"读订单→计算→写回"，并失效绩效缓存。
// compute 返回 nil 更新集时表示该指标本次不写回。
func (s *MetricsService) recompute(vendorID uint, compute func(tx *gorm.DB) (map[string]interface{}, error)) error {
	mu := s.vendorLock(vendorID)
	mu.Lock()
	defer mu.Unlock()

	var wrote bool
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		updates, err := compute(tx)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := s.vendorRepo.WithTx(tx).UpdateMetrics(vendorID, updates); err != nil {
			return err
		}
		wrote = true
		return nil
	})
	if err != nil {
		return err
	}
	if wrote {
		if cacheErr := cache.InvalidateVendorPerformance(context.Background(), vendorID); cacheErr != nil {
			logger.Warnw("metrics_cache_invalidate_failed", "vendor_id", vendorID, "error", cacheErr)
		}
	}
	return nil
}
