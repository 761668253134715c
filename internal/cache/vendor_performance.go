package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vendortrack/internal/models"
)

// VendorPerformance 供应商绩效读缓存条目
type VendorPerformance struct {
	VendorID            uint      `json:"vendor_id"`
	VendorCode          string    `json:"vendor_code"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    *float64  `json:"quality_rating_avg"`
	AverageResponseTime *float64  `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// BuildVendorPerformance 从供应商记录构建缓存条目
func BuildVendorPerformance(vendor *models.Vendor) *VendorPerformance {
	if vendor == nil {
		return nil
	}
	return &VendorPerformance{
		VendorID:            vendor.ID,
		VendorCode:          vendor.VendorCode,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
		GeneratedAt:         time.Now(),
	}
}

// GetVendorPerformance 读取供应商绩效缓存
func GetVendorPerformance(ctx context.Context, vendorID uint) (*VendorPerformance, bool, error) {
	var entry VendorPerformance
	hit, err := GetJSON(ctx, vendorPerformanceKey(vendorID), &entry)
	if err != nil || !hit {
		return nil, false, err
	}
	return &entry, true, nil
}

// SetVendorPerformance 写入供应商绩效缓存
func SetVendorPerformance(ctx context.Context, entry *VendorPerformance, ttl time.Duration) error {
	if entry == nil {
		return nil
	}
	return SetJSON(ctx, vendorPerformanceKey(entry.VendorID), entry, ttl)
}

// InvalidateVendorPerformance 失效供应商绩效缓存
//
// 指标引擎每次写回派生字段后调用，保证下一次读取命中最新值。
func InvalidateVendorPerformance(ctx context.Context, vendorID uint) error {
	return Del(ctx, vendorPerformanceKey(vendorID))
}

func vendorPerformanceKey(vendorID uint) string {
	return fmt.Sprintf("vendor:performance:%d", vendorID)
}
