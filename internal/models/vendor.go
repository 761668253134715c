package models

import "time"

// Vendor 供应商表
//
// 四个绩效字段均为派生值，仅由指标引擎在订单事件后写入，
// 任何入站请求都不能直接设置。交付率与履约率以 0~1 的比例存储，
// 质量均分与平均响应时长在没有可计算数据前保持 NULL。
type Vendor struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                            // 主键
	Name                string    `gorm:"not null" json:"name"`                            // 名称
	ContactDetails      string    `gorm:"type:text" json:"contact_details"`                // 联系方式
	Address             string    `gorm:"type:text" json:"address"`                        // 地址
	VendorCode          string    `gorm:"uniqueIndex;not null" json:"vendor_code"`         // 供应商编码
	OnTimeDeliveryRate  float64   `gorm:"not null;default:0" json:"on_time_delivery_rate"` // 准时交付率（0~1）
	QualityRatingAvg    *float64  `json:"quality_rating_avg"`                              // 质量评分均值（0~5，无数据为 null）
	AverageResponseTime *float64  `json:"average_response_time"`                           // 平均响应时长（秒，无数据为 null）
	FulfillmentRate     float64   `gorm:"not null;default:0" json:"fulfillment_rate"`      // 履约率（0~1）
	CreatedAt           time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt           time.Time `gorm:"index" json:"updated_at"`                         // 更新时间

	Orders    []PurchaseOrder         `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`    // 采购订单
	Snapshots []HistoricalPerformance `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"snapshots,omitempty"` // 历史绩效快照
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
