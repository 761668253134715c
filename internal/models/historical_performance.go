package models

import "time"

// HistoricalPerformance 历史绩效快照表
//
// 供应商四项指标在某一时刻的只读副本，只允许追加，引擎不会修改或删除。
type HistoricalPerformance struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                  // 主键
	VendorID            uint      `gorm:"index;not null" json:"vendor_id"`       // 供应商ID
	RecordedAt          time.Time `gorm:"index;not null" json:"recorded_at"`     // 记录时间
	OnTimeDeliveryRate  float64   `gorm:"not null" json:"on_time_delivery_rate"` // 准时交付率
	QualityRatingAvg    *float64  `json:"quality_rating_avg"`                    // 质量评分均值
	AverageResponseTime *float64  `json:"average_response_time"`                 // 平均响应时长（秒）
	FulfillmentRate     float64   `gorm:"not null" json:"fulfillment_rate"`      // 履约率

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 所属供应商
}

// TableName 指定表名
func (HistoricalPerformance) TableName() string {
	return "historical_performances"
}
