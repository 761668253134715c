package models

import "time"

// PurchaseOrder 采购订单表
//
// 状态流转不做状态机约束，任意状态之间都可以切换；
// acknowledgment_date 只允许被确认操作写入一次。
type PurchaseOrder struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                  // 主键
	PONumber           string     `gorm:"uniqueIndex;not null" json:"po_number"` // 订单编号
	VendorID           uint       `gorm:"index;not null" json:"vendor_id"`       // 供应商ID
	OrderDate          time.Time  `gorm:"not null" json:"order_date"`            // 下单时间
	DeliveryDate       time.Time  `gorm:"not null" json:"delivery_date"`         // 交付时间
	IssueDate          time.Time  `gorm:"not null" json:"issue_date"`            // 签发时间
	AcknowledgmentDate *time.Time `gorm:"index" json:"acknowledgment_date"`      // 确认时间
	Items              JSON       `gorm:"type:json" json:"items"`                // 订单明细
	Quantity           int        `gorm:"not null" json:"quantity"`              // 数量
	Status             string     `gorm:"index;not null" json:"status"`          // 状态（pending/completed/canceled）
	QualityRating      *float64   `json:"quality_rating"`                        // 质量评分（仅 completed 订单有意义）
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt          time.Time  `gorm:"index" json:"updated_at"`               // 更新时间

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 所属供应商
}

// TableName 指定表名
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// IsCompleted 判断订单是否已完成
func (o *PurchaseOrder) IsCompleted() bool {
	return o != nil && o.Status == "completed"
}

// IsAcknowledged 判断订单是否已确认
func (o *PurchaseOrder) IsAcknowledged() bool {
	return o != nil && o.AcknowledgmentDate != nil
}
