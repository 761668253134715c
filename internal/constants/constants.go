package constants

// 采购订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// OrderStatuses 所有合法的订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// 异步任务名称常量
const (
	TaskPerformanceSnapshot  = "performance:snapshot"
	TaskVendorMetricsRebuild = "vendor:metrics:rebuild"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 质量评分取值范围
const (
	QualityRatingMin = 0.0
	QualityRatingMax = 5.0
)
