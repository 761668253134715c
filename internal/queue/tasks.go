package queue

import (
	"encoding/json"

	"github.com/vendortrack/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPerformanceSnapshot 绩效快照任务
	TaskPerformanceSnapshot = constants.TaskPerformanceSnapshot
	// TaskVendorMetricsRebuild 指标重建任务
	TaskVendorMetricsRebuild = constants.TaskVendorMetricsRebuild
)

// PerformanceSnapshotPayload 绩效快照任务载荷
type PerformanceSnapshotPayload struct {
	VendorID uint `json:"vendor_id"`
}

// VendorMetricsRebuildPayload 指标重建任务载荷
type VendorMetricsRebuildPayload struct {
	VendorID uint `json:"vendor_id"`
}

// NewPerformanceSnapshotTask 创建绩效快照任务
func NewPerformanceSnapshotTask(payload PerformanceSnapshotPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPerformanceSnapshot, body), nil
}

// NewVendorMetricsRebuildTask 创建指标重建任务
func NewVendorMetricsRebuildTask(payload VendorMetricsRebuildPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVendorMetricsRebuild, body), nil
}
