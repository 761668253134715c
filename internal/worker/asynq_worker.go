package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/provider"
	"github.com/vendortrack/internal/queue"
	"github.com/vendortrack/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPerformanceSnapshot, c.handlePerformanceSnapshot)
	mux.HandleFunc(queue.TaskVendorMetricsRebuild, c.handleVendorMetricsRebuild)
}

func (c *Consumer) handlePerformanceSnapshot(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_performance_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PerformanceSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_performance_snapshot_unmarshal_failed", "error", err)
		return err
	}
	if payload.VendorID == 0 {
		logger.Debugw("worker_performance_snapshot_skip_invalid_payload", "vendor_id", payload.VendorID)
		return nil
	}
	if c.PerformanceService == nil {
		logger.Warnw("worker_performance_snapshot_skip_service_nil", "vendor_id", payload.VendorID)
		return nil
	}
	_, err := c.PerformanceService.Capture(payload.VendorID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			logger.Debugw("worker_performance_snapshot_skip_vendor_not_found", "vendor_id", payload.VendorID)
			return nil
		}
		logger.Warnw("worker_performance_snapshot_failed", "vendor_id", payload.VendorID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleVendorMetricsRebuild(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_vendor_metrics_rebuild_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VendorMetricsRebuildPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_vendor_metrics_rebuild_unmarshal_failed", "error", err)
		return err
	}
	if payload.VendorID == 0 {
		logger.Debugw("worker_vendor_metrics_rebuild_skip_invalid_payload", "vendor_id", payload.VendorID)
		return nil
	}
	if c.MetricsService == nil {
		logger.Warnw("worker_vendor_metrics_rebuild_skip_service_nil", "vendor_id", payload.VendorID)
		return nil
	}
	if err := c.MetricsService.RebuildAll(payload.VendorID); err != nil {
		logger.Warnw("worker_vendor_metrics_rebuild_failed", "vendor_id", payload.VendorID, "error", err)
		return err
	}
	return nil
}
