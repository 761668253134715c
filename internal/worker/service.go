package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vendortrack/internal/config"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name             string
	server           *asynq.Server
	mux              *asynq.ServeMux
	consumer         *Consumer
	snapshotInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:             "worker",
		server:           server,
		mux:              mux,
		consumer:         consumer,
		snapshotInterval: time.Duration(cfg.Performance.SnapshotIntervalMinutes) * time.Minute,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.snapshotInterval > 0 {
		go s.runSnapshotLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runSnapshotLoop 周期性为全部供应商投递快照任务。
// 按供应商逐条投递，单条入队失败不影响其余供应商。
func (s *Service) runSnapshotLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.VendorRepo == nil {
		return
	}
	runOnce := func() {
		ids, err := s.consumer.VendorRepo.ListIDs()
		if err != nil {
			logger.Warnw("worker_snapshot_list_vendors_failed", "error", err)
			return
		}
		for _, id := range ids {
			payload := queue.PerformanceSnapshotPayload{VendorID: id}
			if err := s.consumer.QueueClient.EnqueuePerformanceSnapshot(payload); err != nil {
				logger.Warnw("worker_snapshot_enqueue_failed", "vendor_id", id, "error", err)
			}
		}
	}

	ticker := time.NewTicker(s.snapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
