package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/provider"
	"github.com/vendortrack/internal/queue"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.PurchaseOrder{},
		&models.HistoricalPerformance{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	vendorRepo := repository.NewVendorRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	container := &provider.Container{
		VendorRepo:         vendorRepo,
		OrderRepo:          orderRepo,
		PerformanceRepo:    repository.NewPerformanceRepository(db),
		MetricsService:     service.NewMetricsService(orderRepo, vendorRepo),
		PerformanceService: service.NewPerformanceService(vendorRepo, repository.NewPerformanceRepository(db)),
	}
	return NewConsumer(container), db
}

func snapshotTask(t *testing.T, vendorID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewPerformanceSnapshotTask(queue.PerformanceSnapshotPayload{VendorID: vendorID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandlePerformanceSnapshot(t *testing.T) {
	consumer, db := setupWorkerTest(t)

	vendor := models.Vendor{Name: "快照供应商", VendorCode: "WRK-001"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	if err := consumer.handlePerformanceSnapshot(context.Background(), snapshotTask(t, vendor.ID)); err != nil {
		t.Fatalf("handle snapshot failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", vendor.ID).Count(&count).Error; err != nil {
		t.Fatalf("count snapshots failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 snapshot, got: %d", count)
	}
}

func TestHandlePerformanceSnapshotSkipsUnknownVendor(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	// 供应商不存在视为过期任务，不应重试
	if err := consumer.handlePerformanceSnapshot(context.Background(), snapshotTask(t, 999)); err != nil {
		t.Fatalf("expected nil for missing vendor, got: %v", err)
	}
}

func TestHandlePerformanceSnapshotInvalidPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task := asynq.NewTask(queue.TaskPerformanceSnapshot, []byte("not-json"))
	if err := consumer.handlePerformanceSnapshot(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}

	if err := consumer.handlePerformanceSnapshot(context.Background(), snapshotTask(t, 0)); err != nil {
		t.Fatalf("expected nil for zero vendor id, got: %v", err)
	}
}

func TestHandleVendorMetricsRebuild(t *testing.T) {
	consumer, db := setupWorkerTest(t)

	vendor := models.Vendor{Name: "重建供应商", VendorCode: "WRK-002"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	order := models.PurchaseOrder{
		PONumber:     "PO-WRK-1",
		VendorID:     vendor.ID,
		OrderDate:    time.Now(),
		DeliveryDate: time.Now(),
		IssueDate:    time.Now(),
		Quantity:     5,
		Status:       constants.OrderStatusCompleted,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	payload, err := json.Marshal(queue.VendorMetricsRebuildPayload{VendorID: vendor.ID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskVendorMetricsRebuild, payload)
	if err := consumer.handleVendorMetricsRebuild(context.Background(), task); err != nil {
		t.Fatalf("handle rebuild failed: %v", err)
	}

	var got models.Vendor
	if err := db.First(&got, vendor.ID).Error; err != nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	if got.FulfillmentRate != 1 {
		t.Fatalf("expected fulfillment_rate=1 after rebuild, got: %v", got.FulfillmentRate)
	}
}
