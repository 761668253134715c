package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupMetricsServiceTest(t *testing.T) (*MetricsService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:metrics_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	svc := NewMetricsService(repository.NewPurchaseOrderRepository(db), repository.NewVendorRepository(db))
	return svc, db
}

func seedVendor(t *testing.T, db *gorm.DB, code string) *models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		Name:       "测试供应商 " + code,
		VendorCode: code,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return &vendor
}

func seedOrder(t *testing.T, db *gorm.DB, order models.PurchaseOrder) *models.PurchaseOrder {
	t.Helper()
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().AddDate(0, 0, -10)
	}
	if order.IssueDate.IsZero() {
		order.IssueDate = order.OrderDate
	}
	if order.Quantity == 0 {
		order.Quantity = 10
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func reloadVendor(t *testing.T, db *gorm.DB, id uint) *models.Vendor {
	t.Helper()
	var vendor models.Vendor
	if err := db.First(&vendor, id).Error; err != nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	return &vendor
}

func ratingPtr(v float64) *float64 { return &v }

func TestRebuildAllZeroOrderVendor(t *testing.T) {
	svc, db := setupMetricsServiceTest(t)
	vendor := seedVendor(t, db, "ZERO-001")

	if err := svc.RebuildAll(vendor.ID); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	got := reloadVendor(t, db, vendor.ID)
	if got.OnTimeDeliveryRate != 0 || math.IsNaN(got.OnTimeDeliveryRate) {
		t.Fatalf("expected on_time_delivery_rate=0, got: %v", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 0 || math.IsNaN(got.FulfillmentRate) {
		t.Fatalf("expected fulfillment_rate=0, got: %v", got.FulfillmentRate)
	}
	if got.QualityRatingAvg != nil {
		t.Fatalf("expected quality_rating_avg=nil, got: %v", *got.QualityRatingAvg)
	}
	if got.AverageResponseTime != nil {
		t.Fatalf("expected average_response_time=nil, got: %v", *got.AverageResponseTime)
	}
}

func TestOnTimeDeliveryRateCountsThresholdAsOnTime(t *testing.T) {
	threshold := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := []models.PurchaseOrder{
		{DeliveryDate: threshold, Status: constants.OrderStatusCompleted},
		{DeliveryDate: threshold.Add(-time.Hour), Status: constants.OrderStatusCompleted},
		{DeliveryDate: threshold.Add(time.Hour), Status: constants.OrderStatusCompleted},
	}
	rate := onTimeDeliveryRate(completed, threshold)
	want := 2.0 / 3.0
	if math.Abs(rate-want) > 1e-9 {
		t.Fatalf("expected rate=%v, got: %v", want, rate)
	}

	if rate := onTimeDeliveryRate(nil, threshold); rate != 0 {
		t.Fatalf("expected empty rate=0, got: %v", rate)
	}
}

func TestQualityRatingAvgIgnoresUnratedAndNonCompleted(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: constants.OrderStatusCompleted, QualityRating: ratingPtr(4)},
		{Status: constants.OrderStatusCompleted, QualityRating: ratingPtr(5)},
		{Status: constants.OrderStatusCompleted},
		{Status: constants.OrderStatusPending, QualityRating: ratingPtr(1)},
		{Status: constants.OrderStatusCanceled, QualityRating: ratingPtr(1)},
	}
	avg := qualityRatingAvg(orders)
	if avg == nil {
		t.Fatalf("expected non-nil avg")
	}
	if math.Abs(*avg-4.5) > 1e-9 {
		t.Fatalf("expected avg=4.5, got: %v", *avg)
	}

	if avg := qualityRatingAvg(nil); avg != nil {
		t.Fatalf("expected nil avg for empty input, got: %v", *avg)
	}
}

func TestQualityRatingAvgZeroRatingIsNotNull(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: constants.OrderStatusCompleted, QualityRating: ratingPtr(0)},
	}
	avg := qualityRatingAvg(orders)
	if avg == nil {
		t.Fatalf("expected avg=0, got nil")
	}
	if *avg != 0 {
		t.Fatalf("expected avg=0, got: %v", *avg)
	}
}

func TestAverageResponseSecondsSpansAllAcknowledged(t *testing.T) {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ack1 := issue.Add(2 * time.Hour)
	ack2 := issue.Add(4 * time.Hour)
	orders := []models.PurchaseOrder{
		{IssueDate: issue, AcknowledgmentDate: &ack1, Status: constants.OrderStatusCompleted},
		{IssueDate: issue, AcknowledgmentDate: &ack2, Status: constants.OrderStatusCanceled},
		{IssueDate: issue, Status: constants.OrderStatusPending},
	}
	avg, ok := averageResponseSeconds(orders)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	want := (3 * time.Hour).Seconds()
	if math.Abs(avg-want) > 1e-9 {
		t.Fatalf("expected avg=%v, got: %v", want, avg)
	}

	if _, ok := averageResponseSeconds(nil); ok {
		t.Fatalf("expected ok=false for empty input")
	}
}

func TestFulfillmentRateUsesAllStatuses(t *testing.T) {
	orders := []models.PurchaseOrder{
		{Status: constants.OrderStatusCompleted},
		{Status: constants.OrderStatusCompleted},
		{Status: constants.OrderStatusPending},
		{Status: constants.OrderStatusCanceled},
	}
	rate := fulfillmentRate(orders)
	if math.Abs(rate-0.5) > 1e-9 {
		t.Fatalf("expected rate=0.5, got: %v", rate)
	}
	if rate := fulfillmentRate(nil); rate != 0 {
		t.Fatalf("expected empty rate=0, got: %v", rate)
	}
}

func TestRecomputeAverageResponseTimeSkipsWriteWithoutAck(t *testing.T) {
	svc, db := setupMetricsServiceTest(t)
	vendor := seedVendor(t, db, "ACK-001")
	seedOrder(t, db, models.PurchaseOrder{
		PONumber:     "PO-ACK-1",
		VendorID:     vendor.ID,
		DeliveryDate: time.Now(),
		Status:       constants.OrderStatusPending,
	})

	if err := svc.RecomputeAverageResponseTime(vendor.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	got := reloadVendor(t, db, vendor.ID)
	if got.AverageResponseTime != nil {
		t.Fatalf("expected average_response_time to stay nil, got: %v", *got.AverageResponseTime)
	}
}

func TestRebuildAllFullScenario(t *testing.T) {
	svc, db := setupMetricsServiceTest(t)
	vendor := seedVendor(t, db, "FULL-001")

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	ack := base.Add(6 * time.Hour)
	seedOrder(t, db, models.PurchaseOrder{
		PONumber:           "PO-FULL-1",
		VendorID:           vendor.ID,
		IssueDate:          base,
		DeliveryDate:       base.AddDate(0, 0, 5),
		Status:             constants.OrderStatusCompleted,
		QualityRating:      ratingPtr(4),
		AcknowledgmentDate: &ack,
	})
	seedOrder(t, db, models.PurchaseOrder{
		PONumber:      "PO-FULL-2",
		VendorID:      vendor.ID,
		IssueDate:     base,
		DeliveryDate:  base.AddDate(0, 0, 10),
		Status:        constants.OrderStatusCompleted,
		QualityRating: ratingPtr(5),
	})
	seedOrder(t, db, models.PurchaseOrder{
		PONumber:     "PO-FULL-3",
		VendorID:     vendor.ID,
		IssueDate:    base,
		DeliveryDate: base.AddDate(0, 0, 15),
		Status:       constants.OrderStatusPending,
	})

	if err := svc.RebuildAll(vendor.ID); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	got := reloadVendor(t, db, vendor.ID)
	// 阈值取最近完成订单的交付时间，两个已完成订单都不晚于它
	if math.Abs(got.OnTimeDeliveryRate-1.0) > 1e-9 {
		t.Fatalf("expected on_time_delivery_rate=1.0, got: %v", got.OnTimeDeliveryRate)
	}
	if got.QualityRatingAvg == nil || math.Abs(*got.QualityRatingAvg-4.5) > 1e-9 {
		t.Fatalf("expected quality_rating_avg=4.5, got: %+v", got.QualityRatingAvg)
	}
	if math.Abs(got.FulfillmentRate-2.0/3.0) > 1e-9 {
		t.Fatalf("expected fulfillment_rate=2/3, got: %v", got.FulfillmentRate)
	}
	if got.AverageResponseTime == nil || math.Abs(*got.AverageResponseTime-(6*time.Hour).Seconds()) > 1e-9 {
		t.Fatalf("expected average_response_time=21600s, got: %+v", got.AverageResponseTime)
	}
}

func TestRecomputeIsolatedPerVendor(t *testing.T) {
	svc, db := setupMetricsServiceTest(t)
	vendorA := seedVendor(t, db, "ISO-A")
	vendorB := seedVendor(t, db, "ISO-B")

	seedOrder(t, db, models.PurchaseOrder{
		PONumber:     "PO-ISO-A1",
		VendorID:     vendorA.ID,
		DeliveryDate: time.Now(),
		Status:       constants.OrderStatusCompleted,
	})

	if err := svc.RecomputeFulfillmentRate(vendorA.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	gotA := reloadVendor(t, db, vendorA.ID)
	gotB := reloadVendor(t, db, vendorB.ID)
	if gotA.FulfillmentRate != 1 {
		t.Fatalf("expected vendor A fulfillment_rate=1, got: %v", gotA.FulfillmentRate)
	}
	if gotB.FulfillmentRate != 0 {
		t.Fatalf("expected vendor B untouched, got: %v", gotB.FulfillmentRate)
	}
}
