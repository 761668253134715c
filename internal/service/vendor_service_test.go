package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVendorServiceTest(t *testing.T) (*VendorService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:vendor_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	return NewVendorService(repository.NewVendorRepository(db), time.Minute), db
}

func TestCreateVendorRejectsDuplicateCode(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	input := CreateVendorInput{Name: "甲供应商", VendorCode: "DUP-001"}
	if _, err := svc.CreateVendor(input); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	input.Name = "乙供应商"
	if _, err := svc.CreateVendor(input); !errors.Is(err, ErrVendorCodeTaken) {
		t.Fatalf("expected ErrVendorCodeTaken, got: %v", err)
	}

	if _, err := svc.CreateVendor(CreateVendorInput{Name: "", VendorCode: "X"}); !errors.Is(err, ErrVendorInvalid) {
		t.Fatalf("expected ErrVendorInvalid, got: %v", err)
	}
}

func TestUpdateVendorCodeConflict(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	first, err := svc.CreateVendor(CreateVendorInput{Name: "甲", VendorCode: "UPD-001"})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if _, err := svc.CreateVendor(CreateVendorInput{Name: "乙", VendorCode: "UPD-002"}); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	taken := "UPD-002"
	if _, err := svc.UpdateVendor(first.ID, UpdateVendorInput{VendorCode: &taken}); !errors.Is(err, ErrVendorCodeTaken) {
		t.Fatalf("expected ErrVendorCodeTaken, got: %v", err)
	}

	// 提交自身编码不算冲突
	same := "UPD-001"
	name := "甲(更新)"
	updated, err := svc.UpdateVendor(first.ID, UpdateVendorInput{VendorCode: &same, Name: &name})
	if err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected name updated, got: %s", updated.Name)
	}
}

func TestDeleteVendorCascadesOrders(t *testing.T) {
	svc, db := setupVendorServiceTest(t)

	vendor, err := svc.CreateVendor(CreateVendorInput{Name: "级联", VendorCode: "DEL-001"})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	order := models.PurchaseOrder{
		PONumber:     "PO-CASCADE-1",
		VendorID:     vendor.ID,
		OrderDate:    time.Now(),
		DeliveryDate: time.Now(),
		IssueDate:    time.Now(),
		Quantity:     1,
		Status:       constants.OrderStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.DeleteVendor(vendor.ID); err != nil {
		t.Fatalf("delete vendor failed: %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.PurchaseOrder{}).Where("vendor_id = ?", vendor.ID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected orders removed with vendor, got: %d", orderCount)
	}

	if _, err := svc.GetVendor(vendor.ID); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got: %v", err)
	}
}

func TestGetPerformanceFallsBackToDatabase(t *testing.T) {
	svc, db := setupVendorServiceTest(t)

	vendor, err := svc.CreateVendor(CreateVendorInput{Name: "绩效", VendorCode: "PERF-001"})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if err := db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).
		Update("fulfillment_rate", 0.75).Error; err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}

	entry, err := svc.GetPerformance(context.Background(), vendor.ID)
	if err != nil {
		t.Fatalf("get performance failed: %v", err)
	}
	if entry.VendorID != vendor.ID || entry.FulfillmentRate != 0.75 {
		t.Fatalf("unexpected performance entry: %+v", entry)
	}

	if _, err := svc.GetPerformance(context.Background(), vendor.ID+100); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got: %v", err)
	}
}
