package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepoTest(t *testing.T) (*GormPurchaseOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPurchaseOrderRepository(db), db
}

func createRepoOrder(t *testing.T, repo *GormPurchaseOrderRepository, vendorID uint, po, status string) {
	t.Helper()
	now := time.Now()
	order := models.PurchaseOrder{
		PONumber:     po,
		VendorID:     vendorID,
		OrderDate:    now,
		DeliveryDate: now,
		IssueDate:    now,
		Quantity:     1,
		Status:       status,
	}
	if err := repo.Create(&order); err != nil {
		t.Fatalf("create order %s failed: %v", po, err)
	}
}

func TestOrderListFilters(t *testing.T) {
	repo, db := setupOrderRepoTest(t)

	vendorA := models.Vendor{Name: "A", VendorCode: "REPO-A"}
	vendorB := models.Vendor{Name: "B", VendorCode: "REPO-B"}
	if err := db.Create(&vendorA).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if err := db.Create(&vendorB).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	createRepoOrder(t, repo, vendorA.ID, "PO-R-1", constants.OrderStatusPending)
	createRepoOrder(t, repo, vendorA.ID, "PO-R-2", constants.OrderStatusCompleted)
	createRepoOrder(t, repo, vendorB.ID, "PO-R-3", constants.OrderStatusCompleted)

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, VendorID: vendorA.ID})
	if err != nil {
		t.Fatalf("list by vendor failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 vendor A orders, got total=%d len=%d", total, len(orders))
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, Status: constants.OrderStatusCompleted})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 completed orders, got: %d", total)
	}
	// 默认按 ID 倒序
	if orders[0].PONumber != "PO-R-3" {
		t.Fatalf("expected newest order first, got: %s", orders[0].PONumber)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, PONumber: "PO-R-1"})
	if err != nil {
		t.Fatalf("list by po number failed: %v", err)
	}
	if total != 1 || orders[0].PONumber != "PO-R-1" {
		t.Fatalf("expected single PO-R-1 match, got total=%d", total)
	}

	future := time.Now().Add(time.Hour)
	_, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, CreatedFrom: &future})
	if err != nil {
		t.Fatalf("list by created_from failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no orders created in the future, got: %d", total)
	}
}

func TestGetByPONumberMissingReturnsNil(t *testing.T) {
	repo, _ := setupOrderRepoTest(t)

	order, err := repo.GetByPONumber("PO-MISSING")
	if err != nil {
		t.Fatalf("get by po number failed: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for missing order, got: %+v", order)
	}
}
