package main

import (
	"time"

	"github.com/vendortrack/internal/config"
	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()

	// 添加供应商
	vendors := []models.Vendor{
		{
			Name:           "华东精密制造",
			ContactDetails: "sales@huadong-precision.example.com",
			Address:        "上海市嘉定区工业大道 88 号",
			VendorCode:     "HD-001",
		},
		{
			Name:           "北方金属材料",
			ContactDetails: "contact@north-metal.example.com",
			Address:        "天津市滨海新区临港路 12 号",
			VendorCode:     "BF-002",
		},
		{
			Name:           "南洋电子元件",
			ContactDetails: "info@nanyang-elec.example.com",
			Address:        "深圳市宝安区科创园 3 栋",
			VendorCode:     "NY-003",
		},
	}
	for i := range vendors {
		if err := models.DB.Where("vendor_code = ?", vendors[i].VendorCode).
			FirstOrCreate(&vendors[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed vendor %s: %v", vendors[i].VendorCode, err)
		}
	}

	rating := func(v float64) *float64 { return &v }
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	// 添加采购订单（覆盖完成/取消/待处理与已确认等状态）
	orders := []models.PurchaseOrder{
		{
			PONumber:           "PO-SEED-0001",
			VendorID:           vendors[0].ID,
			OrderDate:          now.AddDate(0, 0, -30),
			DeliveryDate:       now.AddDate(0, 0, -20),
			IssueDate:          now.AddDate(0, 0, -30),
			Items:              models.JSON(`[{"item":"轴承","spec":"6204-2RS"}]`),
			Quantity:           500,
			Status:             constants.OrderStatusCompleted,
			QualityRating:      rating(4.5),
			AcknowledgmentDate: at(-29 * 24 * time.Hour),
		},
		{
			PONumber:           "PO-SEED-0002",
			VendorID:           vendors[0].ID,
			OrderDate:          now.AddDate(0, 0, -14),
			DeliveryDate:       now.AddDate(0, 0, -5),
			IssueDate:          now.AddDate(0, 0, -14),
			Items:              models.JSON(`[{"item":"齿轮","spec":"M2-40T"}]`),
			Quantity:           200,
			Status:             constants.OrderStatusCompleted,
			QualityRating:      rating(3.5),
			AcknowledgmentDate: at(-13 * 24 * time.Hour),
		},
		{
			PONumber:     "PO-SEED-0003",
			VendorID:     vendors[0].ID,
			OrderDate:    now.AddDate(0, 0, -7),
			DeliveryDate: now.AddDate(0, 0, 3),
			IssueDate:    now.AddDate(0, 0, -7),
			Items:        models.JSON(`[{"item":"联轴器"}]`),
			Quantity:     80,
			Status:       constants.OrderStatusPending,
		},
		{
			PONumber:     "PO-SEED-0004",
			VendorID:     vendors[1].ID,
			OrderDate:    now.AddDate(0, 0, -10),
			DeliveryDate: now.AddDate(0, 0, -2),
			IssueDate:    now.AddDate(0, 0, -10),
			Items:        models.JSON(`[{"item":"铝板","spec":"6061-T6"}]`),
			Quantity:     1000,
			Status:       constants.OrderStatusCanceled,
		},
		{
			PONumber:           "PO-SEED-0005",
			VendorID:           vendors[1].ID,
			OrderDate:          now.AddDate(0, 0, -6),
			DeliveryDate:       now.AddDate(0, 0, -1),
			IssueDate:          now.AddDate(0, 0, -6),
			Items:              models.JSON(`[{"item":"铜棒"}]`),
			Quantity:           300,
			Status:             constants.OrderStatusCompleted,
			QualityRating:      rating(5),
			AcknowledgmentDate: at(-5 * 24 * time.Hour),
		},
	}
	for i := range orders {
		if err := models.DB.Where("po_number = ?", orders[i].PONumber).
			FirstOrCreate(&orders[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed order %s: %v", orders[i].PONumber, err)
		}
	}

	// 重建各供应商指标，保证演示数据与派生字段一致
	orderRepo := repository.NewPurchaseOrderRepository(models.DB)
	vendorRepo := repository.NewVendorRepository(models.DB)
	metrics := service.NewMetricsService(orderRepo, vendorRepo)
	for _, vendor := range vendors {
		if err := metrics.RebuildAll(vendor.ID); err != nil {
			stdLog.Fatalf("Failed to rebuild metrics for vendor %d: %v", vendor.ID, err)
		}
	}

	stdLog.Printf("Seed finished: %d vendors, %d purchase orders", len(vendors), len(orders))
}
