package service

import (
	"strings"
	"time"

	"github.com/vendortrack/internal/constants"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/queue"
	"github.com/vendortrack/internal/repository"

	"github.com/google/uuid"
)

// OrderService 采购订单生命周期调度
//
// 订单的创建、更新、确认与删除都经由这里落库，落库成功后按固定顺序
// 检查各指标的触发条件并调用指标引擎重算。任何边界错误都在落库前
// 返回，不会触发重算。
type OrderService struct {
	orderRepo   repository.PurchaseOrderRepository
	vendorRepo  repository.VendorRepository
	metrics     *MetricsService
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.PurchaseOrderRepository, vendorRepo repository.VendorRepository, metrics *MetricsService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		vendorRepo:  vendorRepo,
		metrics:     metrics,
		queueClient: queueClient,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	PONumber      string
	VendorID      uint
	OrderDate     time.Time
	DeliveryDate  time.Time
	IssueDate     time.Time
	Items         models.JSON
	Quantity      int
	Status        string
	QualityRating *float64
}

// UpdateOrderInput 更新订单输入（nil 字段表示不修改）
type UpdateOrderInput struct {
	PONumber      *string
	OrderDate     *time.Time
	DeliveryDate  *time.Time
	IssueDate     *time.Time
	Items         models.JSON
	Quantity      *int
	Status        *string
	QualityRating *float64
}

// CreateOrder 创建采购订单
//
// 创建视为 oldStatus 为空的保存事件：创建即 completed 的订单会触发
// 交付率、质量、响应时长的重算，但不会触发履约率（履约率只在已有
// 订单的状态发生变化时重算）。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.PurchaseOrder, error) {
	if input.VendorID == 0 || input.Quantity <= 0 {
		return nil, ErrOrderInvalid
	}
	if input.OrderDate.IsZero() || input.DeliveryDate.IsZero() || input.IssueDate.IsZero() {
		return nil, ErrOrderInvalid
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.OrderStatusPending
	}
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrOrderInvalid
	}
	if !validQualityRating(input.QualityRating) {
		return nil, ErrOrderInvalid
	}

	vendor, err := s.vendorRepo.GetByID(input.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	poNumber := strings.TrimSpace(input.PONumber)
	if poNumber == "" {
		poNumber = generatePONumber()
	} else {
		existing, err := s.orderRepo.GetByPONumber(poNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrPONumberTaken
		}
	}

	order := &models.PurchaseOrder{
		PONumber:      poNumber,
		VendorID:      input.VendorID,
		OrderDate:     input.OrderDate,
		DeliveryDate:  input.DeliveryDate,
		IssueDate:     input.IssueDate,
		Items:         input.Items,
		Quantity:      input.Quantity,
		Status:        status,
		QualityRating: input.QualityRating,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	logger.Infow("purchase_order_created",
		"order_id", order.ID,
		"po_number", order.PONumber,
		"vendor_id", order.VendorID,
		"status", order.Status,
	)

	if err := s.dispatchMetrics("", order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder 获取采购订单
func (s *OrderService) GetOrder(id uint) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 采购订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.PurchaseOrder, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateOrder 更新采购订单
//
// 先捕获旧状态再落库；落库成功后按触发表重算指标。
func (s *OrderService) UpdateOrder(id uint, input UpdateOrderInput) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	oldStatus := order.Status

	if input.PONumber != nil {
		poNumber := strings.TrimSpace(*input.PONumber)
		if poNumber == "" {
			return nil, ErrOrderInvalid
		}
		if poNumber != order.PONumber {
			existing, err := s.orderRepo.GetByPONumber(poNumber)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrPONumberTaken
			}
			order.PONumber = poNumber
		}
	}
	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = *input.DeliveryDate
	}
	if input.IssueDate != nil {
		order.IssueDate = *input.IssueDate
	}
	if input.Items != nil {
		order.Items = input.Items
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, ErrOrderInvalid
		}
		order.Quantity = *input.Quantity
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !constants.IsValidOrderStatus(status) {
			return nil, ErrOrderInvalid
		}
		order.Status = status
	}
	if input.QualityRating != nil {
		if !validQualityRating(input.QualityRating) {
			return nil, ErrOrderInvalid
		}
		order.QualityRating = input.QualityRating
	}

	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	logger.Infow("purchase_order_updated",
		"order_id", order.ID,
		"po_number", order.PONumber,
		"vendor_id", order.VendorID,
		"old_status", oldStatus,
		"status", order.Status,
	)

	if err := s.dispatchMetrics(oldStatus, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AcknowledgeOrder 确认采购订单
//
// acknowledgment_date 只允许写入一次；重复确认直接拒绝，
// 不落库也不触发任何指标重算。
func (s *OrderService) AcknowledgeOrder(id uint, now time.Time) (*models.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.AcknowledgmentDate != nil {
		return nil, ErrOrderAlreadyAcknowledged
	}

	ackAt := now
	order.AcknowledgmentDate = &ackAt
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	logger.Infow("purchase_order_acknowledged",
		"order_id", order.ID,
		"po_number", order.PONumber,
		"vendor_id", order.VendorID,
	)

	if err := s.metrics.RecomputeAverageResponseTime(order.VendorID); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder 删除采购订单并重建供应商指标
//
// 派生指标不能继续统计已删除的订单；删除后通过队列触发全量重建，
// 队列不可用时退化为同步重建。
func (s *OrderService) DeleteOrder(id uint) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.Delete(id); err != nil {
		return err
	}
	logger.Infow("purchase_order_deleted",
		"order_id", order.ID,
		"po_number", order.PONumber,
		"vendor_id", order.VendorID,
	)

	if s.queueClient.Enabled() {
		payload := queue.VendorMetricsRebuildPayload{VendorID: order.VendorID}
		if err := s.queueClient.EnqueueVendorMetricsRebuild(payload); err == nil {
			return nil
		}
		logger.Warnw("order_delete_rebuild_enqueue_failed", "vendor_id", order.VendorID)
	}
	return s.metrics.RebuildAll(order.VendorID)
}

// dispatchMetrics 按固定顺序检查并执行指标重算。
// 各指标互不依赖，顺序仅为可预期性而固定。
func (s *OrderService) dispatchMetrics(oldStatus string, order *models.PurchaseOrder) error {
	if oldStatus != "" && oldStatus != order.Status {
		if err := s.metrics.RecomputeFulfillmentRate(order.VendorID); err != nil {
			return err
		}
	}
	if order.Status == constants.OrderStatusCompleted {
		if err := s.metrics.RecomputeOnTimeDeliveryRate(order.VendorID, order.DeliveryDate); err != nil {
			return err
		}
		if order.QualityRating != nil {
			if err := s.metrics.RecomputeQualityRatingAvg(order.VendorID); err != nil {
				return err
			}
		}
	}
	if order.AcknowledgmentDate != nil {
		if err := s.metrics.RecomputeAverageResponseTime(order.VendorID); err != nil {
			return err
		}
	}
	return nil
}

func validQualityRating(rating *float64) bool {
	if rating == nil {
		return true
	}
	return *rating >= constants.QualityRatingMin && *rating <= constants.QualityRatingMax
}

func generatePONumber() string {
	return "PO-" + strings.ToUpper(uuid.NewString()[:8])
}
