package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/vendortrack/internal/http/response"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建采购订单请求
type CreateOrderRequest struct {
	PONumber      string      `json:"po_number"`
	VendorID      uint        `json:"vendor_id" binding:"required"`
	OrderDate     time.Time   `json:"order_date" binding:"required"`
	DeliveryDate  time.Time   `json:"delivery_date" binding:"required"`
	IssueDate     time.Time   `json:"issue_date" binding:"required"`
	Items         models.JSON `json:"items"`
	Quantity      int         `json:"quantity" binding:"required"`
	Status        string      `json:"status"`
	QualityRating *float64    `json:"quality_rating"`
}

// UpdateOrderRequest 更新采购订单请求
type UpdateOrderRequest struct {
	PONumber      *string     `json:"po_number"`
	OrderDate     *time.Time  `json:"order_date"`
	DeliveryDate  *time.Time  `json:"delivery_date"`
	IssueDate     *time.Time  `json:"issue_date"`
	Items         models.JSON `json:"items"`
	Quantity      *int        `json:"quantity"`
	Status        *string     `json:"status"`
	QualityRating *float64    `json:"quality_rating"`
}

// ListOrders 采购订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		PONumber: c.Query("po_number"),
	}
	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "无效的供应商 ID", nil)
			return
		}
		filter.VendorID = uint(vendorID)
	}
	if raw := c.Query("created_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "无效的开始时间", nil)
			return
		}
		filter.CreatedFrom = &t
	}
	if raw := c.Query("created_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "无效的结束时间", nil)
			return
		}
		filter.CreatedTo = &t
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// CreateOrder 创建采购订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		PONumber:      req.PONumber,
		VendorID:      req.VendorID,
		OrderDate:     req.OrderDate,
		DeliveryDate:  req.DeliveryDate,
		IssueDate:     req.IssueDate,
		Items:         req.Items,
		Quantity:      req.Quantity,
		Status:        req.Status,
		QualityRating: req.QualityRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
		case errors.Is(err, service.ErrOrderInvalid):
			respondError(c, response.CodeBadRequest, "订单信息不合法", nil)
		case errors.Is(err, service.ErrPONumberTaken):
			respondError(c, response.CodeConflict, "订单编号已存在", nil)
		default:
			respondError(c, response.CodeInternal, "创建订单失败", err)
		}
		return
	}

	response.Success(c, order)
}

// GetOrder 获取采购订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}

	response.Success(c, order)
}

// UpdateOrder 更新采购订单
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.UpdateOrder(id, service.UpdateOrderInput{
		PONumber:      req.PONumber,
		OrderDate:     req.OrderDate,
		DeliveryDate:  req.DeliveryDate,
		IssueDate:     req.IssueDate,
		Items:         req.Items,
		Quantity:      req.Quantity,
		Status:        req.Status,
		QualityRating: req.QualityRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderInvalid):
			respondError(c, response.CodeBadRequest, "订单信息不合法", nil)
		case errors.Is(err, service.ErrPONumberTaken):
			respondError(c, response.CodeConflict, "订单编号已存在", nil)
		default:
			respondError(c, response.CodeInternal, "更新订单失败", err)
		}
		return
	}

	response.Success(c, order)
}

// DeleteOrder 删除采购订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.OrderService.DeleteOrder(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除订单失败", err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// AcknowledgeOrder 确认采购订单
func (h *Handler) AcknowledgeOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.AcknowledgeOrder(id, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderAlreadyAcknowledged):
			respondError(c, response.CodeConflict, "订单已确认，不能重复确认", nil)
		default:
			respondError(c, response.CodeInternal, "确认订单失败", err)
		}
		return
	}

	response.Success(c, order)
}
