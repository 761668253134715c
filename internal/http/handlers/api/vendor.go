package api

import (
	"errors"
	"strconv"

	"github.com/vendortrack/internal/http/response"
	"github.com/vendortrack/internal/queue"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "无效的 ID", nil)
		return 0, false
	}
	return uint(id), true
}

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name           string `json:"name" binding:"required"`
	ContactDetails string `json:"contact_details"`
	Address        string `json:"address"`
	VendorCode     string `json:"vendor_code" binding:"required"`
}

// UpdateVendorRequest 更新供应商请求
type UpdateVendorRequest struct {
	Name           *string `json:"name"`
	ContactDetails *string `json:"contact_details"`
	Address        *string `json:"address"`
	VendorCode     *string `json:"vendor_code"`
}

// ListVendors 供应商列表
func (h *Handler) ListVendors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.VendorListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		VendorCode: c.Query("vendor_code"),
	}
	vendors, total, err := h.VendorService.ListVendors(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取供应商列表失败", err)
		return
	}

	response.SuccessWithPage(c, vendors, buildPagination(page, pageSize, total))
}

// CreateVendor 创建供应商
func (h *Handler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	vendor, err := h.VendorService.CreateVendor(service.CreateVendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorInvalid):
			respondError(c, response.CodeBadRequest, "供应商信息不完整", nil)
		case errors.Is(err, service.ErrVendorCodeTaken):
			respondError(c, response.CodeConflict, "供应商编码已存在", nil)
		default:
			respondError(c, response.CodeInternal, "创建供应商失败", err)
		}
		return
	}

	response.Success(c, vendor)
}

// GetVendor 获取供应商详情
func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.VendorService.GetVendor(id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取供应商失败", err)
		return
	}

	response.Success(c, vendor)
}

// UpdateVendor 更新供应商
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	vendor, err := h.VendorService.UpdateVendor(id, service.UpdateVendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
		case errors.Is(err, service.ErrVendorInvalid):
			respondError(c, response.CodeBadRequest, "供应商信息不完整", nil)
		case errors.Is(err, service.ErrVendorCodeTaken):
			respondError(c, response.CodeConflict, "供应商编码已存在", nil)
		default:
			respondError(c, response.CodeInternal, "更新供应商失败", err)
		}
		return
	}

	response.Success(c, vendor)
}

// DeleteVendor 删除供应商
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.VendorService.DeleteVendor(id); err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除供应商失败", err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// GetVendorPerformance 获取供应商当前绩效
func (h *Handler) GetVendorPerformance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.VendorService.GetPerformance(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取绩效失败", err)
		return
	}

	response.Success(c, entry)
}

// RebuildVendorMetrics 从订单全集重建供应商指标。
// 队列可用时异步执行，否则退化为同步重建。
func (h *Handler) RebuildVendorMetrics(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.VendorService.GetVendor(id); err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取供应商失败", err)
		return
	}

	if h.QueueClient.Enabled() {
		payload := queue.VendorMetricsRebuildPayload{VendorID: id}
		if err := h.QueueClient.EnqueueVendorMetricsRebuild(payload); err == nil {
			response.SuccessWithMsg(c, "重建任务已提交", gin.H{"vendor_id": id})
			return
		}
		requestLog(c).Warnw("metrics_rebuild_enqueue_failed", "vendor_id", id)
	}

	if err := h.MetricsService.RebuildAll(id); err != nil {
		respondError(c, response.CodeInternal, "重建指标失败", err)
		return
	}

	vendor, err := h.VendorService.GetVendor(id)
	if err != nil {
		respondError(c, response.CodeInternal, "获取供应商失败", err)
		return
	}
	response.Success(c, vendor)
}
