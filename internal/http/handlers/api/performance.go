package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/vendortrack/internal/http/response"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptureSnapshot 捕获供应商绩效快照
func (h *Handler) CaptureSnapshot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.PerformanceService.Capture(id, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "捕获快照失败", err)
		return
	}

	response.Success(c, snapshot)
}

// GetVendorHistory 供应商历史绩效列表
func (h *Handler) GetVendorHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	snapshots, total, err := h.PerformanceService.ListHistory(repository.SnapshotListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: id,
	})
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "供应商不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取历史绩效失败", err)
		return
	}

	response.SuccessWithPage(c, snapshots, buildPagination(page, pageSize, total))
}
