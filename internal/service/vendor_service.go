package service

import (
	"context"
	"strings"
	"time"

	"github.com/vendortrack/internal/cache"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"
)

// VendorService 供应商服务
//
// 绩效字段是只读的派生值，创建和更新入口都不接受它们；
// 绩效读取走 Redis 缓存，缓存由指标引擎在写入后失效。
type VendorService struct {
	vendorRepo repository.VendorRepository
	cacheTTL   time.Duration
}

// NewVendorService 创建供应商服务
func NewVendorService(vendorRepo repository.VendorRepository, cacheTTL time.Duration) *VendorService {
	return &VendorService{vendorRepo: vendorRepo, cacheTTL: cacheTTL}
}

// CreateVendorInput 创建供应商输入
type CreateVendorInput struct {
	Name           string
	ContactDetails string
	Address        string
	VendorCode     string
}

// UpdateVendorInput 更新供应商输入（nil 字段表示不修改）
type UpdateVendorInput struct {
	Name           *string
	ContactDetails *string
	Address        *string
	VendorCode     *string
}

// CreateVendor 创建供应商
func (s *VendorService) CreateVendor(input CreateVendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.VendorCode)
	if name == "" || code == "" {
		return nil, ErrVendorInvalid
	}

	existing, err := s.vendorRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrVendorCodeTaken
	}

	vendor := &models.Vendor{
		Name:           name,
		ContactDetails: input.ContactDetails,
		Address:        input.Address,
		VendorCode:     code,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	logger.Infow("vendor_created", "vendor_id", vendor.ID, "vendor_code", vendor.VendorCode)
	return vendor, nil
}

// GetVendor 获取供应商
func (s *VendorService) GetVendor(id uint) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// ListVendors 供应商列表
func (s *VendorService) ListVendors(filter repository.VendorListFilter) ([]models.Vendor, int64, error) {
	return s.vendorRepo.List(filter)
}

// UpdateVendor 更新供应商基础信息
func (s *VendorService) UpdateVendor(id uint, input UpdateVendorInput) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrVendorInvalid
		}
		vendor.Name = name
	}
	if input.ContactDetails != nil {
		vendor.ContactDetails = *input.ContactDetails
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}
	if input.VendorCode != nil {
		code := strings.TrimSpace(*input.VendorCode)
		if code == "" {
			return nil, ErrVendorInvalid
		}
		if code != vendor.VendorCode {
			existing, err := s.vendorRepo.GetByCode(code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrVendorCodeTaken
			}
			vendor.VendorCode = code
		}
	}

	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	logger.Infow("vendor_updated", "vendor_id", vendor.ID, "vendor_code", vendor.VendorCode)
	return vendor, nil
}

// DeleteVendor 删除供应商及其订单与快照
func (s *VendorService) DeleteVendor(id uint) error {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return ErrVendorNotFound
	}
	if err := s.vendorRepo.Delete(id); err != nil {
		return err
	}
	logger.Infow("vendor_deleted", "vendor_id", id, "vendor_code", vendor.VendorCode)

	if err := cache.InvalidateVendorPerformance(context.Background(), id); err != nil {
		logger.Warnw("vendor_performance_cache_invalidate_failed", "vendor_id", id, "error", err.Error())
	}
	return nil
}

// GetPerformance 读取供应商当前绩效
//
// 优先读缓存；未命中时回源数据库并回填。缓存层任何错误都只记录
// 日志，不影响读取结果。
func (s *VendorService) GetPerformance(ctx context.Context, id uint) (*cache.VendorPerformance, error) {
	entry, hit, err := cache.GetVendorPerformance(ctx, id)
	if err != nil {
		logger.Warnw("vendor_performance_cache_read_failed", "vendor_id", id, "error", err.Error())
	}
	if hit {
		return entry, nil
	}

	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	entry = cache.BuildVendorPerformance(vendor)
	if err := cache.SetVendorPerformance(ctx, entry, s.cacheTTL); err != nil {
		logger.Warnw("vendor_performance_cache_write_failed", "vendor_id", id, "error", err.Error())
	}
	return entry, nil
}
