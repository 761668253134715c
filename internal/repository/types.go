package repository

import "time"

// VendorListFilter 查询供应商列表的过滤条件
type VendorListFilter struct {
	Page       int
	PageSize   int
	Search     string
	VendorCode string
}

// OrderListFilter 查询采购订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	VendorID    uint
	Status      string
	PONumber    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SnapshotListFilter 查询历史绩效快照的过滤条件
type SnapshotListFilter struct {
	Page     int
	PageSize int
	VendorID uint
}
