package repository

import "gorm.io/gorm"

// applyPagination 为列表查询追加 limit/offset。
// pageSize <= 0 表示不分页；page 小于 1 时按第一页处理。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}
