package repository

import (
	"math"

	"gorm.io/gorm"
)

// applyPagination 应用 skip/take，非法页码按第一页处理，offset 溢出时取最大值（结果为空页）。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := math.MaxInt
	if page-1 <= math.MaxInt/pageSize {
		offset = (page - 1) * pageSize
	}
	return query.Limit(pageSize).Offset(offset)
}
