package shared

import (
	"strconv"
	"strings"
)

// MaxPage 页码上限，超出后 offset 计算不再安全
const MaxPage = 1000000

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ParseOptionalPositiveInt 解析可选的正整数查询参数，缺省返回 0。
func ParseOptionalPositiveInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}

// ParsePage 解析可选页码，缺省返回 0，超过 MaxPage 视为非法
func ParsePage(raw string) (int, bool) {
	page, ok := ParseOptionalPositiveInt(raw)
	if !ok || page > MaxPage {
		return 0, false
	}
	return page, true
}

// ParseID 解析路径中的主键
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
