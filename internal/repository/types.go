package repository

import "github.com/shopspring/decimal"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page           int
	PageSize       int
	Search         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	OnlyOutOfStock bool
	HasDiscount    *bool
	IncludeDeleted bool
	SortBy         string // name / price / createdAt / stock
	SortDesc       bool
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page           int
	PageSize       int
	Code           string
	Type           string
	IncludeDeleted bool
}
