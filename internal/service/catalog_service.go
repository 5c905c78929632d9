package service

import (
	"context"
	"strings"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultCatalogLimit = 10
	maxCatalogLimit     = 50
)

// CatalogService 商品目录查询服务
type CatalogService struct {
	repo         repository.ProductRepository
	defaultLimit int
	maxLimit     int
}

// NewCatalogService 创建目录查询服务
func NewCatalogService(repo repository.ProductRepository, defaultLimit, maxLimit int) *CatalogService {
	if maxLimit <= 0 {
		maxLimit = maxCatalogLimit
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = defaultCatalogLimit
		if defaultLimit > maxLimit {
			defaultLimit = maxLimit
		}
	}
	return &CatalogService{repo: repo, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ProductListInput 商品列表查询条件
type ProductListInput struct {
	Page              int
	Limit             int
	Search            string
	MinPrice          *decimal.Decimal
	MaxPrice          *decimal.Decimal
	OnlyOutOfStock    bool
	HasDiscount       *bool
	WithCouponApplied bool // hasDiscount=true 的别名
	IncludeDeleted    bool
	SortBy            string
	SortOrder         string
}

// PageMeta 分页信息
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// ProductPage 商品分页结果
type ProductPage struct {
	Items []ProductView `json:"items"`
	Meta  PageMeta      `json:"pageMeta"`
}

// MaxLimit 单页上限
func (s *CatalogService) MaxLimit() int {
	return s.maxLimit
}

// NormalizeListInput 填充默认值并收敛越界参数
func (s *CatalogService) NormalizeListInput(input ProductListInput) ProductListInput {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit <= 0 {
		input.Limit = s.defaultLimit
	}
	if input.Limit > s.maxLimit {
		input.Limit = s.maxLimit
	}
	input.Search = strings.TrimSpace(input.Search)
	if input.WithCouponApplied && input.HasDiscount == nil {
		hasDiscount := true
		input.HasDiscount = &hasDiscount
	}
	switch input.SortBy {
	case constants.ProductSortByName, constants.ProductSortByPrice, constants.ProductSortByCreatedAt, constants.ProductSortByStock:
	default:
		input.SortBy = constants.ProductSortByCreatedAt
	}
	switch strings.ToLower(input.SortOrder) {
	case constants.SortOrderAsc:
		input.SortOrder = constants.SortOrderAsc
	default:
		input.SortOrder = constants.SortOrderDesc
	}
	return input
}

// List 在同一快照内获取总数与分页数据并投影
func (s *CatalogService) List(ctx context.Context, input ProductListInput) (*ProductPage, error) {
	input = s.NormalizeListInput(input)
	filter := repository.ProductListFilter{
		Page:           input.Page,
		PageSize:       input.Limit,
		Search:         input.Search,
		MinPrice:       input.MinPrice,
		MaxPrice:       input.MaxPrice,
		OnlyOutOfStock: input.OnlyOutOfStock,
		HasDiscount:    input.HasDiscount,
		IncludeDeleted: input.IncludeDeleted,
		SortBy:         input.SortBy,
		SortDesc:       input.SortOrder == constants.SortOrderDesc,
	}
	products, total, err := s.repo.WithContext(ctx).List(filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Items: ProjectProducts(products),
		Meta: PageMeta{
			Page:       input.Page,
			Limit:      input.Limit,
			TotalItems: total,
			TotalPages: totalPages(total, input.Limit),
		},
	}, nil
}

// Get 获取单个未删除商品视图
func (s *CatalogService) Get(ctx context.Context, id uint) (*ProductView, error) {
	product, err := s.repo.WithContext(ctx).GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	view := ProjectProduct(product)
	return &view, nil
}

func totalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
