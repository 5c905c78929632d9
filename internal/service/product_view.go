package service

import (
	"time"

	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
)

// DiscountView 生效中折扣
type DiscountView struct {
	Type      string       `json:"type"`
	Value     models.Money `json:"value"`
	AppliedAt time.Time    `json:"applied_at"`
}

// ProductView 商品对外视图，包含计算出的折后价
type ProductView struct {
	ID               uint          `json:"id"`
	Name             string        `json:"name"`
	Description      *string       `json:"description"`
	Stock            int           `json:"stock"`
	Price            models.Money  `json:"price"`
	FinalPrice       models.Money  `json:"finalPrice"`
	IsOutOfStock     bool          `json:"is_out_of_stock"`
	HasCouponApplied bool          `json:"hasCouponApplied"`
	Discount         *DiscountView `json:"discount"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	DeletedAt        *time.Time    `json:"deletedAt"`
}

// ProjectProduct 将商品及其生效折扣投影为视图
func ProjectProduct(product *models.Product) ProductView {
	if product == nil {
		return ProductView{}
	}
	view := ProductView{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Stock:        product.Stock,
		Price:        product.Price,
		FinalPrice:   product.Price,
		IsOutOfStock: product.Stock == 0,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
	if product.DeletedAt.Valid {
		deletedAt := product.DeletedAt.Time
		view.DeletedAt = &deletedAt
	}

	application := product.ActiveApplication
	if !application.Active() || application.Coupon == nil {
		return view
	}
	coupon := application.Coupon
	view.HasCouponApplied = true
	view.Discount = &DiscountView{
		Type:      coupon.Type,
		Value:     coupon.Value,
		AppliedAt: application.AppliedAt,
	}

	final := computeFinalPrice(product.Price, coupon.Type, coupon.Value)
	if final.BelowMinimum() {
		logger.Warnw("discount_projection_degenerate",
			"product_id", product.ID,
			"application_id", application.ID,
			"coupon_id", coupon.ID,
			"price", product.Price.String(),
			"computed", final.String(),
		)
		return view
	}
	view.FinalPrice = final
	return view
}

// ProjectProducts 批量投影
func ProjectProducts(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, ProjectProduct(&products[i]))
	}
	return views
}
