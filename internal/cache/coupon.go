package cache

import (
	"context"
	"time"

	"github.com/catalog-next/internal/models"
)

func couponCodeKey(code string) string {
	return "coupon:code:" + models.NormalizeCouponCode(code)
}

// GetCoupon 按优惠码读取缓存
func GetCoupon(ctx context.Context, code string) (*models.Coupon, bool, error) {
	var coupon models.Coupon
	hit, err := GetJSON(ctx, couponCodeKey(code), &coupon)
	if err != nil || !hit {
		return nil, false, err
	}
	return &coupon, true, nil
}

// SetCoupon 写入优惠码缓存
func SetCoupon(ctx context.Context, coupon *models.Coupon, ttl time.Duration) error {
	if coupon == nil || coupon.Code == "" || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, couponCodeKey(coupon.Code), coupon, ttl)
}

// DelCoupon 删除优惠码缓存
func DelCoupon(ctx context.Context, code string) error {
	if models.NormalizeCouponCode(code) == "" {
		return nil
	}
	return Del(ctx, couponCodeKey(code))
}
