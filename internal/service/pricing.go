package service

import (
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// computeFinalPrice 计算折后价，保留 2 位小数（四舍五入，远离零）
// percent: price × (100 − value) / 100；fixed: price − value
func computeFinalPrice(price models.Money, couponType string, value models.Money) models.Money {
	var result decimal.Decimal
	switch couponType {
	case constants.CouponTypePercent:
		result = price.Decimal.Mul(hundred.Sub(value.Decimal)).Div(hundred)
	case constants.CouponTypeFixed:
		result = price.Decimal.Sub(value.Decimal)
	default:
		result = price.Decimal
	}
	return models.NewMoneyFromDecimal(result)
}

// discountedPrice 应用前校验折后价不低于 0.01
func discountedPrice(price models.Money, coupon *models.Coupon) (models.Money, error) {
	final := computeFinalPrice(price, coupon.Type, coupon.Value)
	if final.BelowMinimum() {
		return models.Money{}, ErrDiscountBelowMinimum
	}
	return final, nil
}

// hasAtMostTwoDecimals 判断小数位不超过 2 位
func hasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Round(models.MoneyScale))
}
