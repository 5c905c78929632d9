package service

import (
	"context"
	"regexp"
	"time"

	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	couponCodePattern  = regexp.MustCompile(`^[a-z0-9]{4,20}$`)
	couponPercentLimit = decimal.NewFromInt(80)
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	cacheTTL   time.Duration
}

// NewCouponService 创建优惠券服务，cacheTTL <= 0 时不写缓存
func NewCouponService(couponRepo repository.CouponRepository, cacheTTL time.Duration) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		cacheTTL:   cacheTTL,
	}
}

// CreateCouponInput 创建优惠券输入
type CreateCouponInput struct {
	Code       string
	Type       string
	Value      models.Money
	OneShot    bool
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Create 创建优惠券
func (s *CouponService) Create(input CreateCouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:       models.NormalizeCouponCode(input.Code),
		Type:       input.Type,
		Value:      input.Value,
		OneShot:    input.OneShot,
		ValidFrom:  input.ValidFrom,
		ValidUntil: input.ValidUntil,
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}
	coupon.Value = models.NewMoneyFromDecimal(coupon.Value.Decimal)

	existing, err := s.couponRepo.GetByCode(coupon.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeExists
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCouponCodeExists
		}
		return nil, err
	}
	logger.Infow("coupon_created", "coupon_id", coupon.ID, "code", coupon.Code, "type", coupon.Type, "one_shot", coupon.OneShot)
	return coupon, nil
}

// GetByCode 按归一化优惠码查询未删除的优惠券
func (s *CouponService) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := models.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, ErrCouponNotFound
	}
	cached, hit, err := cache.GetCoupon(ctx, normalized)
	if err != nil {
		logger.Debugw("coupon_cache_get_failed", "code", normalized, "error", err)
	}
	if hit && cached != nil {
		return cached, nil
	}

	coupon, err := s.couponRepo.WithContext(ctx).GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if s.cacheTTL > 0 {
		if err := cache.SetCoupon(ctx, coupon, s.cacheTTL); err != nil {
			logger.Debugw("coupon_cache_set_failed", "code", normalized, "error", err)
		}
	}
	return coupon, nil
}

// List 后台优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// Delete 软删除优惠券，已应用的折扣继续生效
func (s *CouponService) Delete(ctx context.Context, id uint) error {
	couponRepo := s.couponRepo.WithContext(ctx)
	coupon, err := couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	affected, err := couponRepo.SoftDelete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	if err := cache.DelCoupon(ctx, coupon.Code); err != nil {
		logger.Warnw("coupon_cache_evict_failed", "coupon_id", id, "code", coupon.Code, "error", err)
	}
	logger.Infow("coupon_deleted", "coupon_id", id, "code", coupon.Code)
	return nil
}

func validateCoupon(coupon *models.Coupon) error {
	if !couponCodePattern.MatchString(coupon.Code) {
		return fieldError(ErrCouponInvalid, "code must be 4 to 20 alphanumeric characters")
	}
	if coupon.ValidFrom.IsZero() || coupon.ValidUntil.IsZero() || !coupon.ValidUntil.After(coupon.ValidFrom) {
		return ErrCouponWindowInvalid
	}
	value := coupon.Value.Decimal
	if !hasAtMostTwoDecimals(value) {
		return fieldError(ErrCouponValueInvalid, "value must have at most 2 decimal places")
	}
	switch coupon.Type {
	case constants.CouponTypePercent:
		if !value.IsPositive() || value.GreaterThan(couponPercentLimit) {
			return fieldError(ErrCouponValueInvalid, "percent value must be greater than 0 and at most 80")
		}
	case constants.CouponTypeFixed:
		if !value.IsPositive() {
			return fieldError(ErrCouponValueInvalid, "fixed value must be greater than 0")
		}
	default:
		return fieldError(ErrCouponInvalid, "type must be fixed or percent")
	}
	return nil
}
