package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	SoftDelete(id uint) (int64, error)
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	WithTx(tx *gorm.DB) CouponRepository
	WithContext(ctx context.Context) CouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormCouponRepository) WithContext(ctx context.Context) CouponRepository {
	if ctx == nil {
		return r
	}
	return &GormCouponRepository{db: r.db.WithContext(ctx)}
}

// GetByID 根据 ID 获取未删除优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据归一化优惠码获取未删除优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", models.NormalizeCouponCode(code)).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// SoftDelete 软删除优惠券，返回影响行数
func (r *GormCouponRepository) SoftDelete(id uint) (int64, error) {
	result := r.db.Delete(&models.Coupon{}, id)
	return result.RowsAffected, result.Error
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})
	if filter.IncludeDeleted {
		query = query.Unscoped()
	}
	if code := models.NormalizeCouponCode(filter.Code); code != "" {
		query = query.Where("code LIKE ? ESCAPE '\\'", containsPattern(code))
	}
	if couponType := strings.ToLower(strings.TrimSpace(filter.Type)); couponType != "" {
		query = query.Where("type = ?", couponType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}
