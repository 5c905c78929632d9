package repository

import (
	"context"
	"errors"
	"time"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponApplicationRepository 优惠券应用记录（只追加账本）数据访问接口
type CouponApplicationRepository interface {
	Create(application *models.CouponApplication) error
	GetByID(id uint) (*models.CouponApplication, error)
	GetActiveByProduct(productID uint) (*models.CouponApplication, error)
	MarkRemoved(id uint, removedAt time.Time) (int64, error)
	ListByProduct(productID uint) ([]models.CouponApplication, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CouponApplicationRepository
	WithContext(ctx context.Context) CouponApplicationRepository
}

// GormCouponApplicationRepository GORM 实现
type GormCouponApplicationRepository struct {
	db *gorm.DB
}

// NewCouponApplicationRepository 创建应用记录仓库
func NewCouponApplicationRepository(db *gorm.DB) *GormCouponApplicationRepository {
	return &GormCouponApplicationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponApplicationRepository) WithTx(tx *gorm.DB) CouponApplicationRepository {
	if tx == nil {
		return r
	}
	return &GormCouponApplicationRepository{db: tx}
}

// WithContext 绑定请求上下文
func (r *GormCouponApplicationRepository) WithContext(ctx context.Context) CouponApplicationRepository {
	if ctx == nil {
		return r
	}
	return &GormCouponApplicationRepository{db: r.db.WithContext(ctx)}
}

// Transaction 执行事务
func (r *GormCouponApplicationRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 写入应用记录，商品已有生效记录时由部分唯一索引拒绝
func (r *GormCouponApplicationRepository) Create(application *models.CouponApplication) error {
	return r.db.Omit(clause.Associations).Create(application).Error
}

// GetByID 根据 ID 获取应用记录（含优惠券，包含已删除优惠券）
func (r *GormCouponApplicationRepository) GetByID(id uint) (*models.CouponApplication, error) {
	var application models.CouponApplication
	err := r.db.
		Preload("Coupon", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&application, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// GetActiveByProduct 获取商品当前生效的应用记录
func (r *GormCouponApplicationRepository) GetActiveByProduct(productID uint) (*models.CouponApplication, error) {
	var application models.CouponApplication
	err := r.db.
		Where("product_id = ? AND removed_at IS NULL", productID).
		Order("id desc").
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// MarkRemoved 标记移除，仅更新仍生效的记录
func (r *GormCouponApplicationRepository) MarkRemoved(id uint, removedAt time.Time) (int64, error) {
	result := r.db.Model(&models.CouponApplication{}).
		Where("id = ? AND removed_at IS NULL", id).
		UpdateColumn("removed_at", removedAt)
	return result.RowsAffected, result.Error
}

// ListByProduct 商品的应用历史，最新在前
func (r *GormCouponApplicationRepository) ListByProduct(productID uint) ([]models.CouponApplication, error) {
	applications := make([]models.CouponApplication, 0)
	err := r.db.
		Preload("Coupon", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("product_id = ?", productID).
		Order("applied_at desc, id desc").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}
