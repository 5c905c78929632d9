package service

import (
	"context"
	"time"

	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/queue"
	"github.com/catalog-next/internal/repository"

	"gorm.io/gorm"
)

// expireGrace 到期任务在有效期结束后再执行，有效期为闭区间
const expireGrace = time.Second

// DiscountExpireScheduler 折扣到期调度
type DiscountExpireScheduler interface {
	EnqueueDiscountExpire(payload queue.DiscountExpirePayload, delay time.Duration) error
}

// DiscountService 商品折扣服务，负责应用与移除优惠券
type DiscountService struct {
	productRepo     repository.ProductRepository
	couponRepo      repository.CouponRepository
	applicationRepo repository.CouponApplicationRepository
	scheduler       DiscountExpireScheduler
	autoExpire      bool
	now             func() time.Time
}

// NewDiscountService 创建折扣服务，scheduler 为空或 autoExpire 关闭时不调度到期任务
func NewDiscountService(
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	applicationRepo repository.CouponApplicationRepository,
	scheduler DiscountExpireScheduler,
	autoExpire bool,
) *DiscountService {
	return &DiscountService{
		productRepo:     productRepo,
		couponRepo:      couponRepo,
		applicationRepo: applicationRepo,
		scheduler:       scheduler,
		autoExpire:      autoExpire,
		now:             time.Now,
	}
}

// WithClock 替换时钟
func (s *DiscountService) WithClock(now func() time.Time) *DiscountService {
	if now != nil {
		s.now = now
	}
	return s
}

// DiscountHistoryItem 折扣应用历史
type DiscountHistoryItem struct {
	ID        uint         `json:"id"`
	CouponID  uint         `json:"couponId"`
	Code      string       `json:"code"`
	Type      string       `json:"type"`
	Value     models.Money `json:"value"`
	AppliedAt time.Time    `json:"appliedAt"`
	RemovedAt *time.Time   `json:"removedAt"`
	Active    bool         `json:"active"`
}

// ApplyCoupon 为商品应用优惠券，同一商品同时最多一条生效记录
func (s *DiscountService) ApplyCoupon(ctx context.Context, productID uint, code string) (*ProductView, error) {
	now := s.now()
	normalized := models.NormalizeCouponCode(code)

	var applied *models.CouponApplication
	var coupon *models.Coupon
	err := s.productRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		applicationRepo := s.applicationRepo.WithTx(tx)

		product, err := productRepo.LockByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		active, err := applicationRepo.GetActiveByProduct(product.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrDiscountConflict
		}

		found, err := couponRepo.GetByCode(normalized)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrCouponNotFound
		}
		if !found.ValidAt(now) {
			return ErrCouponNotValidNow
		}
		if _, err := discountedPrice(product.Price, found); err != nil {
			return err
		}

		record := &models.CouponApplication{
			ProductID: product.ID,
			CouponID:  found.ID,
			AppliedAt: now,
		}
		if err := applicationRepo.Create(record); err != nil {
			if repository.IsUniqueViolation(err) {
				logger.Infow("discount_conflict_race", "product_id", product.ID, "coupon_id", found.ID)
				return ErrDiscountConflict
			}
			return err
		}
		if found.OneShot {
			if _, err := couponRepo.SoftDelete(found.ID); err != nil {
				return err
			}
		}
		applied = record
		coupon = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("discount_applied",
		"product_id", productID,
		"coupon_id", coupon.ID,
		"code", coupon.Code,
		"application_id", applied.ID,
	)
	if coupon.OneShot {
		if err := cache.DelCoupon(ctx, coupon.Code); err != nil {
			logger.Warnw("coupon_cache_evict_failed", "coupon_id", coupon.ID, "code", coupon.Code, "error", err)
		}
	}
	s.scheduleExpire(applied, coupon, now)

	product, err := s.productRepo.WithContext(ctx).GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	view := ProjectProduct(product)
	return &view, nil
}

// RemoveDiscount 移除商品当前折扣，没有生效折扣时视为成功
func (s *DiscountService) RemoveDiscount(ctx context.Context, productID uint) error {
	var removed *models.CouponApplication
	err := s.applicationRepo.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicationRepo := s.applicationRepo.WithTx(tx)
		active, err := applicationRepo.GetActiveByProduct(productID)
		if err != nil {
			return err
		}
		if active == nil {
			return nil
		}
		affected, err := applicationRepo.MarkRemoved(active.ID, s.now())
		if err != nil {
			return err
		}
		if affected > 0 {
			removed = active
		}
		return nil
	})
	if err != nil {
		return err
	}
	if removed != nil {
		logger.Infow("discount_removed", "product_id", productID, "application_id", removed.ID)
	}
	return nil
}

// ExpireDiscount 优惠券过期后移除仍生效的应用记录
func (s *DiscountService) ExpireDiscount(ctx context.Context, applicationID uint, now time.Time) error {
	applicationRepo := s.applicationRepo.WithContext(ctx)
	application, err := applicationRepo.GetByID(applicationID)
	if err != nil {
		return err
	}
	if !application.Active() || application.Coupon == nil {
		return nil
	}
	if !now.After(application.Coupon.ValidUntil) {
		return nil
	}
	affected, err := applicationRepo.MarkRemoved(application.ID, now)
	if err != nil {
		return err
	}
	if affected > 0 {
		logger.Infow("discount_expired",
			"product_id", application.ProductID,
			"application_id", application.ID,
			"coupon_id", application.CouponID,
		)
	}
	return nil
}

// DiscountHistory 商品折扣应用历史，最新在前
func (s *DiscountService) DiscountHistory(ctx context.Context, productID uint) ([]DiscountHistoryItem, error) {
	product, err := s.productRepo.WithContext(ctx).GetByIDUnscoped(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	applications, err := s.applicationRepo.WithContext(ctx).ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]DiscountHistoryItem, 0, len(applications))
	for i := range applications {
		application := &applications[i]
		item := DiscountHistoryItem{
			ID:        application.ID,
			CouponID:  application.CouponID,
			AppliedAt: application.AppliedAt,
			RemovedAt: application.RemovedAt,
			Active:    application.Active(),
		}
		if application.Coupon != nil {
			item.Code = application.Coupon.Code
			item.Type = application.Coupon.Type
			item.Value = application.Coupon.Value
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *DiscountService) scheduleExpire(application *models.CouponApplication, coupon *models.Coupon, now time.Time) {
	if !s.autoExpire || s.scheduler == nil || application == nil || coupon == nil {
		return
	}
	delay := coupon.ValidUntil.Sub(now) + expireGrace
	payload := queue.DiscountExpirePayload{ApplicationID: application.ID, ProductID: application.ProductID}
	if err := s.scheduler.EnqueueDiscountExpire(payload, delay); err != nil {
		logger.Warnw("discount_enqueue_expire_failed",
			"application_id", application.ID,
			"product_id", application.ProductID,
			"error", err,
		)
	}
}
