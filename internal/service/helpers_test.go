package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/queue"
	"github.com/catalog-next/internal/repository"

	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type serviceTestEnv struct {
	db        *gorm.DB
	products  *ProductService
	coupons   *CouponService
	discounts *DiscountService
	catalog   *CatalogService
	scheduler *recordingScheduler
}

type scheduledExpire struct {
	payload queue.DiscountExpirePayload
	delay   time.Duration
}

type recordingScheduler struct {
	mu    sync.Mutex
	calls []scheduledExpire
}

func (r *recordingScheduler) EnqueueDiscountExpire(payload queue.DiscountExpirePayload, delay time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, scheduledExpire{payload: payload, delay: delay})
	return nil
}

func (r *recordingScheduler) snapshot() []scheduledExpire {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scheduledExpire(nil), r.calls...)
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.OpenDB("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	db := setupServiceTestDB(t)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	applicationRepo := repository.NewCouponApplicationRepository(db)
	scheduler := &recordingScheduler{}

	return &serviceTestEnv{
		db:        db,
		products:  NewProductService(productRepo),
		coupons:   NewCouponService(couponRepo, 0),
		discounts: NewDiscountService(productRepo, couponRepo, applicationRepo, scheduler, true).WithClock(func() time.Time { return testNow }),
		catalog:   NewCatalogService(productRepo, 10, 50),
		scheduler: scheduler,
	}
}

func (e *serviceTestEnv) mustCreateProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product, err := e.products.Create(CreateProductInput{
		Name:  name,
		Price: models.MustMoney(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("create product %s failed: %v", name, err)
	}
	return product
}

func (e *serviceTestEnv) mustCreateCoupon(t *testing.T, code, couponType, value string) *models.Coupon {
	t.Helper()
	return e.mustCreateCouponWindow(t, code, couponType, value, testNow.Add(-time.Hour), testNow.Add(time.Hour), false)
}

func (e *serviceTestEnv) mustCreateCouponWindow(t *testing.T, code, couponType, value string, from, until time.Time, oneShot bool) *models.Coupon {
	t.Helper()
	coupon, err := e.coupons.Create(CreateCouponInput{
		Code:       code,
		Type:       couponType,
		Value:      models.MustMoney(value),
		OneShot:    oneShot,
		ValidFrom:  from,
		ValidUntil: until,
	})
	if err != nil {
		t.Fatalf("create coupon %s failed: %v", code, err)
	}
	return coupon
}

func (e *serviceTestEnv) countApplications(t *testing.T, productID uint) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.CouponApplication{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		t.Fatalf("count applications failed: %v", err)
	}
	return count
}
