package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
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

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: models.MustMoney(price),
		Stock: stock,
	}
	if err := NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product %s failed: %v", name, err)
	}
	return product
}

func createTestCoupon(t *testing.T, db *gorm.DB, code string, couponType string, value string) *models.Coupon {
	t.Helper()
	now := time.Now()
	coupon := &models.Coupon{
		Code:       code,
		Type:       couponType,
		Value:      models.MustMoney(value),
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
	}
	if err := NewCouponRepository(db).Create(coupon); err != nil {
		t.Fatalf("create coupon %s failed: %v", code, err)
	}
	return coupon
}

func createTestApplication(t *testing.T, db *gorm.DB, productID, couponID uint) *models.CouponApplication {
	t.Helper()
	application := &models.CouponApplication{
		ProductID: productID,
		CouponID:  couponID,
		AppliedAt: time.Now(),
	}
	if err := NewCouponApplicationRepository(db).Create(application); err != nil {
		t.Fatalf("create application failed: %v", err)
	}
	return application
}
