package main

import (
	"context"
	"errors"
	"time"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"
)

type seedProduct struct {
	Name        string
	Description string
	Stock       int
	Price       string
}

type seedCoupon struct {
	Code    string
	Type    string
	Value   string
	OneShot bool
	Days    int
}

var demoProducts = []seedProduct{
	{Name: "Mechanical Keyboard", Description: "87-key hot-swappable keyboard", Stock: 40, Price: "89.90"},
	{Name: "Wireless Mouse", Description: "2.4G and bluetooth dual mode", Stock: 120, Price: "29.99"},
	{Name: "USB-C Hub", Description: "7-in-1 aluminium hub", Stock: 0, Price: "45.00"},
	{Name: "Desk Lamp", Description: "Dimmable LED lamp", Stock: 15, Price: "34.50"},
	{Name: "Monitor Arm", Stock: 8, Price: "119.00"},
	{Name: "Notebook", Description: "A5 dotted notebook", Stock: 300, Price: "6.80"},
}

var demoCoupons = []seedCoupon{
	{Code: "WELCOME10", Type: constants.CouponTypePercent, Value: "10", Days: 30},
	{Code: "SAVE5", Type: constants.CouponTypeFixed, Value: "5.00", Days: 14},
	{Code: "FLASH50", Type: constants.CouponTypePercent, Value: "50", OneShot: true, Days: 1},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogMode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	productService := service.NewProductService(repository.NewProductRepository(models.DB))
	couponService := service.NewCouponService(repository.NewCouponRepository(models.DB), 0)

	for _, item := range demoProducts {
		description := item.Description
		product, err := productService.Create(service.CreateProductInput{
			Name:        item.Name,
			Description: &description,
			Stock:       item.Stock,
			Price:       models.MustMoney(item.Price),
		})
		switch {
		case errors.Is(err, service.ErrProductNameExists):
			stdLog.Printf("Product already exists: %s", item.Name)
		case err != nil:
			stdLog.Printf("Failed to create product %s: %v", item.Name, err)
		default:
			stdLog.Printf("Created product: %s (id=%d)", product.Name, product.ID)
		}
	}

	now := time.Now().UTC()
	for _, item := range demoCoupons {
		if existing, err := couponService.GetByCode(context.Background(), item.Code); err == nil && existing != nil {
			stdLog.Printf("Coupon already exists: %s", existing.Code)
			continue
		}
		coupon, err := couponService.Create(service.CreateCouponInput{
			Code:       item.Code,
			Type:       item.Type,
			Value:      models.MustMoney(item.Value),
			OneShot:    item.OneShot,
			ValidFrom:  now,
			ValidUntil: now.AddDate(0, 0, item.Days),
		})
		if err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", item.Code, err)
			continue
		}
		stdLog.Printf("Created coupon: %s", coupon.Code)
	}

	stdLog.Printf("Seed completed")
}
