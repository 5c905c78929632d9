package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	applogger "github.com/catalog-next/internal/logger"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 全局数据库连接
var DB *gorm.DB

// DBPoolConfig 连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// 部分唯一索引：仅约束未删除/未移除的行
var partialUniqueIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_normalized_name_active ON products (normalized_name) WHERE deleted_at IS NULL",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_active ON coupons (code) WHERE deleted_at IS NULL",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupon_applications_active ON coupon_applications (product_id) WHERE removed_at IS NULL",
}

// InitDB 初始化全局数据库连接
func InitDB(driver, dsn, logMode string, pool DBPoolConfig) error {
	db, err := OpenDB(driver, dsn, logMode)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	DB = db
	return nil
}

// OpenDB 按驱动打开数据库
func OpenDB(driver, dsn, logMode string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logMode),
		TranslateError: true,
	})
}

func newGormLogger(mode string) gormlogger.Interface {
	level := gormlogger.Warn
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "silent":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "info":
		level = gormlogger.Info
	}
	return gormlogger.New(applogger.StdLogger(), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate 迁移全局连接
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate 迁移所有表并创建部分唯一索引
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}
	if err := db.AutoMigrate(
		&Operator{},
		&Product{},
		&Coupon{},
		&CouponApplication{},
	); err != nil {
		return err
	}
	for _, stmt := range partialUniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial index: %w", err)
		}
	}
	return nil
}
