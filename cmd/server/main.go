package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/catalog-next/internal/app"
	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Auth.Enabled {
		if isWeakSecret(cfg.Auth.Secret) {
			if cfg.Server.Mode == "release" {
				stdLog.Fatalf("auth secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
			}
			stdLog.Printf("警告: auth secret 过弱或仍为默认值，建议在生产环境中更换")
		}
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogMode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	if cfg.Auth.Enabled {
		ensureDefaultOperator(cfg)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// ensureDefaultOperator 环境变量优先于配置文件
func ensureDefaultOperator(cfg *config.Config) {
	username := firstNonEmpty(os.Getenv("CATALOG_DEFAULT_OPERATOR_USERNAME"), cfg.Auth.DefaultUsername)
	password := firstNonEmpty(os.Getenv("CATALOG_DEFAULT_OPERATOR_PASSWORD"), cfg.Auth.DefaultPassword)
	if password == "" {
		logger.Warnw("default_operator_skipped", "reason", "password_not_configured")
		return
	}
	authService := service.NewAuthService(cfg.Auth, repository.NewOperatorRepository(models.DB))
	if _, err := authService.EnsureDefaultOperator(username, password); err != nil {
		logger.Warnw("default_operator_init_failed", "username", username, "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "catalog-next" + ansiReset + ansiDim + " discount & catalog query engine" + ansiReset)
	fmt.Println(ansiDim + "mode: " + mode + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
