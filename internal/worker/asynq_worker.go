package worker

import (
	"context"
	"time"

	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/provider"
	"github.com/catalog-next/internal/queue"

	"github.com/hibiken/asynq"
)

// DiscountExpirer 折扣到期处理
type DiscountExpirer interface {
	ExpireDiscount(ctx context.Context, applicationID uint, now time.Time) error
}

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	expirer DiscountExpirer
	now     func() time.Time
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{
		Container: c,
		now:       time.Now,
	}
	if c != nil && c.DiscountService != nil {
		consumer.expirer = c.DiscountService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDiscountExpire, c.handleDiscountExpire)
}

func (c *Consumer) handleDiscountExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.expirer == nil {
		logger.Debugw("worker_discount_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseDiscountExpirePayload(task)
	if err != nil {
		logger.Warnw("worker_discount_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.ApplicationID == 0 {
		logger.Debugw("worker_discount_expire_skip_invalid_payload", "application_id", payload.ApplicationID)
		return nil
	}
	if err := c.expirer.ExpireDiscount(ctx, payload.ApplicationID, c.now()); err != nil {
		logger.Warnw("worker_discount_expire_failed",
			"application_id", payload.ApplicationID,
			"product_id", payload.ProductID,
			"error", err,
		)
		return err
	}
	return nil
}
