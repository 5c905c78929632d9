package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/queue"

	"github.com/hibiken/asynq"
)

const serviceName = "worker"

// Service 折扣到期任务消费服务
type Service struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	stopOnce sync.Once
}

// NewService 创建消费服务，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return serviceName
}

// Start 启动消费并阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_consuming", "task", queue.TaskDiscountExpire)
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束后关闭，可重复调用
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.stopOnce.Do(s.server.Shutdown)
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
