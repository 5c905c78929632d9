package queue

import (
	"encoding/json"
	"fmt"

	"github.com/catalog-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDiscountExpire 优惠券到期后移除折扣任务
	TaskDiscountExpire = constants.TaskDiscountExpire
)

// DiscountExpirePayload 折扣到期任务载荷
type DiscountExpirePayload struct {
	ApplicationID uint `json:"application_id"`
	ProductID     uint `json:"product_id"`
}

// NewDiscountExpireTask 创建折扣到期任务
func NewDiscountExpireTask(payload DiscountExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDiscountExpire, body), nil
}

// ParseDiscountExpirePayload 解析折扣到期任务载荷
func ParseDiscountExpirePayload(task *asynq.Task) (DiscountExpirePayload, error) {
	var payload DiscountExpirePayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func discountExpireTaskID(applicationID uint) string {
	return fmt.Sprintf("discount-expire-%d", applicationID)
}
