package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/catalog-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// OperatorAuthState 运营人员鉴权快照，避免每次请求查库
type OperatorAuthState struct {
	OperatorID   uint   `json:"operator_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func operatorAuthStateKey(operatorID uint) string {
	return fmt.Sprintf("auth:operator:%d", operatorID)
}

// BuildOperatorAuthState 从模型构建鉴权快照
func BuildOperatorAuthState(operator *models.Operator) *OperatorAuthState {
	if operator == nil {
		return nil
	}
	return &OperatorAuthState{
		OperatorID:   operator.ID,
		Username:     operator.Username,
		Role:         operator.Role,
		TokenVersion: operator.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetOperatorAuthState 获取鉴权快照
func GetOperatorAuthState(ctx context.Context, operatorID uint) (*OperatorAuthState, bool, error) {
	if operatorID == 0 {
		return nil, false, nil
	}
	var state OperatorAuthState
	hit, err := GetJSON(ctx, operatorAuthStateKey(operatorID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetOperatorAuthState 写入鉴权快照
func SetOperatorAuthState(ctx context.Context, state *OperatorAuthState) error {
	if state == nil || state.OperatorID == 0 {
		return nil
	}
	return SetJSON(ctx, operatorAuthStateKey(state.OperatorID), state, authStateCacheTTL)
}

// DelOperatorAuthState 删除鉴权快照
func DelOperatorAuthState(ctx context.Context, operatorID uint) error {
	if operatorID == 0 {
		return nil
	}
	return Del(ctx, operatorAuthStateKey(operatorID))
}
