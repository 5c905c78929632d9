package models

import (
	"time"

	"gorm.io/gorm"
)

// Operator 运营人员表
type Operator struct {
	ID           uint           `gorm:"primarykey" json:"id"`                       // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`       // 登录账号
	PasswordHash string         `gorm:"not null" json:"-"`                          // 密码哈希
	Role         string         `gorm:"type:varchar(40);not null;index" json:"role"` // 角色
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                // Token 版本（递增即全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                              // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Operator) TableName() string {
	return "operators"
}
