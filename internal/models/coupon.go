package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID         uint           `gorm:"primarykey" json:"id"`                         // 主键
	Code       string         `gorm:"type:varchar(20);not null;index" json:"code"`  // 优惠码（已归一化）
	Type       string         `gorm:"type:varchar(10);not null" json:"type"`        // 类型（fixed/percent）
	Value      Money          `gorm:"type:decimal(20,2);not null" json:"value"`     // 数值（固定金额或百分比）
	OneShot    bool           `gorm:"not null;default:false" json:"oneShot"`        // 是否一次性
	ValidFrom  time.Time      `gorm:"not null;index" json:"validFrom"`              // 生效时间
	ValidUntil time.Time      `gorm:"not null;index" json:"validUntil"`             // 失效时间
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`                       // 创建时间
	UpdatedAt  time.Time      `json:"updatedAt"`                                    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`             // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// BeforeSave 写入前归一化优惠码
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = NormalizeCouponCode(c.Code)
	return nil
}

// ValidAt 判断时间点是否处于有效期内（闭区间）
func (c *Coupon) ValidAt(now time.Time) bool {
	if c == nil {
		return false
	}
	return !now.Before(c.ValidFrom) && !now.After(c.ValidUntil)
}

// NormalizeCouponCode 去除首尾空白并转小写
func NormalizeCouponCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
