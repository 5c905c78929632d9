package models

import "time"

// CouponApplication 优惠券应用记录（只追加，不删除）
type CouponApplication struct {
	ID        uint       `gorm:"primarykey" json:"id"`                 // 主键
	ProductID uint       `gorm:"not null;index" json:"productId"`      // 商品ID
	CouponID  uint       `gorm:"not null;index" json:"couponId"`       // 优惠券ID
	AppliedAt time.Time  `gorm:"not null;index" json:"appliedAt"`      // 应用时间
	RemovedAt *time.Time `gorm:"index" json:"removedAt"`               // 移除时间（为空表示生效中）

	// 关联
	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}

// TableName 指定表名
func (CouponApplication) TableName() string {
	return "coupon_applications"
}

// Active 是否生效中
func (a *CouponApplication) Active() bool {
	return a != nil && a.RemovedAt == nil
}
