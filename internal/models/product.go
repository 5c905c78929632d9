package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                           // 主键
	Name                  string         `gorm:"type:varchar(100);not null" json:"name"`         // 展示名称
	NormalizedName        string         `gorm:"type:varchar(100);not null;index" json:"-"`      // 归一化名称（唯一性与检索）
	Description           *string        `gorm:"type:varchar(300)" json:"description"`           // 描述
	NormalizedDescription string         `gorm:"type:varchar(300);not null;default:''" json:"-"` // 归一化描述（检索）
	Stock                 int            `gorm:"not null;default:0;index" json:"stock"`          // 库存
	Price                 Money          `gorm:"type:decimal(20,2);not null;index" json:"price"` // 标价（折扣逻辑不修改）
	CreatedAt             time.Time      `gorm:"index" json:"createdAt"`                         // 创建时间
	UpdatedAt             time.Time      `json:"updatedAt"`                                      // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"deletedAt"`                         // 软删除时间

	// 关联：当前生效的优惠券应用记录（removed_at IS NULL，需按条件预加载）
	ActiveApplication *CouponApplication `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeSave 每次写入时重算归一化名称与描述
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.NormalizedName = NormalizeProductName(p.Name)
	p.NormalizedDescription = ""
	if p.Description != nil {
		p.NormalizedDescription = NormalizeSearchText(*p.Description)
	}
	return nil
}

// NormalizeProductName 小写并折叠空白
func NormalizeProductName(name string) string {
	return NormalizeSearchText(name)
}

// NormalizeSearchText 按 Unicode 规则小写并折叠空白，检索关键字与归一化列使用同一规则
func NormalizeSearchText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
