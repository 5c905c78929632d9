package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activeApplicationExistsSQL = "EXISTS (SELECT 1 FROM coupon_applications ca WHERE ca.product_id = products.id AND ca.removed_at IS NULL)"

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByIDUnscoped(id uint) (*models.Product, error)
	LockByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	SoftDelete(id uint) (int64, error)
	Restore(id uint) (int64, error)
	CountActiveByNormalizedName(normalizedName string, excludeID uint) (int64, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
	WithContext(ctx context.Context) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// WithContext 绑定请求上下文，取消后查询随之中止
func (r *GormProductRepository) WithContext(ctx context.Context) ProductRepository {
	if ctx == nil {
		return r
	}
	return &GormProductRepository{db: r.db.WithContext(ctx)}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// preloadActiveDiscount 预加载生效中的应用记录及其优惠券（优惠券可能已被软删除）
func preloadActiveDiscount(query *gorm.DB) *gorm.DB {
	return query.
		Preload("ActiveApplication", "removed_at IS NULL").
		Preload("ActiveApplication.Coupon", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}

// GetByID 根据 ID 获取未删除商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return r.first(preloadActiveDiscount(r.db), id)
}

// GetByIDUnscoped 根据 ID 获取商品（包含已删除）
func (r *GormProductRepository) GetByIDUnscoped(id uint) (*models.Product, error) {
	return r.first(preloadActiveDiscount(r.db.Unscoped()), id)
}

// LockByID 在事务内读取并锁定商品行，sqlite 依赖单连接串行写入
func (r *GormProductRepository) LockByID(id uint) (*models.Product, error) {
	query := r.db
	if isPostgresDialect(dbDialectName(r.db)) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(query, id)
}

func (r *GormProductRepository) first(query *gorm.DB, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Omit(clause.Associations).Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit(clause.Associations).Save(product).Error
}

// SoftDelete 软删除商品，返回影响行数
func (r *GormProductRepository) SoftDelete(id uint) (int64, error) {
	result := r.db.Delete(&models.Product{}, id)
	return result.RowsAffected, result.Error
}

// Restore 恢复软删除商品，返回影响行数
func (r *GormProductRepository) Restore(id uint) (int64, error) {
	result := r.db.Unscoped().Model(&models.Product{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	return result.RowsAffected, result.Error
}

// CountActiveByNormalizedName 统计未删除商品中同名数量
func (r *GormProductRepository) CountActiveByNormalizedName(normalizedName string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("normalized_name = ?", normalizedName)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List 商品列表，总数与分页数据在同一只读快照内读取
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Product{})
		if filter.IncludeDeleted {
			query = query.Unscoped()
		}
		query = applyProductFilters(query, dbDialectName(tx), filter)

		if err := query.Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return nil
		}

		query = applyProductOrder(query, filter.SortBy, filter.SortDesc)
		query = applyPagination(query, filter.Page, filter.PageSize)
		return preloadActiveDiscount(query).Find(&products).Error
	}, snapshotTxOptions(r.db))
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// snapshotTxOptions postgres 使用可重复读只读事务；sqlite 事务本身可串行化
func snapshotTxOptions(db *gorm.DB) *sql.TxOptions {
	if isPostgresDialect(dbDialectName(db)) {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// applyProductFilters 依次合取各独立谓词
func applyProductFilters(query *gorm.DB, dialect string, filter ProductListFilter) *gorm.DB {
	query = applySearchFilter(query, dialect, filter.Search)
	query = applyPriceRangeFilter(query, filter)
	if filter.OnlyOutOfStock {
		query = query.Where("stock = ?", 0)
	}
	return applyDiscountFilter(query, filter.HasDiscount)
}

func applySearchFilter(query *gorm.DB, dialect, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	columns := []string{"name", "description"}
	if !isPostgresDialect(dialect) {
		columns = []string{"normalized_name", "normalized_description"}
		search = models.NormalizeSearchText(search)
	}
	condition, argCount := buildLikeCondition(dialect, columns)
	return query.Where(condition, repeatLikeArgs(containsPattern(search), argCount)...)
}

func applyPriceRangeFilter(query *gorm.DB, filter ProductListFilter) *gorm.DB {
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice.StringFixed(models.MoneyScale))
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice.StringFixed(models.MoneyScale))
	}
	return query
}

func applyDiscountFilter(query *gorm.DB, hasDiscount *bool) *gorm.DB {
	if hasDiscount == nil {
		return query
	}
	if *hasDiscount {
		return query.Where(activeApplicationExistsSQL)
	}
	return query.Where("NOT " + activeApplicationExistsSQL)
}

var productSortColumns = map[string]string{
	constants.ProductSortByName:      "name",
	constants.ProductSortByPrice:     "price",
	constants.ProductSortByCreatedAt: "created_at",
	constants.ProductSortByStock:     "stock",
}

// applyProductOrder 主排序后按 id 同向排序，保证分页稳定
func applyProductOrder(query *gorm.DB, sortBy string, desc bool) *gorm.DB {
	column, ok := productSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	return query.
		Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: "id"}, Desc: desc})
}
