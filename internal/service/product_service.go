package service

import (
	"strings"
	"unicode/utf8"

	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	productNameMinLength     = 3
	productNameMaxLength     = 100
	productDescriptionMaxLen = 300
	productStockMax          = 999999
)

var productPriceMax = decimal.NewFromInt(1000000)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name        string
	Description *string
	Stock       int
	Price       models.Money
}

// UpdateProductInput 部分更新商品输入，nil 字段保持原值
type UpdateProductInput struct {
	Name        *string
	Description *string
	Stock       *int
	Price       *models.Money
}

// Create 创建商品
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: normalizeDescription(input.Description),
		Stock:       input.Stock,
		Price:       input.Price,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.Price = models.NewMoneyFromDecimal(product.Price.Decimal)

	if err := s.ensureNameAvailable(product.Name, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrProductNameExists
		}
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update 部分更新商品
func (s *ProductService) Update(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	nameChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		nameChanged = models.NormalizeProductName(name) != product.NormalizedName
		product.Name = name
	}
	if input.Description != nil {
		product.Description = normalizeDescription(input.Description)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.Price = models.NewMoneyFromDecimal(product.Price.Decimal)

	if nameChanged {
		if err := s.ensureNameAvailable(product.Name, product.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrProductNameExists
		}
		return nil, err
	}
	return s.reload(product.ID)
}

// SoftDelete 软删除商品
func (s *ProductService) SoftDelete(id uint) error {
	affected, err := s.repo.SoftDelete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	logger.Infow("product_deleted", "product_id", id)
	return nil
}

// Restore 恢复软删除商品，未删除的商品直接返回
func (s *ProductService) Restore(id uint) (*models.Product, error) {
	product, err := s.repo.GetByIDUnscoped(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.DeletedAt.Valid {
		return product, nil
	}
	if err := s.ensureNameAvailable(product.Name, product.ID); err != nil {
		return nil, err
	}
	if _, err := s.repo.Restore(id); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrProductNameExists
		}
		return nil, err
	}
	logger.Infow("product_restored", "product_id", id)
	return s.reload(id)
}

func (s *ProductService) ensureNameAvailable(name string, excludeID uint) error {
	count, err := s.repo.CountActiveByNormalizedName(models.NormalizeProductName(name), excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductNameExists
	}
	return nil
}

func (s *ProductService) reload(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateProduct(product *models.Product) error {
	nameLength := utf8.RuneCountInString(product.Name)
	if nameLength < productNameMinLength || nameLength > productNameMaxLength {
		return fieldError(ErrProductInvalid, "name must be between %d and %d characters", productNameMinLength, productNameMaxLength)
	}
	if product.Description != nil && utf8.RuneCountInString(*product.Description) > productDescriptionMaxLen {
		return fieldError(ErrProductInvalid, "description must be at most %d characters", productDescriptionMaxLen)
	}
	if product.Stock < 0 || product.Stock > productStockMax {
		return fieldError(ErrProductInvalid, "stock must be between 0 and %d", productStockMax)
	}
	price := product.Price.Decimal
	if price.LessThan(models.MinimumUnit) || price.GreaterThan(productPriceMax) {
		return fieldError(ErrProductInvalid, "price must be between 0.01 and 1000000.00")
	}
	if !hasAtMostTwoDecimals(price) {
		return fieldError(ErrProductInvalid, "price must have at most 2 decimal places")
	}
	return nil
}
