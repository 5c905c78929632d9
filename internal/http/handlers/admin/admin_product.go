package admin

import (
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description *string      `json:"description"`
	Stock       int          `json:"stock"`
	Price       models.Money `json:"price"`
}

// UpdateProductRequest 部分更新商品请求
type UpdateProductRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Stock       *int          `json:"stock"`
	Price       *models.Money `json:"price"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Create(service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Price:       req.Price,
	})
	if err != nil {
		respondServiceError(c, err, "failed to create product")
		return
	}
	response.Success(c, service.ProjectProduct(product))
}

// UpdateProduct 部分更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Update(id, service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Price:       req.Price,
	})
	if err != nil {
		respondServiceError(c, err, "failed to update product")
		return
	}
	response.Success(c, service.ProjectProduct(product))
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.SoftDelete(id); err != nil {
		respondServiceError(c, err, "failed to delete product")
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id, "operator", operatorName(c))
	response.Success(c, nil)
}

// RestoreProduct 恢复已删除商品
func (h *Handler) RestoreProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Restore(id)
	if err != nil {
		respondServiceError(c, err, "failed to restore product")
		return
	}
	response.Success(c, service.ProjectProduct(product))
}
