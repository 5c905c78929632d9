package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/catalog-next/internal/http/handlers/shared"
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code       string       `json:"code" binding:"required"`
	Type       string       `json:"type" binding:"required"`
	Value      models.Money `json:"value"`
	OneShot    bool         `json:"oneShot"`
	ValidFrom  time.Time    `json:"validFrom"`
	ValidUntil time.Time    `json:"validUntil"`
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	coupon, err := h.CouponService.Create(service.CreateCouponInput{
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value,
		OneShot:    req.OneShot,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		respondServiceError(c, err, "failed to create coupon")
		return
	}
	response.Success(c, coupon)
}

// GetCoupons 优惠券列表
func (h *Handler) GetCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))

	coupons, total, err := h.CouponService.List(repository.CouponListFilter{
		Page:           page,
		PageSize:       pageSize,
		Code:           strings.TrimSpace(c.Query("code")),
		Type:           strings.TrimSpace(c.Query("type")),
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list coupons", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

// DeleteCoupon 删除优惠券（软删除）
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "failed to delete coupon")
		return
	}
	requestLog(c).Infow("admin_coupon_deleted", "coupon_id", id, "operator", operatorName(c))
	response.Success(c, nil)
}
