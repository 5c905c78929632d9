package admin

import (
	"github.com/catalog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest 应用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon 为商品应用优惠券
func (h *Handler) ApplyCoupon(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	view, err := h.DiscountService.ApplyCoupon(c.Request.Context(), productID, req.Code)
	if err != nil {
		respondServiceError(c, err, "failed to apply coupon")
		return
	}
	requestLog(c).Infow("admin_coupon_applied", "product_id", productID, "operator", operatorName(c))
	response.Success(c, view)
}

// RemoveDiscount 移除商品当前折扣
func (h *Handler) RemoveDiscount(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DiscountService.RemoveDiscount(c.Request.Context(), productID); err != nil {
		respondServiceError(c, err, "failed to remove discount")
		return
	}
	response.Success(c, nil)
}

// GetDiscountHistory 商品折扣历史
func (h *Handler) GetDiscountHistory(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.DiscountService.DiscountHistory(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err, "failed to fetch discount history")
		return
	}
	response.Success(c, items)
}
