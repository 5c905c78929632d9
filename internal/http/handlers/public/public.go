package public

import (
	"fmt"
	"strconv"
	"strings"

	handlershared "github.com/catalog-next/internal/http/handlers/shared"
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var (
	allowedSortBy    = map[string]bool{"name": true, "price": true, "createdAt": true, "stock": true}
	allowedSortOrder = map[string]bool{"asc": true, "desc": true}
)

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	input, err := h.parseProductListQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	page, err := h.CatalogService.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "failed to list products")
		return
	}
	response.Success(c, page)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseID(c.Param("id"))
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	view, err := h.CatalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "failed to fetch product")
		return
	}
	response.Success(c, view)
}

// GetCoupon 按优惠码查询优惠券
func (h *Handler) GetCoupon(c *gin.Context) {
	coupon, err := h.CouponService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "failed to fetch coupon")
		return
	}
	response.Success(c, coupon)
}

func (h *Handler) parseProductListQuery(c *gin.Context) (service.ProductListInput, error) {
	var input service.ProductListInput

	page, ok := handlershared.ParsePage(c.Query("page"))
	if !ok {
		return input, fmt.Errorf("page must be a positive integer not above %d", handlershared.MaxPage)
	}
	limit, ok := handlershared.ParseOptionalPositiveInt(c.Query("limit"))
	if !ok {
		return input, fmt.Errorf("limit must be a positive integer")
	}
	if maxLimit := h.CatalogService.MaxLimit(); limit > maxLimit {
		return input, fmt.Errorf("limit must not exceed %d", maxLimit)
	}
	input.Page = page
	input.Limit = limit
	input.Search = strings.TrimSpace(c.Query("search"))

	var err error
	if input.MinPrice, err = parseDecimalQuery(c, "minPrice"); err != nil {
		return input, err
	}
	if input.MaxPrice, err = parseDecimalQuery(c, "maxPrice"); err != nil {
		return input, err
	}
	if input.MinPrice != nil && input.MaxPrice != nil && input.MinPrice.GreaterThan(*input.MaxPrice) {
		return input, fmt.Errorf("minPrice must not exceed maxPrice")
	}

	if input.HasDiscount, err = parseBoolQuery(c, "hasDiscount"); err != nil {
		return input, err
	}
	flags := []struct {
		key    string
		target *bool
	}{
		{key: "withCouponApplied", target: &input.WithCouponApplied},
		{key: "onlyOutOfStock", target: &input.OnlyOutOfStock},
		{key: "includeDeleted", target: &input.IncludeDeleted},
	}
	for _, flag := range flags {
		value, err := parseBoolQuery(c, flag.key)
		if err != nil {
			return input, err
		}
		*flag.target = value != nil && *value
	}

	if sortBy := strings.TrimSpace(c.Query("sortBy")); sortBy != "" {
		if !allowedSortBy[sortBy] {
			return input, fmt.Errorf("sortBy must be one of name, price, createdAt, stock")
		}
		input.SortBy = sortBy
	}
	if sortOrder := strings.ToLower(strings.TrimSpace(c.Query("sortOrder"))); sortOrder != "" {
		if !allowedSortOrder[sortOrder] {
			return input, fmt.Errorf("sortOrder must be asc or desc")
		}
		input.SortOrder = sortOrder
	}
	return input, nil
}

func parseDecimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", key)
	}
	return &value, nil
}

func parseBoolQuery(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &value, nil
}
