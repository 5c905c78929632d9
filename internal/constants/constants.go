package constants

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 商品列表排序字段
const (
	ProductSortByName      = "name"
	ProductSortByPrice     = "price"
	ProductSortByCreatedAt = "createdAt"
	ProductSortByStock     = "stock"
)

// 排序方向
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// 运营角色常量
const (
	RoleCatalogViewer    = "catalog_viewer"
	RoleCatalogEditor    = "catalog_editor"
	RolePromotionManager = "promotion_manager"
	RoleCatalogAdmin     = "catalog_admin"
)

// 队列与任务类型常量
const (
	QueueDefault       = "default"
	QueueDiscount      = "discount"
	TaskDiscountExpire = "discount:expire"
)

// 登录失败原因常量
const (
	LoginFailReasonInvalidCredentials = "invalid_credentials"
	LoginFailReasonCaptchaRequired    = "captcha_required"
	LoginFailReasonCaptchaInvalid     = "captcha_invalid"
)
