package admin

import (
	"errors"

	handlershared "github.com/catalog-next/internal/http/handlers/shared"
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// OperatorLogin 运营人员登录
func (h *Handler) OperatorLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); err != nil {
			respondServiceError(c, err, "captcha verification failed")
			return
		}
	}

	operator, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}
	requestLog(c).Infow("operator_login", "operator_id", operator.ID, "username", operator.Username)
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       operator.ID,
			"username": operator.Username,
			"role":     operator.Role,
		},
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
