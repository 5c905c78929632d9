package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenExpireHours = 12

// AuthService 运营人员认证服务
type AuthService struct {
	cfg          config.AuthConfig
	operatorRepo repository.OperatorRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg config.AuthConfig, operatorRepo repository.OperatorRepository) *AuthService {
	return &AuthService{
		cfg:          cfg,
		operatorRepo: operatorRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	OperatorID   uint   `json:"operator_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(operator *models.Operator) (string, time.Time, error) {
	expireHours := s.cfg.ExpireHours
	if expireHours <= 0 {
		expireHours = defaultTokenExpireHours
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		OperatorID:   operator.ID,
		Username:     operator.Username,
		Role:         operator.Role,
		TokenVersion: operator.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.cfg.Issuer))
	}
	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Login 运营人员登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Operator, string, time.Time, error) {
	operator, err := s.operatorRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if operator == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(operator)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	operator.LastLoginAt = &now
	if err := s.operatorRepo.Update(operator); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetOperatorAuthState(ctx, cache.BuildOperatorAuthState(operator))
	return operator, token, expiresAt, nil
}

// ResolveOperator 校验 token 对应的运营人员仍有效，优先读缓存
func (s *AuthService) ResolveOperator(ctx context.Context, claims *JWTClaims) (*cache.OperatorAuthState, error) {
	if claims == nil || claims.OperatorID == 0 {
		return nil, ErrTokenInvalid
	}
	state, hit, err := cache.GetOperatorAuthState(ctx, claims.OperatorID)
	if err != nil {
		logger.Debugw("operator_auth_state_cache_get_failed", "operator_id", claims.OperatorID, "error", err)
	}
	if !hit || state == nil {
		operator, err := s.operatorRepo.GetByID(claims.OperatorID)
		if err != nil {
			return nil, err
		}
		if operator == nil {
			return nil, ErrTokenRevoked
		}
		state = cache.BuildOperatorAuthState(operator)
		_ = cache.SetOperatorAuthState(ctx, state)
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenRevoked
	}
	return state, nil
}

// EnsureDefaultOperator 没有任何运营账号时创建默认管理员
func (s *AuthService) EnsureDefaultOperator(username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, errors.New("default operator username and password are required")
	}
	count, err := s.operatorRepo.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return false, err
	}
	operator := &models.Operator{
		Username:     username,
		PasswordHash: hash,
		Role:         constants.RoleCatalogAdmin,
	}
	if err := s.operatorRepo.Create(operator); err != nil {
		if repository.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	logger.Infow("default_operator_created", "operator_id", operator.ID, "username", operator.Username)
	return true, nil
}
