package service

import (
	"context"
	"errors"
	"testing"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/repository"
)

func newAuthTestService(t *testing.T) (*AuthService, repository.OperatorRepository) {
	t.Helper()
	db := setupServiceTestDB(t)
	repo := repository.NewOperatorRepository(db)
	svc := NewAuthService(config.AuthConfig{
		Enabled:     true,
		Secret:      "test-secret-with-enough-length-0123456789",
		Issuer:      "catalog-test",
		ExpireHours: 1,
	}, repo)
	return svc, repo
}

func TestEnsureDefaultOperatorAndLogin(t *testing.T) {
	svc, repo := newAuthTestService(t)
	ctx := context.Background()

	if _, err := svc.EnsureDefaultOperator("", "secret"); err == nil {
		t.Fatalf("empty username should be rejected")
	}
	created, err := svc.EnsureDefaultOperator("ops", "Str0ngPass!")
	if err != nil || !created {
		t.Fatalf("create default operator failed: created=%v err=%v", created, err)
	}
	created, err = svc.EnsureDefaultOperator("other", "Str0ngPass!")
	if err != nil || created {
		t.Fatalf("second default operator should be skipped: created=%v err=%v", created, err)
	}

	if _, _, _, err := svc.Login(ctx, "ops", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want invalid credentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody", "Str0ngPass!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want invalid credentials, got %v", err)
	}

	operator, token, _, err := svc.Login(ctx, " ops ", "Str0ngPass!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if operator.Role != constants.RoleCatalogAdmin || operator.LastLoginAt == nil {
		t.Fatalf("unexpected operator after login: %+v", operator)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.OperatorID != operator.ID || claims.Role != constants.RoleCatalogAdmin || claims.Issuer != "catalog-test" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	state, err := svc.ResolveOperator(ctx, claims)
	if err != nil {
		t.Fatalf("resolve operator failed: %v", err)
	}
	if state.OperatorID != operator.ID {
		t.Fatalf("resolved operator mismatch")
	}

	// 递增 token 版本后旧 token 失效
	operator.TokenVersion++
	if err := repo.Update(operator); err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}
	if _, err := svc.ResolveOperator(ctx, claims); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("stale token want revoked, got %v", err)
	}
}

func TestParseJWTRejectsForeignSecret(t *testing.T) {
	svc, _ := newAuthTestService(t)
	if _, err := svc.EnsureDefaultOperator("ops", "Str0ngPass!"); err != nil {
		t.Fatalf("create default operator failed: %v", err)
	}
	_, token, _, err := svc.Login(context.Background(), "ops", "Str0ngPass!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthService(config.AuthConfig{Secret: "another-secret-with-enough-length-98765", Issuer: "catalog-test"}, nil)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
	if _, err := svc.ParseJWT("not-a-token"); err == nil {
		t.Fatalf("garbage token must be rejected")
	}
	if _, err := svc.ResolveOperator(context.Background(), nil); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("nil claims want invalid token, got %v", err)
	}
}
