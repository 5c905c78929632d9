package authz

import (
	"fmt"

	"github.com/catalog-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置运营角色
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCatalogViewer,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleCatalogEditor,
			Inherits: []string{constants.RoleCatalogViewer},
			Policies: []Policy{
				{Object: "/admin/products", Action: "POST"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/restore", Action: "POST"},
			},
		},
		{
			Role:     constants.RolePromotionManager,
			Inherits: []string{constants.RoleCatalogViewer},
			Policies: []Policy{
				{Object: "/admin/coupons", Action: "*"},
				{Object: "/admin/coupons/:id", Action: "*"},
				{Object: "/admin/products/:id/discount", Action: "*"},
				{Object: "/admin/products/:id/discount/coupon", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleCatalogAdmin,
			Inherits: []string{constants.RoleCatalogEditor, constants.RolePromotionManager},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role failed: %w", err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

// IsBuiltinRole 判断是否为预置角色
func IsBuiltinRole(role string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if seed.Role == role {
			return true
		}
	}
	return false
}
