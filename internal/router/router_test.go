package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/provider"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerTestEnv struct {
	engine    *gin.Engine
	container *provider.Container
}

func newRouterTestEnv(t *testing.T, authEnabled bool) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.OpenDB("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		Auth:    config.AuthConfig{Enabled: authEnabled, Secret: "router-test-secret", Issuer: "catalog-test"},
		Catalog: config.CatalogConfig{DefaultLimit: 10, MaxLimit: 50},
	}
	container := provider.NewContainerWithDB(cfg, db, nil)
	return &routerTestEnv{engine: SetupRouter(cfg, container), container: container}
}

func (e *routerTestEnv) do(t *testing.T, method, path string, body interface{}, token string) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s unmarshal response failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func decodeData(t *testing.T, resp envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(resp.Data))
	}
}

type productBody struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Price            string `json:"price"`
	FinalPrice       string `json:"finalPrice"`
	HasCouponApplied bool   `json:"hasCouponApplied"`
	IsOutOfStock     bool   `json:"is_out_of_stock"`
}

func TestDiscountFlowOverHTTP(t *testing.T) {
	env := newRouterTestEnv(t, false)
	now := time.Now().UTC()

	resp := env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name":  "Desk Lamp",
		"price": "100.00",
		"stock": 5,
	}, "")
	if resp.StatusCode != 0 {
		t.Fatalf("create product failed: %+v", resp)
	}
	var product productBody
	decodeData(t, resp, &product)
	if product.ID == 0 || product.FinalPrice != "100.00" || product.HasCouponApplied {
		t.Fatalf("unexpected created product: %+v", product)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name":  "  desk lamp ",
		"price": "20.00",
	}, "")
	if resp.StatusCode != 409 {
		t.Fatalf("duplicate name want 409 got %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/admin/coupons", map[string]interface{}{
		"code":       " SAVE10 ",
		"type":       "percent",
		"value":      10,
		"validFrom":  now.Add(-time.Hour).Format(time.RFC3339),
		"validUntil": now.Add(time.Hour).Format(time.RFC3339),
	}, "")
	if resp.StatusCode != 0 {
		t.Fatalf("create coupon failed: %+v", resp)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/coupons/Save10", nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("get coupon by code failed: %+v", resp)
	}

	applyPath := fmt.Sprintf("/api/v1/admin/products/%d/discount/coupon", product.ID)
	resp = env.do(t, http.MethodPost, applyPath, map[string]string{"code": "save10"}, "")
	if resp.StatusCode != 0 {
		t.Fatalf("apply coupon failed: %+v", resp)
	}
	decodeData(t, resp, &product)
	if product.FinalPrice != "90.00" || !product.HasCouponApplied || product.Price != "100.00" {
		t.Fatalf("unexpected discounted product: %+v", product)
	}

	resp = env.do(t, http.MethodPost, applyPath, map[string]string{"code": "save10"}, "")
	if resp.StatusCode != 409 {
		t.Fatalf("second apply want 409 got %+v", resp)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/products?hasDiscount=true", nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("list products failed: %+v", resp)
	}
	var page struct {
		Items    []productBody `json:"items"`
		PageMeta struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			TotalItems int64 `json:"totalItems"`
			TotalPages int64 `json:"totalPages"`
		} `json:"pageMeta"`
	}
	decodeData(t, resp, &page)
	if len(page.Items) != 1 || page.Items[0].FinalPrice != "90.00" {
		t.Fatalf("unexpected discounted listing: %+v", page)
	}
	if page.PageMeta.Page != 1 || page.PageMeta.Limit != 10 || page.PageMeta.TotalItems != 1 || page.PageMeta.TotalPages != 1 {
		t.Fatalf("unexpected page meta: %+v", page.PageMeta)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d/discount", product.ID), nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("remove discount failed: %+v", resp)
	}
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil, "")
	decodeData(t, resp, &product)
	if product.FinalPrice != "100.00" || product.HasCouponApplied {
		t.Fatalf("discount should be removed: %+v", product)
	}

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/products/%d/discount/history", product.ID), nil, "")
	var history []struct {
		Code   string `json:"code"`
		Active bool   `json:"active"`
	}
	decodeData(t, resp, &history)
	if len(history) != 1 || history[0].Code != "save10" || history[0].Active {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestErrorMappingOverHTTP(t *testing.T) {
	env := newRouterTestEnv(t, false)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "missing product", method: http.MethodGet, path: "/api/v1/products/999", want: 404},
		{name: "bad product id", method: http.MethodGet, path: "/api/v1/products/abc", want: 400},
		{name: "missing coupon", method: http.MethodGet, path: "/api/v1/coupons/nothere", want: 404},
		{name: "coupon list huge page", method: http.MethodGet, path: "/api/v1/admin/coupons?page=4611686018427387904", want: 0},
		{name: "zero limit", method: http.MethodGet, path: "/api/v1/products?limit=0", want: 400},
		{name: "limit over max", method: http.MethodGet, path: "/api/v1/products?limit=51", want: 400},
		{name: "negative page", method: http.MethodGet, path: "/api/v1/products?page=-1", want: 400},
		{name: "page over max", method: http.MethodGet, path: "/api/v1/products?page=4611686018427387904", want: 400},
		{name: "bad sortBy", method: http.MethodGet, path: "/api/v1/products?sortBy=color", want: 400},
		{name: "bad sortOrder", method: http.MethodGet, path: "/api/v1/products?sortOrder=up", want: 400},
		{name: "bad bool", method: http.MethodGet, path: "/api/v1/products?hasDiscount=maybe", want: 400},
		{name: "bad price", method: http.MethodGet, path: "/api/v1/products?minPrice=cheap", want: 400},
		{name: "invalid product", method: http.MethodPost, path: "/api/v1/admin/products", body: map[string]interface{}{"name": "ab", "price": "1.00"}, want: 400},
		{name: "apply to missing product", method: http.MethodPost, path: "/api/v1/admin/products/77/discount/coupon", body: map[string]string{"code": "save10"}, want: 404},
		{name: "delete missing product", method: http.MethodDelete, path: "/api/v1/admin/products/77", want: 404},
		{name: "delete missing coupon", method: http.MethodDelete, path: "/api/v1/admin/coupons/77", want: 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, tc.method, tc.path, tc.body, "")
			if resp.StatusCode != tc.want {
				t.Fatalf("status_code want %d got %+v", tc.want, resp)
			}
		})
	}
}

func TestBelowMinimumAndInvalidStateOverHTTP(t *testing.T) {
	env := newRouterTestEnv(t, false)
	now := time.Now().UTC()

	resp := env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"name": "Sticker", "price": "5.00", "stock": 1}, "")
	var product productBody
	decodeData(t, resp, &product)

	for _, coupon := range []map[string]interface{}{
		{"code": "big10", "type": "fixed", "value": "10.00", "validFrom": now.Add(-time.Hour), "validUntil": now.Add(time.Hour)},
		{"code": "later1", "type": "fixed", "value": "1.00", "validFrom": now.Add(time.Hour), "validUntil": now.Add(2 * time.Hour)},
	} {
		if resp := env.do(t, http.MethodPost, "/api/v1/admin/coupons", coupon, ""); resp.StatusCode != 0 {
			t.Fatalf("create coupon failed: %+v", resp)
		}
	}

	applyPath := fmt.Sprintf("/api/v1/admin/products/%d/discount/coupon", product.ID)
	if resp := env.do(t, http.MethodPost, applyPath, map[string]string{"code": "big10"}, ""); resp.StatusCode != 422 {
		t.Fatalf("below minimum want 422 got %+v", resp)
	}
	if resp := env.do(t, http.MethodPost, applyPath, map[string]string{"code": "later1"}, ""); resp.StatusCode != 400 {
		t.Fatalf("not yet valid want 400 got %+v", resp)
	}
}

func TestOperatorAuthAndRBAC(t *testing.T) {
	env := newRouterTestEnv(t, true)

	if resp := env.do(t, http.MethodGet, "/api/v1/admin/coupons", nil, ""); resp.StatusCode != 401 {
		t.Fatalf("anonymous admin request want 401 got %+v", resp)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/products", nil, ""); resp.StatusCode != 0 {
		t.Fatalf("public listing should stay open, got %+v", resp)
	}

	created, err := env.container.AuthService.EnsureDefaultOperator("operator", "admin-pass-123")
	if err != nil || !created {
		t.Fatalf("ensure default operator failed: created=%v err=%v", created, err)
	}
	hash, err := env.container.AuthService.HashPassword("viewer-pass-123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := env.container.OperatorRepo.Create(&models.Operator{Username: "viewer", PasswordHash: hash, Role: constants.RoleCatalogViewer}); err != nil {
		t.Fatalf("create viewer failed: %v", err)
	}

	login := func(username, password string) string {
		resp := env.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"username": username, "password": password}, "")
		if resp.StatusCode != 0 {
			t.Fatalf("login %s failed: %+v", username, resp)
		}
		var body struct {
			Token string `json:"token"`
		}
		decodeData(t, resp, &body)
		return body.Token
	}

	if resp := env.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"username": "operator", "password": "wrong"}, ""); resp.StatusCode != 401 {
		t.Fatalf("wrong password want 401 got %+v", resp)
	}

	adminToken := login("operator", "admin-pass-123")
	viewerToken := login("viewer", "viewer-pass-123")

	product := map[string]interface{}{"name": "Notebook", "price": "12.50", "stock": 3}
	if resp := env.do(t, http.MethodPost, "/api/v1/admin/products", product, viewerToken); resp.StatusCode != 403 {
		t.Fatalf("viewer create want 403 got %+v", resp)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/admin/coupons", nil, viewerToken); resp.StatusCode != 0 {
		t.Fatalf("viewer list coupons want 0 got %+v", resp)
	}
	if resp := env.do(t, http.MethodPost, "/api/v1/admin/products", product, adminToken); resp.StatusCode != 0 {
		t.Fatalf("admin create want 0 got %+v", resp)
	}
	resp := env.do(t, http.MethodGet, "/api/v1/admin/roles", nil, viewerToken)
	var roles []struct {
		Role string `json:"role"`
	}
	if resp.StatusCode != 0 {
		t.Fatalf("viewer list roles want 0 got %+v", resp)
	}
	decodeData(t, resp, &roles)
	if len(roles) != 4 {
		t.Fatalf("viewer should see the four builtin roles, got %+v", roles)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/admin/coupons", nil, "bogus"); resp.StatusCode != 401 {
		t.Fatalf("bogus token want 401 got %+v", resp)
	}
}
