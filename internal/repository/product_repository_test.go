package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func boolPtr(v bool) *bool {
	return &v
}

func productIDs(products []models.Product) []uint {
	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func containsID(ids []uint, id uint) bool {
	for _, item := range ids {
		if item == id {
			return true
		}
	}
	return false
}

func TestProductNormalizedNameUniqueAmongActiveRows(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	first := createTestProduct(t, db, "Blue  Widget", "10.00", 1)
	if first.NormalizedName != "blue widget" {
		t.Fatalf("normalized name want 'blue widget' got %q", first.NormalizedName)
	}

	err := repo.Create(&models.Product{Name: "blue widget", Price: models.MustMoney("11.00")})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation for duplicate normalized name, got %v", err)
	}

	if _, err := repo.SoftDelete(first.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	second := &models.Product{Name: "BLUE WIDGET", Price: models.MustMoney("12.00")}
	if err := repo.Create(second); err != nil {
		t.Fatalf("create after soft delete should succeed: %v", err)
	}

	count, err := repo.CountActiveByNormalizedName("blue widget", second.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count excluding self want 0 got %d", count)
	}
}

func TestProductSoftDeleteAndRestore(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Garden Hose", "25.50", 0)

	affected, err := repo.SoftDelete(product.ID)
	if err != nil || affected != 1 {
		t.Fatalf("soft delete want 1 row, got %d err=%v", affected, err)
	}
	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got != nil {
		t.Fatalf("soft deleted product should be hidden")
	}
	unscoped, err := repo.GetByIDUnscoped(product.ID)
	if err != nil || unscoped == nil {
		t.Fatalf("unscoped get should find product: %v", err)
	}
	if !unscoped.DeletedAt.Valid {
		t.Fatalf("deleted_at should be set")
	}

	affected, err = repo.Restore(product.ID)
	if err != nil || affected != 1 {
		t.Fatalf("restore want 1 row, got %d err=%v", affected, err)
	}
	affected, err = repo.Restore(product.ID)
	if err != nil || affected != 0 {
		t.Fatalf("second restore want 0 rows, got %d err=%v", affected, err)
	}
	got, err = repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("restored product should be visible: %v", err)
	}
}

func TestProductListPaginationIsStableAndConsistent(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	for i := 0; i < 23; i++ {
		createTestProduct(t, db, fmt.Sprintf("Item %02d", i), "9.99", i)
	}

	seen := make(map[uint]struct{})
	wantSizes := []int{10, 10, 3}
	for page, want := range wantSizes {
		products, total, err := repo.List(ProductListFilter{
			Page:     page + 1,
			PageSize: 10,
			SortBy:   constants.ProductSortByCreatedAt,
			SortDesc: true,
		})
		if err != nil {
			t.Fatalf("list page %d failed: %v", page+1, err)
		}
		if total != 23 {
			t.Fatalf("total want 23 got %d", total)
		}
		if len(products) != want {
			t.Fatalf("page %d size want %d got %d", page+1, want, len(products))
		}
		for _, p := range products {
			if _, ok := seen[p.ID]; ok {
				t.Fatalf("product %d returned twice", p.ID)
			}
			seen[p.ID] = struct{}{}
		}
	}
	if len(seen) != 23 {
		t.Fatalf("union of pages want 23 got %d", len(seen))
	}
}

func TestProductListTieBreakFollowsSortDirection(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	a := createTestProduct(t, db, "Alpha", "5.00", 1)
	b := createTestProduct(t, db, "Bravo", "5.00", 1)
	c := createTestProduct(t, db, "Charlie", "5.00", 1)

	asc, _, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, SortBy: constants.ProductSortByPrice})
	if err != nil {
		t.Fatalf("list asc failed: %v", err)
	}
	ids := productIDs(asc)
	if len(ids) != 3 || ids[0] != a.ID || ids[1] != b.ID || ids[2] != c.ID {
		t.Fatalf("asc tie-break want [%d %d %d] got %v", a.ID, b.ID, c.ID, ids)
	}

	desc, _, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, SortBy: constants.ProductSortByPrice, SortDesc: true})
	if err != nil {
		t.Fatalf("list desc failed: %v", err)
	}
	ids = productIDs(desc)
	if len(ids) != 3 || ids[0] != c.ID || ids[2] != a.ID {
		t.Fatalf("desc tie-break want [%d %d %d] got %v", c.ID, b.ID, a.ID, ids)
	}
}

func TestProductListFilters(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)

	discounted := createTestProduct(t, db, "Steel Kettle", "30.00", 4)
	plain := createTestProduct(t, db, "Ceramic Mug", "8.50", 0)
	desc := "a kettle-friendly tray"
	tray := &models.Product{Name: "Serving Tray", Description: &desc, Price: models.MustMoney("15.00"), Stock: 2}
	if err := repo.Create(tray); err != nil {
		t.Fatalf("create tray failed: %v", err)
	}
	deleted := createTestProduct(t, db, "Old Kettle", "12.00", 0)
	if _, err := repo.SoftDelete(deleted.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	coupon := createTestCoupon(t, db, "kettle", constants.CouponTypePercent, "10")
	createTestApplication(t, db, discounted.ID, coupon.ID)

	listIDs := func(filter ProductListFilter) []uint {
		t.Helper()
		filter.Page = 1
		filter.PageSize = 50
		products, _, err := repo.List(filter)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		return productIDs(products)
	}

	ids := listIDs(ProductListFilter{Search: "KETTLE"})
	if len(ids) != 2 || !containsID(ids, discounted.ID) || !containsID(ids, tray.ID) {
		t.Fatalf("search should match name or description case-insensitively, got %v", ids)
	}

	ids = listIDs(ProductListFilter{Search: "kettle", IncludeDeleted: true})
	if len(ids) != 3 || !containsID(ids, deleted.ID) {
		t.Fatalf("include deleted should return soft deleted rows, got %v", ids)
	}

	ids = listIDs(ProductListFilter{HasDiscount: boolPtr(true)})
	if len(ids) != 1 || ids[0] != discounted.ID {
		t.Fatalf("has discount true want [%d] got %v", discounted.ID, ids)
	}
	ids = listIDs(ProductListFilter{HasDiscount: boolPtr(false)})
	if len(ids) != 2 || containsID(ids, discounted.ID) || !containsID(ids, plain.ID) {
		t.Fatalf("has discount false should exclude discounted product, got %v", ids)
	}

	ids = listIDs(ProductListFilter{OnlyOutOfStock: true})
	if len(ids) != 1 || ids[0] != plain.ID {
		t.Fatalf("only out of stock want [%d] got %v", plain.ID, ids)
	}

	minPrice := decimal.RequireFromString("8.50")
	maxPrice := decimal.RequireFromString("15.00")
	ids = listIDs(ProductListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	if len(ids) != 2 || !containsID(ids, plain.ID) || !containsID(ids, tray.ID) {
		t.Fatalf("price range should be inclusive, got %v", ids)
	}

	ids = listIDs(ProductListFilter{Search: "%"})
	if len(ids) != 0 {
		t.Fatalf("wildcard characters should be matched literally, got %v", ids)
	}
}

func TestProductListHugePageIsEmpty(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "Paper Clip", "0.50", 100)

	products, total, err := repo.List(ProductListFilter{Page: 1 << 62, PageSize: 10})
	if err != nil {
		t.Fatalf("list huge page failed: %v", err)
	}
	if total != 1 || len(products) != 0 {
		t.Fatalf("huge page want empty rows with total 1, got %d rows total %d", len(products), total)
	}
}

func TestProductListSearchFoldsAccentedCase(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)

	cafe := createTestProduct(t, db, "Café Especial", "25.00", 3)
	desc := "Ração Premium para cães"
	feed := &models.Product{Name: "Pet Food", Description: &desc, Price: models.MustMoney("80.00"), Stock: 1}
	if err := repo.Create(feed); err != nil {
		t.Fatalf("create feed failed: %v", err)
	}
	if feed.NormalizedDescription != "ração premium para cães" {
		t.Fatalf("normalized description want lowercased text, got %q", feed.NormalizedDescription)
	}

	cases := []struct {
		search string
		want   uint
	}{
		{"café", cafe.ID},
		{"CAFÉ", cafe.ID},
		{"Café  ESPECIAL", cafe.ID},
		{"ração", feed.ID},
		{"RAÇÃO", feed.ID},
		{"CÃES", feed.ID},
	}
	for _, tc := range cases {
		products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: tc.search})
		if err != nil {
			t.Fatalf("list %q failed: %v", tc.search, err)
		}
		ids := productIDs(products)
		if total != 1 || len(ids) != 1 || ids[0] != tc.want {
			t.Fatalf("search %q want [%d] got %v (total %d)", tc.search, tc.want, ids, total)
		}
	}

	updated := "Grãos torrados"
	feed.Description = &updated
	if err := repo.Update(feed); err != nil {
		t.Fatalf("update feed failed: %v", err)
	}
	if products, _, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "RAÇÃO"}); err != nil || len(products) != 0 {
		t.Fatalf("stale description should not match after update, got %v err %v", productIDs(products), err)
	}
	if products, _, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "GRÃOS"}); err != nil || len(products) != 1 {
		t.Fatalf("updated description should match, got %v err %v", productIDs(products), err)
	}
}

func TestProductRepositoryHonorsCanceledContext(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Desk Lamp", "19.90", 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := repo.WithContext(ctx).List(ProductListFilter{Page: 1, PageSize: 10}); !errors.Is(err, context.Canceled) {
		t.Fatalf("list with canceled context want context.Canceled, got %v", err)
	}
	if _, err := repo.WithContext(ctx).GetByID(product.ID); !errors.Is(err, context.Canceled) {
		t.Fatalf("get with canceled context want context.Canceled, got %v", err)
	}
	if got, err := repo.WithContext(context.Background()).GetByID(product.ID); err != nil || got == nil {
		t.Fatalf("live context should read product, got %v err %v", got, err)
	}
}

func TestProductListPreloadsActiveApplicationOnly(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Wool Scarf", "20.00", 5)
	oldCoupon := createTestCoupon(t, db, "old5", constants.CouponTypeFixed, "5")
	newCoupon := createTestCoupon(t, db, "new10", constants.CouponTypePercent, "10")

	old := createTestApplication(t, db, product.ID, oldCoupon.ID)
	if _, err := NewCouponApplicationRepository(db).MarkRemoved(old.ID, old.AppliedAt); err != nil {
		t.Fatalf("mark removed failed: %v", err)
	}
	active := createTestApplication(t, db, product.ID, newCoupon.ID)

	products, _, err := repo.List(ProductListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("want 1 product got %d", len(products))
	}
	got := products[0].ActiveApplication
	if got == nil || got.ID != active.ID {
		t.Fatalf("expected active application %d, got %+v", active.ID, got)
	}
	if got.Coupon == nil || got.Coupon.Code != "new10" {
		t.Fatalf("expected coupon new10, got %+v", got.Coupon)
	}
}

func TestProductLockByIDReadsRowInsideTransaction(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "Tea Pot", "18.00", 3)

	err := repo.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).LockByID(product.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.ID != product.ID {
			t.Fatalf("expected locked product %d", product.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
