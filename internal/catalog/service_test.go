package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, name, category string, stock int, eco bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Price:       decimal.NewFromFloat(9.99),
		Stock:       stock,
		Category:    category,
		EcoFriendly: eco,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestListFiltersByCategoryAndSearch(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)

	seedProduct(t, conn, "Bamboo Toothbrush", "personal-care", 10, true)
	seedProduct(t, conn, "Steel Bottle", "kitchen", 5, true)
	seedProduct(t, conn, "Bamboo Cutting Board", "kitchen", 3, true)

	resp, err := svc.List(context.Background(), ListProductsQuery{Category: "kitchen"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if resp.Total != 2 || len(resp.Products) != 2 {
		t.Fatalf("expected 2 kitchen products, got total=%d len=%d", resp.Total, len(resp.Products))
	}

	resp, err = svc.List(context.Background(), ListProductsQuery{Search: "bamboo"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 bamboo matches, got %d", resp.Total)
	}

	resp, err = svc.List(context.Background(), ListProductsQuery{Category: "kitchen", Search: "bamboo"})
	if err != nil {
		t.Fatalf("list combined: %v", err)
	}
	if resp.Total != 1 || resp.Products[0].Name != "Bamboo Cutting Board" {
		t.Fatalf("expected the cutting board only, got %+v", resp.Products)
	}
}

func TestListPaginationClampsLimit(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)

	for i := 0; i < 3; i++ {
		seedProduct(t, conn, "Item", "misc", 1, false)
	}

	resp, err := svc.List(context.Background(), ListProductsQuery{Limit: -5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Limit <= 0 {
		t.Fatalf("expected normalized limit, got %d", resp.Limit)
	}
	if len(resp.Products) != 3 {
		t.Fatalf("expected all 3 products, got %d", len(resp.Products))
	}
}

func TestGetUnknownProductNotFound(t *testing.T) {
	svc := newTestService(t, openTestDB(t))

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t, openTestDB(t))

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Broken",
		Price:    decimal.NewFromInt(-1),
		Category: "misc",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	product := seedProduct(t, conn, "Old Name", "misc", 4, false)

	newName := "New Name"
	newStock := 9
	updated, err := svc.Update(context.Background(), product.ID, UpdateProductRequest{
		Name:  &newName,
		Stock: &newStock,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != newName || updated.Stock != newStock {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Category != "misc" {
		t.Fatalf("untouched field changed: %q", updated.Category)
	}
}

func TestDeleteUnknownProductNotFound(t *testing.T) {
	svc := newTestService(t, openTestDB(t))

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDecrementStockGuardsAgainstOverselling(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	product := seedProduct(t, conn, "Scarce", "misc", 3, false)

	ok, err := repo.DecrementStock(context.Background(), product.ID, 2)
	if err != nil || !ok {
		t.Fatalf("expected decrement to succeed (ok=%v err=%v)", ok, err)
	}

	ok, err = repo.DecrementStock(context.Background(), product.ID, 2)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement past available stock to be refused")
	}

	var stored models.Product
	if err := conn.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Stock != 1 {
		t.Fatalf("expected stock 1, got %d", stored.Stock)
	}

	if err := repo.IncrementStock(context.Background(), product.ID, 2); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := conn.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Stock != 3 {
		t.Fatalf("expected restored stock 3, got %d", stored.Stock)
	}
}
