package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
)

// The sqlite driver backs every repo and service test, so the model tags must
// produce DDL it can execute. Function defaults like gen_random_uuid() belong
// in the SQL migrations, not the gorm tags.
func TestAutoMigrateWorksOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := conn.AutoMigrate(
		&User{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&PointsEvent{},
		&UserPreference{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&User{}, &Product{}, &CartItem{}, &Order{}, &OrderItem{}, &PointsEvent{}, &UserPreference{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	user := &User{Email: "ids@example.com", PasswordHash: "hash", Name: "Ids", IsActive: true}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("user id not assigned")
	}

	product := &Product{Name: "Jar", Price: decimal.NewFromInt(2), Category: "misc"}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("product id not assigned")
	}

	order := &Order{
		UserID: user.ID,
		Total:  decimal.NewFromInt(2),
		Status: enums.OrderStatusPending,
		Items:  []OrderItem{{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(2)}},
	}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID == uuid.Nil || order.Items[0].ID == uuid.Nil {
		t.Fatal("order ids not assigned")
	}
}
