package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.PointsEvent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, conn *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()
	var user models.User
	if err := conn.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &user
}

func TestComputeImpactCountsEcoLinesOnly(t *testing.T) {
	eco := &models.Product{EcoFriendly: true, CarbonFootprint: decimal.NewFromFloat(2.5), PlasticContent: decimal.NewFromFloat(0.5)}
	plain := &models.Product{EcoFriendly: false, CarbonFootprint: decimal.NewFromFloat(9), PlasticContent: decimal.NewFromFloat(9)}

	impact := ComputeImpact([]models.OrderItem{
		{Product: eco, Quantity: 2},
		{Product: plain, Quantity: 3},
		{Product: eco, Quantity: 1},
	})

	if impact.Points != 2*PointsPerEcoItem {
		t.Fatalf("expected %d points, got %d", 2*PointsPerEcoItem, impact.Points)
	}
	if !impact.CO2Savings.Equal(decimal.NewFromFloat(7.5)) {
		t.Fatalf("expected co2 7.5, got %s", impact.CO2Savings)
	}
	if !impact.PlasticSaving.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("expected plastic 1.5, got %s", impact.PlasticSaving)
	}
}

func TestCreditIsIdempotentPerOrder(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := CreditInput{
		OrderID:       uuid.New(),
		UserID:        user.ID,
		Points:        20,
		CO2Savings:    decimal.NewFromFloat(4.0),
		PlasticSaving: decimal.NewFromFloat(1.0),
	}

	if _, err := svc.Credit(context.Background(), conn, input); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	if _, err := svc.Credit(context.Background(), conn, input); err != nil {
		t.Fatalf("second credit: %v", err)
	}

	stored := reloadUser(t, conn, user.ID)
	if stored.GreenPoints != 20 {
		t.Fatalf("expected 20 points after retry, got %d", stored.GreenPoints)
	}
	if !stored.TotalCO2Saved.Equal(decimal.NewFromFloat(4.0)) {
		t.Fatalf("expected co2 4.0, got %s", stored.TotalCO2Saved)
	}

	var count int64
	conn.Model(&models.PointsEvent{}).Where("order_id = ?", input.OrderID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single ledger row, got %d", count)
	}
}

func TestReverseUndoesCreditOnce(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)
	svc, _ := NewService(NewRepository(conn))

	orderID := uuid.New()
	input := CreditInput{
		OrderID:       orderID,
		UserID:        user.ID,
		Points:        30,
		CO2Savings:    decimal.NewFromFloat(6.0),
		PlasticSaving: decimal.NewFromFloat(2.0),
	}
	if _, err := svc.Credit(context.Background(), conn, input); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if _, err := svc.Reverse(context.Background(), conn, orderID, user.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if _, err := svc.Reverse(context.Background(), conn, orderID, user.ID); err != nil {
		t.Fatalf("reverse retry: %v", err)
	}

	stored := reloadUser(t, conn, user.ID)
	if stored.GreenPoints != 0 {
		t.Fatalf("expected points back to 0, got %d", stored.GreenPoints)
	}
	if !stored.TotalCO2Saved.Equal(decimal.Zero) {
		t.Fatalf("expected co2 back to 0, got %s", stored.TotalCO2Saved)
	}
}

func TestReverseFloorsAtZero(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)
	svc, _ := NewService(NewRepository(conn))

	orderID := uuid.New()
	if _, err := svc.Credit(context.Background(), conn, CreditInput{
		OrderID:       orderID,
		UserID:        user.ID,
		Points:        10,
		CO2Savings:    decimal.NewFromFloat(1.0),
		PlasticSaving: decimal.Zero,
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// external adjustment drops the balance below the award
	if err := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("green_points", 5).Error; err != nil {
		t.Fatalf("adjust points: %v", err)
	}

	if _, err := svc.Reverse(context.Background(), conn, orderID, user.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	stored := reloadUser(t, conn, user.ID)
	if stored.GreenPoints != 0 {
		t.Fatalf("expected floor at 0, got %d", stored.GreenPoints)
	}
}

func TestReverseWithoutCreditIsNoop(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)
	svc, _ := NewService(NewRepository(conn))

	event, err := svc.Reverse(context.Background(), conn, uuid.New(), user.ID)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if event != nil {
		t.Fatalf("expected no event, got %+v", event)
	}
}
