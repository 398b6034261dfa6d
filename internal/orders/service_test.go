package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/internal/cart"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/catalog"
	"github.com/kadavakolla169-collab/SmartCartShop/internal/ledger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
)

type fixture struct {
	client *db.Client
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PointsEvent{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	client := db.NewFromConn(conn)

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}

	svc, err := NewService(ServiceParams{
		DB:          client,
		Repo:        NewRepository(conn),
		CartRepo:    cart.NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
		Ledger:      ledgerSvc,
	})
	if err != nil {
		t.Fatalf("new orders service: %v", err)
	}

	return &fixture{client: client, svc: svc}
}

func (f *fixture) seedUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
		IsActive:     true,
	}
	if err := f.client.DB().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64, stock int, eco bool, co2, plastic float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:            name,
		Price:           decimal.NewFromFloat(price),
		Stock:           stock,
		Category:        "misc",
		EcoFriendly:     eco,
		CarbonFootprint: decimal.NewFromFloat(co2),
		PlasticContent:  decimal.NewFromFloat(plastic),
	}
	if err := f.client.DB().Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (f *fixture) addToCart(t *testing.T, userID, productID uuid.UUID, qty int) {
	t.Helper()
	if err := f.client.DB().Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
}

func (f *fixture) productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := f.client.DB().First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.Stock
}

func (f *fixture) userPoints(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var user models.User
	if err := f.client.DB().First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.GreenPoints
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	brush := f.seedProduct(t, "Bamboo Brush", 3.50, 5, true, 2.0, 0.5)

	f.addToCart(t, user.ID, jar.ID, 2)
	f.addToCart(t, user.ID, brush.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if !order.Total.Equal(decimal.NewFromFloat(11.50)) {
		t.Fatalf("expected total 11.50, got %s", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	if got := f.productStock(t, jar.ID); got != 8 {
		t.Fatalf("expected jar stock 8, got %d", got)
	}
	if got := f.productStock(t, brush.ID); got != 4 {
		t.Fatalf("expected brush stock 4, got %d", got)
	}

	var cartCount int64
	f.client.DB().Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	if cartCount != 0 {
		t.Fatalf("expected cleared cart, got %d lines", cartCount)
	}

	// one eco line -> 10 points
	if got := f.userPoints(t, user.ID); got != 10 {
		t.Fatalf("expected 10 green points, got %d", got)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)

	_, err := f.svc.Checkout(context.Background(), user.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if typed.Message() != "cart is empty" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestCheckoutShortfallLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	scarce := f.seedProduct(t, "Scarce", 2.00, 1, false, 0, 0)

	f.addToCart(t, user.ID, jar.ID, 2)
	f.addToCart(t, user.ID, scarce.ID, 3)

	_, err := f.svc.Checkout(context.Background(), user.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	if got := f.productStock(t, jar.ID); got != 10 {
		t.Fatalf("jar stock mutated on failed checkout: %d", got)
	}
	if got := f.productStock(t, scarce.ID); got != 1 {
		t.Fatalf("scarce stock mutated on failed checkout: %d", got)
	}

	var cartCount, orderCount int64
	f.client.DB().Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	f.client.DB().Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)
	if cartCount != 2 {
		t.Fatalf("cart mutated on failed checkout: %d lines", cartCount)
	}
	if orderCount != 0 {
		t.Fatalf("order created on failed checkout")
	}
}

func TestCheckoutTotalFixedAtCreation(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// catalog price change must not leak into the existing order
	if err := f.client.DB().Model(&models.Product{}).Where("id = ?", jar.ID).
		Update("price", decimal.NewFromFloat(99.0)).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}

	reloaded, err := f.svc.Get(context.Background(), user.ID, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !reloaded.Total.Equal(decimal.NewFromFloat(4.00)) {
		t.Fatalf("expected snapshot total 4.00, got %s", reloaded.Total)
	}
	if !reloaded.Items[0].Price.Equal(decimal.NewFromFloat(4.00)) {
		t.Fatalf("expected snapshot unit price 4.00, got %s", reloaded.Items[0].Price)
	}
}

func TestCancelRoundTripsStockAndPoints(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	brush := f.seedProduct(t, "Bamboo Brush", 3.50, 5, true, 2.0, 0.5)
	f.addToCart(t, user.ID, brush.ID, 2)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if got := f.productStock(t, brush.ID); got != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", got)
	}
	if got := f.userPoints(t, user.ID); got != 10 {
		t.Fatalf("expected 10 points after checkout, got %d", got)
	}

	if err := f.svc.Cancel(context.Background(), user.ID, order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := f.productStock(t, brush.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}
	if got := f.userPoints(t, user.ID); got != 0 {
		t.Fatalf("expected points reversed to 0, got %d", got)
	}

	_, err = f.svc.Get(context.Background(), user.ID, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND after cancel, got %v", err)
	}
}

func TestCancelForeignOrderReadsAsMissing(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t)
	stranger := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, owner.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	err = f.svc.Cancel(context.Background(), stranger.ID, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for foreign cancel, got %v", err)
	}
}

func TestCancelNonPendingRejected(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "processing"}); err != nil {
		t.Fatalf("advance status: %v", err)
	}

	err = f.svc.Cancel(context.Background(), user.ID, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}

	if got := f.productStock(t, jar.ID); got != 9 {
		t.Fatalf("stock mutated by rejected cancel: %d", got)
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// pending -> shipped skips processing
	_, err = f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "shipped"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT for skipped step, got %v", err)
	}

	for _, status := range []string{"processing", "shipped", "delivered"} {
		updated, err := f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: status})
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if string(updated.Status) != status {
			t.Fatalf("expected status %s, got %s", status, updated.Status)
		}
	}

	// delivered is terminal
	_, err = f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "processing"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT from terminal state, got %v", err)
	}
}

func TestUpdateStatusRejectsCancelledAndUnknown(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	_, err = f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "cancelled"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT for cancelled via status update, got %v", err)
	}

	_, err = f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "teleported"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for unknown status, got %v", err)
	}
}

func TestRepoUpdateStatusGuardsExpectedState(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	repo := NewRepository(f.client.DB())

	// stale expectation: the order is pending, not processing
	ok, err := repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusProcessing, enums.OrderStatusShipped)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if ok {
		t.Fatal("update with stale expected status should affect no rows")
	}

	var stored models.Order
	if err := f.client.DB().First(&stored, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if stored.Status != enums.OrderStatusPending {
		t.Fatalf("status mutated by zero-row update: %s", stored.Status)
	}

	ok, err = repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if !ok {
		t.Fatal("update with matching expected status should succeed")
	}
}

func TestUpdateStatusLosingRaceReportsConflict(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)
	f.addToCart(t, user.ID, jar.ID, 1)

	order, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// flip the status between the service's read and its guarded write, as a
	// concurrent transition would
	raced := false
	cbErr := f.client.DB().Callback().Update().Before("gorm:update").Register("inject_competing_transition", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "orders" {
			return
		}
		raced = true
		res := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"UPDATE orders SET status = ? WHERE id = ?", enums.OrderStatusProcessing, order.ID,
		)
		if res.Error != nil {
			t.Errorf("inject competing transition: %v", res.Error)
		}
	})
	if cbErr != nil {
		t.Fatalf("register callback: %v", cbErr)
	}

	_, err = f.svc.UpdateStatus(context.Background(), user.ID, order.ID, UpdateStatusRequest{Status: "processing"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT after losing transition race, got %v", err)
	}
	if !raced {
		t.Fatal("competing transition never fired")
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t)
	jar := f.seedProduct(t, "Jar", 4.00, 10, false, 0, 0)

	f.addToCart(t, user.ID, jar.ID, 1)
	first, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	f.addToCart(t, user.ID, jar.ID, 1)
	second, err := f.svc.Checkout(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	list, err := f.svc.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest order first")
	}
}
