package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db/models"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/security"
)

func openRegisterTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db.NewFromConn(conn)
}

func newRegisterService(t *testing.T, client *db.Client) RegisterService {
	t.Helper()

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		SessionManager: &stubSessions{},
		JWTConfig:      testJWT(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func TestRegisterCreatesRegularUser(t *testing.T) {
	client := openRegisterTestDB(t)
	svc := newRegisterService(t, client)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New.Shopper@Example.com",
		Password: "long enough secret",
		Name:     "  New Shopper  ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User.Role != enums.UserRoleUser {
		t.Fatalf("self-service signup must produce role user, got %s", resp.User.Role)
	}
	if resp.User.Email != "new.shopper@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.Name != "New Shopper" {
		t.Fatalf("expected trimmed name, got %q", resp.User.Name)
	}

	var stored models.User
	if err := client.DB().First(&stored, "email = ?", "new.shopper@example.com").Error; err != nil {
		t.Fatalf("load stored user: %v", err)
	}
	ok, err := security.VerifyPassword("long enough secret", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify (ok=%v err=%v)", ok, err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	client := openRegisterTestDB(t)
	svc := newRegisterService(t, client)

	req := RegisterRequest{Email: "dup@example.com", Password: "long enough secret", Name: "First"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	var count int64
	client.DB().Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	if count != 1 {
		t.Fatalf("expected a single stored user, got %d", count)
	}
}

func TestCreateAdminAssignsAdminRole(t *testing.T) {
	client := openRegisterTestDB(t)
	svc := newRegisterService(t, client)

	user, err := svc.CreateAdmin(context.Background(), RegisterRequest{
		Email:    "ops@example.com",
		Password: "long enough secret",
		Name:     "Ops",
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if user.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}
