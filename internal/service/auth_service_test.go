package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vendortrack/internal/config"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-auth-service-tests"
	cfg.JWT.ExpireHours = 1
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func seedAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return &admin
}

func TestLoginSuccessAndTokenRoundTrip(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "operator", "s3cret-pass")

	admin, token, expiresAt, err := svc.Login("operator", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("unexpected token result: token=%q expires=%v", token, expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "operator" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "operator", "s3cret-pass")

	if _, _, _, err := svc.Login("operator", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got: %v", err)
	}
}

func TestParseJWTRejectsTamperedToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "operator", "s3cret-pass")

	_, token, _, err := svc.Login("operator", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("expected error for tampered token")
	}
}
